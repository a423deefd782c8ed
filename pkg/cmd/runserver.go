package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracontent/pkg/database"
	"tracontent/pkg/handlers"
)

// NewRunserverCmd creates the runserver command.
func NewRunserverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runserver <host:port>",
		Short: "Start the HTTP server",
		Long: `Starts the HTTP server bound to <host:port>. Which site a request is
served from is decided per request by the Host header, so one server
can answer for every site in the database.`,
		Args: cobra.ExactArgs(1),
		RunE: runRunserverCmd,
	}
}

// runRunserverCmd executes the runserver command.
func runRunserverCmd(cmd *cobra.Command, args []string) error {
	addr := args[0]

	db, err := database.Open(databasePath(cmd), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	r := handlers.NewRouter(db)

	fmt.Printf("Serving on http://%s\n", addr)
	return r.Run(addr)
}
