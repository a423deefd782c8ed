package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracontent/pkg/database"
	"tracontent/pkg/services"
)

// NewSetupExampleContentCmd creates the setup_example_content command.
func NewSetupExampleContentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup_example_content <host:port>",
		Short: "Seed a site with example content",
		Long: `Creates the site reachable at <host:port> and fills it with the
embedded example content: site settings, a small page tree and a couple
of blog posts. Running it again updates the example content in place.

Example:

  tracontent setup_example_content localhost:8000`,
		Args: cobra.ExactArgs(1),
		RunE: runSetupExampleContentCmd,
	}
}

// runSetupExampleContentCmd executes the setup_example_content command.
func runSetupExampleContentCmd(cmd *cobra.Command, args []string) error {
	domain := args[0]

	db, err := database.Open(databasePath(cmd), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := services.SeedExampleContent(db, domain); err != nil {
		return fmt.Errorf("failed to seed example content: %w", err)
	}

	fmt.Printf("Example content seeded for %s\n", domain)
	fmt.Printf("Serve it with: tracontent runserver %s\n", domain)
	return nil
}
