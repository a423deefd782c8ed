package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracontent/pkg/database"
	"tracontent/pkg/services"
)

// NewSetupCmd creates the setup command.
func NewSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Initialize the database",
		Long: `Setup creates the SQLite database and applies the schema.

With --test, a throwaway "` + services.TestSiteDomain + `" site with dummy
settings is created as well, so the installation can be poked at before
any real site exists.`,
		Args: cobra.NoArgs,
		RunE: runSetupCmd,
	}

	cmd.Flags().Bool("test", false, "Also create the test site")

	return cmd
}

// runSetupCmd executes the setup command.
func runSetupCmd(cmd *cobra.Command, _ []string) error {
	db, err := database.Open(databasePath(cmd), database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("Database ready at %s\n", db.Path())

	test, err := cmd.Flags().GetBool("test")
	if err != nil {
		return err
	}
	if test {
		site, err := services.SetupTestSite(db)
		if err != nil {
			return fmt.Errorf("failed to create test site: %w", err)
		}
		fmt.Printf("Test site ready at %s\n", site.Domain)
	}

	return nil
}
