package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/storage/sqlite"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the local paper index",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetForce {
		cmd.Print("This removes all indexed papers. Continue? [y/N] ")
		var reply string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &reply)
		if reply != "y" && reply != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening paper store: %w", err)
	}
	defer store.Close()

	if err := store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	cmd.Println("Index cleared.")
	return nil
}
