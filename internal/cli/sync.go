package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Force a registry index refresh",
	Long: `Fetch the registry index, bypassing the cache TTL.

Examples:
  skillpack sync`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Println("Fetching skill index...")
	idx := app.engine.Registry().FetchIndex(true)
	if len(idx.Skills) == 0 {
		fmt.Println("Registry unreachable or empty; no skills listed")
		return nil
	}

	fmt.Printf("Synced: %d skill(s), index version %s\n", len(idx.Skills), idx.Version)
	return nil
}
