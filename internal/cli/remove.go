package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:     "remove <slug>",
	Aliases: []string{"rm", "uninstall"},
	Short:   "Remove an installed skill",
	Long: `Remove an installed skill from the local system.

Removes the skill's payload (flat file and/or directory) and its
tracking entry.

Examples:
  skillpack remove pdf-rotate
  skillpack rm pdf-rotate`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Force removal without confirmation")
}

func runRemove(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	slug := args[0]

	if !removeForce {
		fmt.Printf("Remove skill %s? [y/N]: ", slug)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := app.engine.Uninstall(slug); err != nil {
		return fmt.Errorf("failed to remove %s: %w", slug, err)
	}

	fmt.Printf("Successfully removed %s\n", slug)
	return nil
}
