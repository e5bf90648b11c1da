package cli

import (
	"github.com/spf13/cobra"

	"skillpack/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "skillpack",
	Short: "Skill package manager",
	Long: `skillpack is a package manager for agent skills.

It discovers installable skills from a remote registry index, installs
their payloads into a central skills directory, satisfies native binary
dependencies through whichever OS package manager is available, and
tracks installed state locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Launch browse as default action when no subcommand given
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return tui.Run(app.engine)
	},
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(browseCmd)
}
