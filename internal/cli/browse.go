package cli

import (
	"github.com/spf13/cobra"

	"skillpack/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse skills interactively",
	Long: `Launch the interactive skill browser.

Navigate with arrow keys, filter with /, install the selected skill
with enter, quit with q.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	return tui.Run(app.engine)
}
