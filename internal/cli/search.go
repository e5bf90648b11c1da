package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skillpack/internal/skillmd"
	"skillpack/internal/tui/styles"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for skills by slug, name, description, or tags",
	Long: `Search the registry for skills matching a free-text query.

Results are ranked: exact slug matches first, then substring and
per-token matches across slug, name, tags, and description.

Examples:
  skillpack search pdf
  skillpack search "pdf rotate"
  skillpack search data --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	query := args[0]

	fmt.Println("Searching...")
	results := app.engine.Search(query, searchLimit)
	if len(results) == 0 {
		fmt.Printf("No skills matching '%s'\n", query)
		return nil
	}

	fmt.Printf("Found %d skill(s) matching '%s':\n\n", len(results), query)

	for _, r := range results {
		status := styles.StatusAvailable.String()
		if r.Installed {
			status = styles.StatusInstalled.String()
		}

		fmt.Printf("%s %s@%s\n", status, r.Entry.Slug, orLatest(r.Entry.Version))
		if r.Entry.Description != "" {
			fmt.Printf("    %s\n", skillmd.Truncate(r.Entry.Description, 70))
		}
		if len(r.Entry.Tags) > 0 {
			fmt.Printf("    %s\n", styles.Muted.Render("tags: "+strings.Join(r.Entry.Tags, ", ")))
		}
		fmt.Println()
	}

	return nil
}
