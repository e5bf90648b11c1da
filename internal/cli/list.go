package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"skillpack/internal/skillmd"
	"skillpack/internal/tui/styles"
)

var (
	listAvailable bool
	listAll       bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List skills",
	Long: `List installed skills or all available skills.

Examples:
  skillpack list              # List installed skills
  skillpack list --available  # List available skills from registry
  skillpack list --all        # List all skills with install status`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAvailable, "available", "a", false, "List available skills from registry")
	listCmd.Flags().BoolVar(&listAll, "all", false, "List all skills with install status")
}

func runList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if listAvailable || listAll {
		return listFromRegistry(app, listAll)
	}
	return listInstalled(app)
}

func listInstalled(app *app) error {
	installed := app.store.List()
	if len(installed) == 0 {
		fmt.Println("No skills installed")
		fmt.Println("\nUse 'skillpack browse' or 'skillpack list --available' to see available skills")
		return nil
	}

	slugs := make([]string, 0, len(installed))
	for slug := range installed {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	fmt.Println("Installed skills:")
	fmt.Println()

	for _, slug := range slugs {
		rec := installed[slug]
		fmt.Printf("  %s %s@%s\n", styles.StatusInstalled, slug, orLatest(rec.Version))
		when := time.Unix(rec.InstalledAt, 0).Format("2006-01-02 15:04")
		fmt.Printf("    %s\n", styles.Muted.Render("installed "+when))
	}

	if !app.store.LastSync().IsZero() {
		fmt.Printf("\nLast registry sync: %s\n", app.store.LastSync().Format("2006-01-02 15:04"))
	}
	return nil
}

func listFromRegistry(app *app, showStatus bool) error {
	fmt.Println("Fetching skill index...")

	idx := app.engine.Registry().FetchIndex(false)
	if len(idx.Skills) == 0 {
		fmt.Println("No skills available in registry")
		return nil
	}

	if showStatus {
		fmt.Printf("Skills (%s installed, %s available):\n", styles.StatusInstalled, styles.StatusAvailable)
	} else {
		fmt.Println("Available skills:")
	}
	fmt.Println()

	for _, entry := range idx.Skills {
		status := "  "
		if showStatus {
			if _, tracked := app.store.Get(entry.Slug); tracked || app.engine.IsInstalled(entry.Slug) {
				status = styles.StatusInstalled.String() + " "
			} else {
				status = styles.StatusAvailable.String() + " "
			}
		}

		fmt.Printf("%s%s@%s\n", status, entry.Slug, orLatest(entry.Version))
		if entry.Description != "" {
			fmt.Printf("    %s\n", skillmd.Truncate(entry.Description, 60))
		}
	}

	return nil
}
