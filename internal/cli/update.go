package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"skillpack/internal/registry"
)

var updateDryRun bool

var updateCmd = &cobra.Command{
	Use:   "update [slug]",
	Short: "Update installed skill(s)",
	Long: `Update one or all installed skills.

Without a slug, every tracked skill whose registry version is newer than
the installed one is reinstalled. Use --dry-run to preview.

Examples:
  skillpack update               # Update all outdated skills
  skillpack update pdf-rotate    # Update a specific skill
  skillpack update --dry-run     # Preview updates`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Preview updates without making changes")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) > 0 {
		slug := args[0]
		fmt.Printf("Updating %s...\n", slug)
		if updateDryRun {
			fmt.Printf("  %s: would reinstall from registry\n", slug)
			return nil
		}
		res := app.engine.Update(slug)
		if !res.OK {
			return fmt.Errorf("failed to update %s: %v", slug, res.Err)
		}
		fmt.Printf("Updated %s to %s\n", slug, res.Version)
		return nil
	}

	installed := app.store.List()
	if len(installed) == 0 {
		fmt.Println("No skills installed")
		return nil
	}

	fmt.Println("Fetching skill index...")
	idx := app.engine.Registry().FetchIndex(true)

	slugs := make([]string, 0, len(installed))
	for slug := range installed {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	var updated, skipped, failed int
	for _, slug := range slugs {
		info := installed[slug]
		entry := idx.Find(slug)
		if entry == nil {
			fmt.Printf("  %s: not found in registry, skipping\n", slug)
			skipped++
			continue
		}
		if !registry.VersionNewer(entry.Version, info.Version) {
			fmt.Printf("  %s: already up to date (%s)\n", slug, orLatest(info.Version))
			skipped++
			continue
		}

		if updateDryRun {
			fmt.Printf("  %s: %s → %s (would update)\n", slug, orLatest(info.Version), orLatest(entry.Version))
			updated++
			continue
		}

		res := app.engine.Update(slug)
		if !res.OK {
			fmt.Printf("  %s: failed: %v\n", slug, res.Err)
			failed++
			continue
		}
		fmt.Printf("  %s: %s → %s\n", slug, orLatest(info.Version), orLatest(res.Version))
		updated++
	}

	if updateDryRun {
		fmt.Printf("\nWould update: %d, skip: %d\n", updated, skipped)
	} else {
		fmt.Printf("\nUpdated %d skill(s)", updated)
		if skipped > 0 {
			fmt.Printf(", %d skipped", skipped)
		}
		if failed > 0 {
			fmt.Printf(", %d failed", failed)
		}
		fmt.Println()
	}

	return nil
}

func orLatest(version string) string {
	if version == "" {
		return "latest"
	}
	return version
}
