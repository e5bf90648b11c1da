package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"skillpack/internal/skillmd"
)

var infoCmd = &cobra.Command{
	Use:   "info <slug>",
	Short: "Show details about a skill",
	Long: `Show detailed information about a skill, combining its registry
entry with local install state.

Examples:
  skillpack info pdf-rotate`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	slug := args[0]

	idx := app.engine.Registry().FetchIndex(false)
	entry := idx.Find(slug)
	rec, tracked := app.store.Get(slug)

	if entry == nil && !tracked && !app.engine.IsInstalled(slug) {
		return fmt.Errorf("skill %s not found in registry or locally", slug)
	}

	fmt.Printf("%s\n", slug)
	if entry != nil {
		if entry.Name != "" {
			fmt.Printf("  Name:        %s\n", entry.Name)
		}
		if entry.Description != "" {
			fmt.Printf("  Description: %s\n", entry.Description)
		}
		if entry.Author != "" {
			fmt.Printf("  Author:      %s\n", entry.Author)
		}
		fmt.Printf("  Version:     %s\n", orLatest(entry.Version))
		if len(entry.Tags) > 0 {
			fmt.Printf("  Tags:        %s\n", strings.Join(entry.Tags, ", "))
		}
		if entry.Pack {
			fmt.Println("  Type:        pack (directory)")
		} else {
			fmt.Println("  Type:        flat (single file)")
		}
		if len(entry.Requires.Bins) > 0 {
			fmt.Printf("  Requires:    %s\n", strings.Join(entry.Requires.Bins, ", "))
		}
		if len(entry.Requires.AnyBins) > 0 {
			fmt.Printf("  Any of:      %s\n", strings.Join(entry.Requires.AnyBins, ", "))
		}
		if len(entry.Requires.Env) > 0 {
			fmt.Printf("  Env:         %s\n", strings.Join(entry.Requires.Env, ", "))
		}
	}

	if tracked {
		fmt.Println("\n  Installed:")
		fmt.Printf("    Version:   %s\n", orLatest(rec.Version))
		fmt.Printf("    At:        %s\n", time.Unix(rec.InstalledAt, 0).Format(time.RFC1123))
		fmt.Printf("    Source:    %s\n", rec.Source)
		if entry != nil && entry.Version != rec.Version {
			fmt.Printf("    Update:    %s available\n", entry.Version)
		}
	} else if app.engine.IsInstalled(slug) {
		fmt.Println("\n  Installed: yes (untracked, placed manually)")
	}

	// Flat skills carry their own description in the payload
	if content, err := os.ReadFile(app.engine.FlatPath(slug)); err == nil {
		if desc := skillmd.ExtractDescription(string(content)); desc != "" {
			fmt.Printf("\n  Local:       %s\n", skillmd.Truncate(desc, 80))
		}
	}

	return nil
}
