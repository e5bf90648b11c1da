package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skillpack/internal/tui/styles"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Scan catalog skills' binary requirements against this host",
	Long: `Scan every catalog skill's declared requirements against this host.

Skills restricted to another OS, or declaring nothing actionable, are
excluded from the report.

Examples:
  skillpack deps`,
	RunE: runDeps,
}

func runDeps(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Println("Scanning dependencies...")
	records := app.engine.ScanDeps(false)
	if len(records) == 0 {
		fmt.Println("No skills with actionable requirements")
		return nil
	}

	fmt.Println()
	var unsatisfied int
	for _, rec := range records {
		if rec.Satisfied() {
			fmt.Printf("%s %s\n", styles.StatusInstalled, rec.Skill)
		} else {
			unsatisfied++
			fmt.Printf("%s %s\n", styles.StatusAvailable, rec.Skill)
			if len(rec.MissingBins) > 0 {
				fmt.Printf("    missing: %s\n", strings.Join(rec.MissingBins, ", "))
			}
			if !rec.HasAnyBin {
				fmt.Printf("    needs one of: %s\n", strings.Join(rec.RequiredAnyBins, ", "))
			}
		}
		if len(rec.MissingEnv) > 0 {
			fmt.Printf("    %s\n", styles.Muted.Render("env unset: "+strings.Join(rec.MissingEnv, ", ")))
		}
	}

	fmt.Printf("\n%d skill(s) scanned, %d unsatisfied\n", len(records), unsatisfied)
	return nil
}
