package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skillpack/internal/agents"
)

var (
	installAgent     string
	installAllAgents bool
)

var installCmd = &cobra.Command{
	Use:   "install <slug>",
	Short: "Install a skill from the registry",
	Long: `Install a skill from the registry.

Flat skills are written as a single markdown file; pack skills are
downloaded as an archive, validated, and extracted into their own
directory. Declared binary dependencies are resolved through whichever
OS package manager is available. A dependency failure is reported but
does not fail the install.

Examples:
  skillpack install pdf-rotate
  skillpack install pdf-rotate --agent coder
  skillpack install pdf-rotate --all-agents`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installAgent, "agent", "", "Assign the skill to this agent after install")
	installCmd.Flags().BoolVar(&installAllAgents, "all-agents", false, "Assign the skill to every agent after install")
}

func runInstall(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	slug := args[0]

	fmt.Printf("Installing %s...\n", slug)
	res := app.engine.Install(slug)
	if !res.OK {
		if res.Suggestion != "" {
			return fmt.Errorf("failed to install %s: %v (did you mean %q?)", slug, res.Err, res.Suggestion)
		}
		return fmt.Errorf("failed to install %s: %v", slug, res.Err)
	}

	fmt.Printf("Successfully installed %s", slug)
	if res.Version != "" {
		fmt.Printf("@%s", res.Version)
	}
	fmt.Println()

	if res.Deps != nil && !res.Deps.DepsOK {
		fmt.Printf("Warning: dependencies unresolved")
		if len(res.Deps.Missing) > 0 {
			fmt.Printf(" (missing: %s)", strings.Join(res.Deps.Missing, ", "))
		}
		fmt.Println()
		if res.Deps.Message != "" {
			fmt.Printf("  %s\n", res.Deps.Message)
		}
	}

	target := installAgent
	if installAllAgents {
		target = agents.All
	}
	if target != "" {
		if err := app.engine.AssignAgents(slug, target); err != nil {
			return fmt.Errorf("installed, but failed to assign to agents: %w", err)
		}
		if target == agents.All {
			fmt.Println("Assigned to all agents")
		} else {
			fmt.Printf("Assigned to agent %s\n", target)
		}
	}

	return nil
}
