package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skillpack/internal/agents"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage agent skill assignments",
	Long: `Inspect and edit the agent-configuration document: which agents
have which skills assigned.`,
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents and their assigned skills",
	RunE:  runAgentsList,
}

var agentsAssignCmd = &cobra.Command{
	Use:   "assign <slug> <agent>",
	Short: "Assign a skill to an agent (use 'all' for every agent)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAgentsAssign,
}

var agentsUnassignCmd = &cobra.Command{
	Use:   "unassign <slug> <agent>",
	Short: "Remove a skill from an agent (use 'all' for every agent)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAgentsUnassign,
}

func init() {
	agentsCmd.AddCommand(agentsListCmd)
	agentsCmd.AddCommand(agentsAssignCmd)
	agentsCmd.AddCommand(agentsUnassignCmd)
}

func agentArg(arg string) string {
	if arg == "all" {
		return agents.All
	}
	return arg
}

func runAgentsList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	mgr := agents.NewManager(app.cfg.AgentsPath)
	doc, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("failed to load agents document: %w", err)
	}

	if len(doc.Agents) == 0 {
		fmt.Println("No agents configured")
		return nil
	}

	for _, a := range doc.Agents {
		fmt.Printf("%s\n", a.Name)
		if len(a.Skills) == 0 {
			fmt.Println("  (no skills)")
			continue
		}
		fmt.Printf("  %s\n", strings.Join(a.Skills, ", "))
	}
	return nil
}

func runAgentsAssign(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	slug, agent := args[0], agentArg(args[1])
	mgr := agents.NewManager(app.cfg.AgentsPath)
	if err := mgr.Assign(slug, agent); err != nil {
		return fmt.Errorf("failed to assign %s: %w", slug, err)
	}
	fmt.Printf("Assigned %s\n", slug)
	return nil
}

func runAgentsUnassign(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	slug, agent := args[0], agentArg(args[1])
	mgr := agents.NewManager(app.cfg.AgentsPath)
	if err := mgr.Unassign(slug, agent); err != nil {
		return fmt.Errorf("failed to unassign %s: %w", slug, err)
	}
	fmt.Printf("Unassigned %s\n", slug)
	return nil
}
