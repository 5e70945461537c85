package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

var (
	baseURL      string
	businessIdea string
)

var rootCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Smoke tests for a running marketing strategy agent",
	Long: `Runs checks against a running marketing strategy agent.

Available subcommands:
  all        - health, agent card, A2A ICP generation and the wizard flow
  health     - GET /health
  agent-card - GET /.well-known/agent.json
  icp        - ICP generation over A2A (use --idea for a custom description)
  wizard     - walk the wizard API from business info to selling points`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		printHeader("Marketing Strategy Agent - Test Suite")
		fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, baseURL, colorReset)
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every check",
	RunE: func(cmd *cobra.Command, args []string) error {
		return NewTestClient(baseURL).runAllTests()
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(NewTestClient(baseURL).testHealthCheck())
	},
}

var agentCardCmd = &cobra.Command{
	Use:   "agent-card",
	Short: "Check the agent card",
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(NewTestClient(baseURL).testAgentCard())
	},
}

var icpCmd = &cobra.Command{
	Use:   "icp",
	Short: "Generate ICPs over A2A",
	RunE: func(cmd *cobra.Command, args []string) error {
		tc := NewTestClient(baseURL)
		if strings.TrimSpace(businessIdea) == "" {
			return check(tc.testICPGeneration())
		}
		return check(tc.testCustomICP(businessIdea))
	},
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Walk the wizard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(NewTestClient(baseURL).testWizardFlow())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the agent")
	icpCmd.Flags().StringVar(&businessIdea, "idea", "", "Business description for ICP generation")

	rootCmd.AddCommand(allCmd, healthCmd, agentCardCmd, icpCmd, wizardCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

func check(ok bool) error {
	if !ok {
		return fmt.Errorf("check failed")
	}
	return nil
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}
