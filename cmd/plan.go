package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/houghtp/terra-automation-platform-sub005/internal/content"
	"github.com/houghtp/terra-automation-platform-sub005/internal/pipeline"
)

var (
	planKeywords    []string
	planAudience    string
	planTone        string
	planURLs        []string
	planMinScore    int
	planIterations  int
	planUseResearch bool
	planTenant      string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage content plans",
}

var planSubmitCmd = &cobra.Command{
	Use:   "submit <title>",
	Short: "Submit a new content plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		plan, err := a.engine.SubmitPlan(content.PlanSubmission{
			Title:          args[0],
			SEOKeywords:    planKeywords,
			TargetAudience: planAudience,
			Tone:           planTone,
			CompetitorURLs: planURLs,
			MinSEOScore:    planMinScore,
			MaxIterations:  planIterations,
		})
		if err != nil {
			return err
		}
		return printJSON(plan)
	},
}

var planProcessCmd = &cobra.Command{
	Use:   "process <plan-id>",
	Short: "Run the generation loop for a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if sec := a.cfg.Pipeline.ProcessTimeoutSec; sec > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(sec)*time.Second)
			defer cancel()
		}

		result, err := a.engine.Process(ctx, args[0], pipeline.ProcessOptions{
			UseResearch: planUseResearch,
			TenantID:    planTenant,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show a plan with its content and latest score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		plan, err := a.store.GetPlan(args[0])
		if err != nil {
			return err
		}
		out := map[string]any{"plan": plan}
		if item, err := a.store.GetItemByPlan(plan.ID); err == nil {
			out["content"] = item
		}
		if result, iteration, err := a.store.GetLatestValidation(plan.ID); err == nil {
			out["validation"] = map[string]any{"iteration": iteration, "result": result}
		}
		return printJSON(out)
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		plans, err := a.store.ListPlans(50)
		if err != nil {
			return err
		}
		for _, p := range plans {
			fmt.Printf("%s  %-11s  %s\n", p.ID, p.Status, p.Title)
		}
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	planSubmitCmd.Flags().StringSliceVar(&planKeywords, "keyword", nil, "Target keyword (repeatable)")
	planSubmitCmd.Flags().StringVar(&planAudience, "audience", "", "Target audience")
	planSubmitCmd.Flags().StringVar(&planTone, "tone", "", "Tone of voice")
	planSubmitCmd.Flags().StringSliceVar(&planURLs, "competitor-url", nil, "Competitor URL to research (repeatable)")
	planSubmitCmd.Flags().IntVar(&planMinScore, "min-score", 75, "Quality gate score, 0-100")
	planSubmitCmd.Flags().IntVar(&planIterations, "max-iterations", 3, "Refinement budget")

	planProcessCmd.Flags().BoolVar(&planUseResearch, "research", false, "Gather research sources before drafting")
	planProcessCmd.Flags().StringVar(&planTenant, "tenant", "", "Tenant id for prompt template overrides")

	planCmd.AddCommand(planSubmitCmd, planProcessCmd, planShowCmd, planListCmd)
	rootCmd.AddCommand(planCmd)
}
