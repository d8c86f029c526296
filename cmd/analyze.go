package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/chase-cli/internal/fetcher"
	"github.com/sells-group/chase-cli/internal/model"
	"github.com/sells-group/chase-cli/internal/pipeline"
	"github.com/sells-group/chase-cli/internal/store"
)

var (
	analyzeLeads string
	analyzeRecon string
	analyzeSave  bool
	analyzeTopN  int
)

// analyzeReport is the JSON document printed after a run.
type analyzeReport struct {
	RunID string `json:"run_id,omitempty"`

	Summary    model.Summary          `json:"summary"`
	RuleCounts map[model.RuleID]int   `json:"rule_counts"`
	Duplicates *model.DuplicateReport `json:"duplicates"`

	Reconciliation *model.ReconciliationResult `json:"reconciliation,omitempty"`

	Buckets       []model.BucketCount      `json:"buckets"`
	AgentAgeStats []model.AgeStats         `json:"agent_age_stats"`
	TopClients    []model.LeaderboardEntry `json:"top_clients"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis over a lead export",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		result, err := runPipeline(ctx, analyzeLeads, analyzeRecon)
		if err != nil {
			return err
		}

		records := result.Leads.Records
		report := analyzeReport{
			Summary:        pipeline.Summarize(records),
			RuleCounts:     result.Quality.Counts,
			Duplicates:     result.Duplicates,
			Reconciliation: result.Reconciliation,
			Buckets:        pipeline.BucketDistribution(records),
			AgentAgeStats:  pipeline.AgeStatsBy(records, pipeline.GroupAgent),
			TopClients:     pipeline.TopN(records, pipeline.GroupClient, analyzeTopN),
		}

		zap.L().Info("analysis complete",
			zap.Int("leads", report.Summary.TotalLeads),
			zap.Int("anomalies", len(result.Quality.Anomalies)),
			zap.Int("duplicate_groups", len(result.Duplicates.TrueDuplicates)),
		)

		if analyzeSave {
			report.RunID, err = saveRun(cmd, result, report)
			if err != nil {
				return err
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

// runPipeline loads the named sources and executes the pipeline over
// them. reconSource may be empty.
func runPipeline(ctx context.Context, leadsSource, reconSource string) (*pipeline.Result, error) {
	loader := newLoader()

	leads, err := loader.Load(ctx, leadsSource)
	if err != nil {
		return nil, eris.Wrap(err, "load leads export")
	}

	var recon *fetcher.Table
	if reconSource != "" {
		recon, err = loader.Load(ctx, reconSource)
		if err != nil {
			return nil, eris.Wrap(err, "load reconciliation export")
		}
	}

	p, err := newPipeline()
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, leads, recon)
}

func saveRun(cmd *cobra.Command, result *pipeline.Result, report analyzeReport) (string, error) {
	ctx := cmd.Context()

	st, err := initStore(ctx)
	if err != nil {
		return "", err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return "", eris.Wrap(err, "migrate store")
	}

	run := store.Run{
		ID:          uuid.New().String(),
		CreatedAt:   result.Now.UTC(),
		LeadsSource: analyzeLeads,
		ReconSource: analyzeRecon,
		Summary:     report.Summary,
		RuleCounts:  report.RuleCounts,

		DuplicateGroups:   len(result.Duplicates.TrueDuplicates),
		MultiProductCases: len(result.Duplicates.MultiProduct),
	}
	if result.Reconciliation != nil {
		run.Matched = len(result.Reconciliation.Matched)
		run.OnlyLeads = len(result.Reconciliation.OnlyA)
		run.OnlyRecon = len(result.Reconciliation.OnlyB)
		run.Conflicts = len(result.Reconciliation.Conflicts)
	}

	if err := st.SaveRun(ctx, run); err != nil {
		return "", err
	}

	records := result.Leads.Records
	if result.Recon != nil {
		records = append(append([]*model.LeadRecord{}, records...), result.Recon.Records...)
	}
	n, err := st.SaveRecords(ctx, run.ID, records)
	if err != nil {
		return "", err
	}

	zap.L().Info("run saved",
		zap.String("run_id", run.ID),
		zap.Int64("records", n),
	)
	return run.ID, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLeads, "leads", "", "lead export path or URL (required)")
	analyzeCmd.Flags().StringVar(&analyzeRecon, "recon", "", "reconciliation export path or URL")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the run snapshot to the store")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top", 10, "size of the top-clients leaderboard")
	_ = analyzeCmd.MarkFlagRequired("leads")
	rootCmd.AddCommand(analyzeCmd)
}
