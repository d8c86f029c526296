package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileLeads string
	reconcileWith  string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Cross-check the lead export against a second tracking source",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runPipeline(cmd.Context(), reconcileLeads, reconcileWith)
		if err != nil {
			return err
		}
		if result.Reconciliation == nil {
			return eris.New("reconcile: second source produced no records")
		}

		rec := result.Reconciliation
		zap.L().Info("reconciliation complete",
			zap.Int("matched", len(rec.Matched)),
			zap.Int("only_leads", len(rec.OnlyA)),
			zap.Int("only_recon", len(rec.OnlyB)),
			zap.Int("conflicts", len(rec.Conflicts)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileLeads, "leads", "", "lead export path or URL (required)")
	reconcileCmd.Flags().StringVar(&reconcileWith, "with", "", "reconciliation export path or URL (required)")
	_ = reconcileCmd.MarkFlagRequired("leads")
	_ = reconcileCmd.MarkFlagRequired("with")
	rootCmd.AddCommand(reconcileCmd)
}
