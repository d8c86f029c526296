package main

import (
	"os"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/chase-cli/internal/model"
	"github.com/sells-group/chase-cli/internal/pipeline"
)

var (
	exportLeads        string
	exportOut          string
	exportClients      []string
	exportAgents       []string
	exportGroups       []string
	exportDispositions []string
	exportCaseID       string
	exportSearch       string
	exportDateField    string
	exportFrom         string
	exportTo           string
)

// exportRow is the flattened CSV shape of one canonical record.
type exportRow struct {
	CaseID      string `csv:"mcn"`
	Client      string `csv:"client"`
	Product     string `csv:"product"`
	AgentName   string `csv:"agent_name"`
	AgentGroup  string `csv:"agent_group"`
	Disposition string `csv:"disposition"`

	CreatedTime    string `csv:"created_time"`
	AssignedTime   string `csv:"assigned_date"`
	ApprovedTime   string `csv:"approval_date"`
	DeniedTime     string `csv:"denial_date"`
	CompletionDate string `csv:"completion_date"`
	UploadDate     string `csv:"upload_date"`

	CompletionAgeDays *int   `csv:"completion_age_days,omitempty"`
	WeekBucket        string `csv:"week_bucket"`

	Comments string `csv:"comments"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered canonical records as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runPipeline(cmd.Context(), exportLeads, "")
		if err != nil {
			return err
		}

		filter, err := buildExportFilter()
		if err != nil {
			return err
		}
		records := filter.Apply(result.Leads.Records)

		rows := make([]exportRow, len(records))
		for i, rec := range records {
			rows[i] = buildExportRow(rec)
		}

		data, err := csvutil.Marshal(rows)
		if err != nil {
			return eris.Wrap(err, "export: marshal csv")
		}

		if exportOut == "" || exportOut == "-" {
			_, err = os.Stdout.Write(data)
			return eris.Wrap(err, "export: write stdout")
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return eris.Wrapf(err, "export: write %s", exportOut)
		}

		zap.L().Info("export written",
			zap.String("path", exportOut),
			zap.Int("records", len(rows)),
		)
		return nil
	},
}

func buildExportFilter() (pipeline.Filter, error) {
	f := pipeline.Filter{
		Clients:      exportClients,
		Agents:       exportAgents,
		Groups:       exportGroups,
		Dispositions: exportDispositions,
		CaseID:       exportCaseID,
		Search:       exportSearch,
	}

	if exportFrom == "" && exportTo == "" {
		return f, nil
	}
	if exportDateField == "" {
		return f, eris.New("export: --date-field is required with --from/--to")
	}

	field := model.Field(exportDateField)
	if !field.IsDate() {
		return f, eris.Errorf("export: unknown date field %q", exportDateField)
	}
	f.DateField = field

	parse := func(s string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
		if err != nil {
			return nil, eris.Wrapf(err, "export: parse date %q", s)
		}
		return &t, nil
	}
	var err error
	if f.From, err = parse(exportFrom); err != nil {
		return f, err
	}
	if f.To, err = parse(exportTo); err != nil {
		return f, err
	}
	return f, nil
}

func buildExportRow(rec *model.LeadRecord) exportRow {
	fmtDate := func(f model.Field) string {
		t, ok := rec.Date(f)
		if !ok {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	}
	return exportRow{
		CaseID:      rec.CaseID,
		Client:      rec.Client,
		Product:     rec.Product,
		AgentName:   rec.AgentName,
		AgentGroup:  rec.AgentGroup,
		Disposition: rec.Disposition,

		CreatedTime:    fmtDate(model.FieldCreatedTime),
		AssignedTime:   fmtDate(model.FieldAssignedDate),
		ApprovedTime:   fmtDate(model.FieldApprovalDate),
		DeniedTime:     fmtDate(model.FieldDenialDate),
		CompletionDate: fmtDate(model.FieldCompletionDate),
		UploadDate:     fmtDate(model.FieldUploadDate),

		CompletionAgeDays: rec.Metrics.CompletionAgeDays,
		WeekBucket:        rec.Metrics.BucketLabel,

		Comments: rec.Comments,
	}
}

func init() {
	exportCmd.Flags().StringVar(&exportLeads, "leads", "", "lead export path or URL (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file (- for stdout)")
	exportCmd.Flags().StringSliceVar(&exportClients, "client", nil, "filter by client (repeatable)")
	exportCmd.Flags().StringSliceVar(&exportAgents, "agent", nil, "filter by canonical agent name (repeatable)")
	exportCmd.Flags().StringSliceVar(&exportGroups, "group", nil, "filter by team group (repeatable)")
	exportCmd.Flags().StringSliceVar(&exportDispositions, "disposition", nil, "filter by disposition (repeatable)")
	exportCmd.Flags().StringVar(&exportCaseID, "case-id", "", "substring match on case identifier")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "partial match over agent and client")
	exportCmd.Flags().StringVar(&exportDateField, "date-field", "", "canonical date field for --from/--to")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "range start, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "range end, YYYY-MM-DD")
	_ = exportCmd.MarkFlagRequired("leads")
	rootCmd.AddCommand(exportCmd)
}
