package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"leadscope/internal/analytics"
	"leadscope/internal/classification"
	"leadscope/internal/config"
	"leadscope/internal/dataprocessing"
	"leadscope/internal/exporter"
	"leadscope/internal/infrastructure"
	"leadscope/internal/services"
	"leadscope/internal/validation"
	"leadscope/pkg/contracts/domain"
)

var (
	parseJSON bool

	trendJSON bool

	salespeopleJSON bool

	classifyOut       string
	classifyRecommend bool
	classifyJSON      bool
)

// newGenerator builds the model client used by classify.
var newGenerator = func(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (classification.Generator, error) {
	if cfg.APIKey == "" {
		return nil, classification.ErrMissingAPIKey
	}
	return classification.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, logger)
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Validate a CSV or xlsx file of sales meetings",
		Args:  cobra.ExactArgs(1),
		RunE:  runParseCmd,
	}
	cmd.Flags().BoolVar(&parseJSON, "json", false, "print the parse result as JSON")
	return cmd
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	res, err := parseFile(cmd.Context(), args[0], commandLogger(cmd))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if parseJSON {
		return printJSON(out, res)
	}

	printTitle(out, filepath.Base(args[0]))
	fmt.Fprintf(out, "rows: %d  valid: %d  invalid: %d\n", res.TotalRows, res.ValidRows, res.InvalidRows())
	if len(res.Errors) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		rows = append(rows, []string{strconv.Itoa(e.Row), e.Field, e.Value, e.Message})
	}
	fmt.Fprintln(out, renderTable([]string{"Fila", "Campo", "Valor", "Error"}, rows, nil))
	return nil
}

func newTrendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend FILE",
		Short: "Show monthly leads with a six month projection",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrendCmd,
	}
	cmd.Flags().BoolVar(&trendJSON, "json", false, "print the trend as JSON")
	return cmd
}

func runTrendCmd(cmd *cobra.Command, args []string) error {
	res, err := parseFile(cmd.Context(), args[0], commandLogger(cmd))
	if err != nil {
		return err
	}
	points := analytics.ProjectMonthlyTrend(asClassifications(res.Data))
	out := cmd.OutOrStdout()
	if trendJSON {
		return printJSON(out, points)
	}
	if len(points) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no dated meetings"))
		return nil
	}

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		kind := "histórico"
		if p.IsProjected {
			kind = "proyectado"
		}
		rows = append(rows, []string{p.MonthLabel, strconv.Itoa(p.Leads), kind})
	}
	printTitle(out, "Leads por mes")
	fmt.Fprintln(out, renderTable([]string{"Mes", "Leads", "Tipo"}, rows, func(row int) bool {
		return row >= 0 && row < len(points) && points[row].IsProjected
	}))
	return nil
}

func newSalespeopleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salespeople FILE",
		Short: "Show total and closed leads per salesperson",
		Args:  cobra.ExactArgs(1),
		RunE:  runSalespeopleCmd,
	}
	cmd.Flags().BoolVar(&salespeopleJSON, "json", false, "print the tallies as JSON")
	return cmd
}

func runSalespeopleCmd(cmd *cobra.Command, args []string) error {
	res, err := parseFile(cmd.Context(), args[0], commandLogger(cmd))
	if err != nil {
		return err
	}
	sales := analytics.SalesBySalesperson(asClassifications(res.Data))
	out := cmd.OutOrStdout()
	if salespeopleJSON {
		return printJSON(out, sales)
	}

	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []string{
			s.Salesperson,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Closed),
			fmt.Sprintf("%.1f%%", analytics.CloseRate(s.Closed, s.Total)),
		})
	}
	printTitle(out, "Ventas por vendedor")
	fmt.Fprintln(out, renderTable([]string{"Vendedor", "Total", "Cerrados", "Tasa"}, rows, nil))
	return nil
}

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify FILE",
		Short: "Classify the valid meetings of a file with Gemini",
		Long: "Classify the valid meetings of a file with Gemini. The API key is read " +
			"from GEMINI_API_KEY, LEADSCOPE_AI_GEMINI_API_KEY or the config file.",
		Args: cobra.ExactArgs(1),
		RunE: runClassifyCmd,
	}
	cmd.Flags().StringVarP(&classifyOut, "out", "o", "", "write the classifications to a .csv or .xlsx file")
	cmd.Flags().BoolVar(&classifyRecommend, "recommend", false, "also generate Start, Stop and Spice-Up recommendations")
	cmd.Flags().BoolVar(&classifyJSON, "json", false, "print the classification result as JSON")
	return cmd
}

func runClassifyCmd(cmd *cobra.Command, args []string) error {
	ctx := infrastructure.EnsureTraceID(cmd.Context())
	logger := commandLogger(cmd)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	generator, err := newGenerator(ctx, cfg.AI, logger)
	if err != nil {
		return err
	}

	res, err := parseFile(ctx, args[0], logger)
	if err != nil {
		return err
	}
	if res.ValidRows == 0 {
		return fmt.Errorf("%s has no valid rows", filepath.Base(args[0]))
	}

	classifier := classification.NewService(generator, classification.Config{
		ClassifyTemperature:     cfg.AI.ClassifyTemperature,
		RecommendTemperature:    cfg.AI.RecommendTemperature,
		MaxRecommendationSample: cfg.AI.MaxSample,
		Timeout:                 cfg.AI.RequestTimeout,
	}, logger)
	result, err := classifier.ClassifyClients(ctx, res.Data)
	if err != nil {
		return err
	}

	if classifyOut != "" {
		if err := writeExport(ctx, classifyOut, result.Classifications, logger); err != nil {
			return err
		}
	}

	var recs *domain.ThreeSRecommendations
	if classifyRecommend {
		if recs, err = classifier.GenerateThreeS(ctx, result.Classifications); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if classifyJSON {
		return printJSON(out, struct {
			Classification  *domain.ClassificationResult  `json:"classification"`
			Recommendations *domain.ThreeSRecommendations `json:"recommendations,omitempty"`
		}{result, recs})
	}

	rows := make([][]string, 0, len(result.Classifications))
	for _, c := range result.Classifications {
		rows = append(rows, []string{
			c.ClientName,
			string(c.Industry),
			string(c.LeadSource),
			string(c.Urgency),
			strconv.FormatFloat(c.Confidence, 'f', 2, 64),
		})
	}
	printTitle(out, fmt.Sprintf("%d clientes clasificados", len(result.Classifications)))
	fmt.Fprintln(out, renderTable([]string{"Cliente", "Industria", "Fuente", "Urgencia", "Confianza"}, rows, nil))
	if recs != nil {
		printRecommendations(out, recs)
	}
	return nil
}

func printRecommendations(w io.Writer, recs *domain.ThreeSRecommendations) {
	for _, group := range []struct {
		title string
		items []domain.Recommendation
	}{
		{"Start", recs.Start},
		{"Stop", recs.Stop},
		{"Spice Up", recs.SpiceUp},
	} {
		printTitle(w, group.title)
		for _, r := range group.items {
			fmt.Fprintf(w, "  • %s: %s\n", r.Title, r.Description)
		}
	}
}

// parseFile parses path as a workbook or as CSV depending on its extension.
func parseFile(ctx context.Context, path string, logger *slog.Logger) (*domain.CsvParseResult, error) {
	kind, err := validation.NewFileValidator(logger).ValidateInputFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	parser := dataprocessing.NewBatchParser(nil, logger)
	if kind == validation.KindWorkbook {
		return parser.ParseWorkbook(ctx, f)
	}
	return parser.Parse(ctx, f)
}

// writeExport renders items in the format named by the extension of path.
func writeExport(ctx context.Context, path string, items []domain.ClientClassification, logger *slog.Logger) error {
	kind, err := validation.NewFileValidator(logger).ValidateOutputFile(path)
	if err != nil {
		return err
	}
	format := exporter.FormatCSV
	if kind == validation.KindWorkbook {
		format = exporter.FormatXLSX
	}
	file, err := services.NewExportService(nil, nil, logger).Render(ctx, format, items)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// asClassifications carries the meeting fields the analytics read. The
// categorical dimensions stay empty.
func asClassifications(meetings []domain.ClientMeeting) []domain.ClientClassification {
	out := make([]domain.ClientClassification, 0, len(meetings))
	for _, m := range meetings {
		closed := m.Cerrado
		out = append(out, domain.ClientClassification{
			ClientName:          m.Nombre,
			Email:               m.Correo,
			Phone:               m.Telefono,
			MeetingDate:         m.FechaReunion,
			AssignedSalesperson: m.VendedorAsignado,
			IsClosed:            &closed,
		})
	}
	return out
}
