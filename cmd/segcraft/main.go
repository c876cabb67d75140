package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"segcraft/internal/catalog"
	"segcraft/internal/config"
	"segcraft/internal/deck"
	"segcraft/internal/export"
	"segcraft/internal/history"
	"segcraft/internal/llm"
	"segcraft/internal/logging"
	"segcraft/internal/schema"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// Styles for terminal summaries.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	segmentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	riskStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "segcraft",
	Short: "SegCraft - segment-aware ad copy generation",
	Long: `SegCraft turns a product description into structured advertising copy,
tailored per audience segment and per ad format.

Generation goes through an LLM provider when an API key is configured
(OPENAI_API_KEY or GEMINI_API_KEY); without one, canned sample bundles are
served so every flow stays demoable offline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; explicit environment still applies.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// generateCmd runs the full generation pipeline
var generateCmd = &cobra.Command{
	Use:   "generate [base text]",
	Short: "Generate ad copy variants per audience segment",
	Long: `Runs the full pipeline: prompt assembly, LLM call (or mock fixture),
schema validation with a single repair attempt, and a terminal summary.

Examples:
  segcraft generate --segments time_poor_pro,sleep_troubled --format yadirect_text "Melatonin gummies, 30 pcs"
  segcraft generate --input offer.txt --custom "Night-shift nurses" --format tg_post --csv out.csv`,
	RunE: runGenerate,
}

// validateCmd validates a saved bundle document
var validateCmd = &cobra.Command{
	Use:   "validate [bundle.json]",
	Short: "Validate a copy bundle document against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

// exportCmd re-exports a saved bundle document
var exportCmd = &cobra.Command{
	Use:   "export [bundle.json]",
	Short: "Export a validated bundle to CSV, JSON, or Markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

// catalogCmd lists the loaded segment and format definitions
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the segment and format catalogs",
}

var catalogSegmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "List available audience segments",
	RunE:  runCatalogSegments,
}

var catalogFormatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List available ad formats and their limits",
	RunE:  runCatalogFormats,
}

// deckCmd works with the pitch-deck configuration document
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Pitch-deck configuration commands",
}

var deckLintCmd = &cobra.Command{
	Use:   "lint [deck_config.json]",
	Short: "Lint a deck configuration document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDeckLint,
}

// historyCmd shows recent generation runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent generation runs",
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "segcraft.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	f := generateCmd.Flags()
	f.String("input", "", "Read base text from a file instead of arguments")
	f.String("context", "", "Extra product/context description")
	f.StringSlice("segments", nil, "Segment IDs from the catalog (comma-separated)")
	f.String("custom", "", "Free-text custom segment description")
	f.String("format", "", "Target ad format ID (required)")
	f.String("tone", schema.ToneNeutral, "Tone: friendly, neutral, formal, bold")
	f.String("language", "ru", "Output language")
	f.Int("variants", 2, "Variants per segment (1-3)")
	f.String("variability", "medium", "Variability level: low, medium, high")
	f.StringSlice("constraints", nil, "Hard constraints for the copy")
	f.Bool("mock", false, "Force mock mode even when an API key is configured")
	f.String("out", "", "Write the bundle JSON to this path")
	f.String("csv", "", "Write the CSV export to this path")
	f.String("markdown", "", "Write the Markdown matrix to this path")
	f.Bool("p0-only", false, "Only show serious risk types in the Markdown matrix")
	generateCmd.MarkFlagRequired("format")

	exportCmd.Flags().String("csv", "", "Write the CSV export to this path")
	exportCmd.Flags().String("out", "", "Write the bundle JSON to this path")
	exportCmd.Flags().String("markdown", "", "Write the Markdown matrix to this path")
	exportCmd.Flags().Bool("p0-only", false, "Only show serious risk types in the Markdown matrix")

	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")

	catalogCmd.AddCommand(catalogSegmentsCmd)
	catalogCmd.AddCommand(catalogFormatsCmd)
	deckCmd.AddCommand(deckLintCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(cfg.Paths.Segments, cfg.Paths.Formats)
}

// runGenerate drives the full pipeline and records the run outcome.
func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetLLMTimeout()+30*time.Second)
	defer cancel()

	baseText := strings.Join(args, " ")
	if inputPath, _ := cmd.Flags().GetString("input"); inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		baseText = string(data)
	}

	segmentIDs, _ := cmd.Flags().GetStringSlice("segments")
	custom, _ := cmd.Flags().GetString("custom")
	formatID, _ := cmd.Flags().GetString("format")
	tone, _ := cmd.Flags().GetString("tone")
	language, _ := cmd.Flags().GetString("language")
	variants, _ := cmd.Flags().GetInt("variants")
	variability, _ := cmd.Flags().GetString("variability")
	constraints, _ := cmd.Flags().GetStringSlice("constraints")
	forceMock, _ := cmd.Flags().GetBool("mock")

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	client, err := llm.NewClientFromConfig(cfg)
	if err != nil {
		return err
	}
	if client == nil {
		logger.Info("no API key configured, using mock fixtures")
	}

	pipeline := llm.NewPipeline(client, cat, cfg.Paths.Samples, logger)

	req := llm.Request{
		BaseText:           baseText,
		ProductContext:     mustString(cmd, "context"),
		SegmentIDs:         segmentIDs,
		CustomSegment:      custom,
		FormatID:           formatID,
		Tone:               tone,
		Language:           language,
		VariantsPerSegment: variants,
		Variability:        variability,
		Constraints:        constraints,
		ForceMock:          forceMock,
	}

	result, genErr := pipeline.Generate(ctx, req)
	recordRun(req, result, genErr)
	if genErr != nil {
		return genErr
	}

	printSummary(result)

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := writeExport(outPath, func() ([]byte, error) { return export.JSON(result.Bundle) }); err != nil {
			return err
		}
		fmt.Printf("Bundle written to %s\n", outPath)
	}
	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		if err := writeExport(csvPath, func() ([]byte, error) { return export.CSV(result.Bundle) }); err != nil {
			return err
		}
		fmt.Printf("CSV written to %s\n", csvPath)
	}
	if mdPath, _ := cmd.Flags().GetString("markdown"); mdPath != "" {
		p0Only, _ := cmd.Flags().GetBool("p0-only")
		if err := writeExport(mdPath, func() ([]byte, error) {
			return export.MarkdownMatrix(result.Bundle, p0Only), nil
		}); err != nil {
			return err
		}
		fmt.Printf("Markdown matrix written to %s\n", mdPath)
	}

	return nil
}

// recordRun logs the run into the history store when it is enabled. History
// failures never fail the generation itself.
func recordRun(req llm.Request, result *llm.Result, genErr error) {
	if !cfg.History.Enabled {
		return
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("failed to open history store", zap.Error(err))
		return
	}
	defer store.Close()

	mode := llm.ModeMock
	var durationMs int64
	requestID := req.ID
	if result != nil {
		mode = result.Mode
		durationMs = result.Duration.Milliseconds()
		requestID = result.RequestID
	}

	entry := history.Entry{
		RequestID:  requestID,
		Mode:       mode,
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		FormatID:   req.FormatID,
		Segments:   req.SegmentIDs,
		Variants:   req.VariantsPerSegment,
		Outcome:    llm.Classify(genErr),
		DurationMs: durationMs,
	}
	if err := store.Record(entry); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}

// printSummary renders the per-segment variant overview.
func printSummary(result *llm.Result) {
	b := result.Bundle

	header := fmt.Sprintf("SegCraft %s run %s", result.Mode, result.RequestID)
	fmt.Println(titleStyle.Render(header))
	if result.Repaired {
		fmt.Println(dimStyle.Render("(response repaired after a validation failure)"))
	}
	fmt.Println()

	for _, seg := range b.Segments {
		fmt.Println(segmentStyle.Render(fmt.Sprintf("%s (%s)", seg.SegmentName, seg.SegmentID)))
		for i, c := range seg.Copies {
			fmt.Printf("  %d. %s\n", i+1, c.Headline)
			fmt.Printf("     %s\n", c.Body)
			fmt.Printf("     CTA: %s  %s\n", c.CTA,
				dimStyle.Render(fmt.Sprintf("[%d/%d chars]", c.CharCount.Headline, c.CharCount.Body)))
			for _, f := range c.RiskFlags {
				fmt.Printf("     %s\n", riskStyle.Render(fmt.Sprintf("risk %s: %s", f.Type, f.Note)))
			}
		}
		fmt.Println()
	}

	for _, r := range b.GlobalRisks {
		fmt.Println(riskStyle.Render(fmt.Sprintf("global risk: %s (%s)", r.Risk, r.Impact)))
	}
	if b.ExecSummary.ForMarketer != "" {
		fmt.Printf("\n%s %s\n", dimStyle.Render("Summary:"), b.ExecSummary.ForMarketer)
	}
}

// runValidate checks a stored bundle document and prints every violation.
func runValidate(cmd *cobra.Command, args []string) error {
	bundle, err := readBundle(args[0])
	if err != nil {
		return err
	}

	schema.NormalizeCharCounts(bundle)
	violations := schema.Validate(bundle)
	if len(violations) == 0 {
		fmt.Printf("%s is valid (%d segments, %d variants)\n",
			args[0], len(bundle.Segments), bundle.VariantCount())
		return nil
	}

	fmt.Printf("%s has %d violation(s):\n", args[0], len(violations))
	for _, v := range violations {
		fmt.Printf("  - %s\n", v)
	}
	return fmt.Errorf("validation failed")
}

// runExport re-exports a stored bundle. The document must validate first;
// nothing partially valid is ever exported.
func runExport(cmd *cobra.Command, args []string) error {
	bundle, err := readBundle(args[0])
	if err != nil {
		return err
	}

	schema.NormalizeCharCounts(bundle)
	if vs := schema.Validate(bundle); len(vs) > 0 {
		return fmt.Errorf("refusing to export an invalid bundle: %s", vs[0])
	}

	wrote := false
	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		if err := writeExport(csvPath, func() ([]byte, error) { return export.CSV(bundle) }); err != nil {
			return err
		}
		fmt.Printf("CSV written to %s\n", csvPath)
		wrote = true
	}
	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := writeExport(outPath, func() ([]byte, error) { return export.JSON(bundle) }); err != nil {
			return err
		}
		fmt.Printf("JSON written to %s\n", outPath)
		wrote = true
	}
	if mdPath, _ := cmd.Flags().GetString("markdown"); mdPath != "" {
		p0Only, _ := cmd.Flags().GetBool("p0-only")
		if err := writeExport(mdPath, func() ([]byte, error) {
			return export.MarkdownMatrix(bundle, p0Only), nil
		}); err != nil {
			return err
		}
		fmt.Printf("Markdown matrix written to %s\n", mdPath)
		wrote = true
	}

	if !wrote {
		data, err := export.CSV(bundle)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	}
	return nil
}

func runCatalogSegments(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	for _, s := range cat.Segments() {
		fmt.Println(segmentStyle.Render(s.Label()))
		fmt.Printf("  who: %s\n", s.Who)
		fmt.Printf("  pains: %s\n", strings.Join(s.Pains, ", "))
		fmt.Printf("  tone: %s, cta: %s\n", s.ToneHint, s.CTAStyle)
	}
	return nil
}

func runCatalogFormats(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	for _, f := range cat.Formats() {
		fmt.Println(segmentStyle.Render(fmt.Sprintf("%s (%s)", f.Name, f.FormatID)))
		fmt.Printf("  headline_max: %d, body_max: %d\n", f.Limits.HeadlineMax, f.Limits.BodyMax)
		if f.Notes != "" {
			fmt.Printf("  notes: %s\n", f.Notes)
		}
	}
	return nil
}

func runDeckLint(cmd *cobra.Command, args []string) error {
	path := cfg.Paths.Deck
	if len(args) > 0 {
		path = args[0]
	}

	d, err := deck.Load(path)
	if err != nil {
		return err
	}

	problems := d.Lint()
	if len(problems) == 0 {
		fmt.Printf("%s is ready to render (%d slides)\n", path, len(d.Slides))
		return nil
	}

	fmt.Printf("%s has %d problem(s):\n", path, len(problems))
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
	return fmt.Errorf("deck lint failed")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-4s %-16s %-12s %4dms  %s",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Mode, e.Outcome, e.FormatID, e.DurationMs, e.RequestID)
		if e.Outcome != llm.OutcomeOK {
			line = riskStyle.Render(line)
		}
		fmt.Println(line)
	}
	return nil
}

func readBundle(path string) (*schema.CopyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	var bundle schema.CopyBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse bundle: %w", err)
	}
	return &bundle, nil
}

func writeExport(path string, render func() ([]byte, error)) error {
	data, err := render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
