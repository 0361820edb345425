package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gosuda.org/zisk-timing/analyzer"
	"gosuda.org/zisk-timing/analyzer/chart"
	"gosuda.org/zisk-timing/analyzer/report"
	"gosuda.org/zisk-timing/utils"
)

type rootFlags struct {
	config   string
	logLevel string

	export   string
	policy   string
	sidecars []string
	top      int
	format   string
	chart    string
	noColor  bool
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cmd := newRootCmd()
	cmd.SetArgs(normalizeExportArgs(os.Args[1:]))
	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute root command")
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "zisk-timing [input_file] [--export [output_file]]",
		Short: "Per-operation cycle counting analysis for ZisK execution output",
		Long: `Analyzes ZisK emulator output (TIMING_START/TIMING_END markers, cost and
process_rom() summaries, opcode and memory counters) and prints a
per-operation cost report. Reads from stdin when no input file is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(f.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, f)
		},
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&f.config, "config", os.Getenv("ZISK_TIMING_CONFIG"), "YAML config file (env: ZISK_TIMING_CONFIG)")
	pflags.StringVar(&f.logLevel, "log-level", envOrDefault("ZISK_TIMING_LOG_LEVEL", "info"), "log level: debug, info, warn, error (env: ZISK_TIMING_LOG_LEVEL)")
	pflags.StringVar(&f.policy, "policy", "", "attribution policy: measured, equal, weighted (overrides config)")
	pflags.StringSliceVar(&f.sidecars, "sidecar", utils.ParseList(os.Getenv("ZISK_TIMING_SIDECAR")), "sidecar measurement file to try before the configured paths (env: ZISK_TIMING_SIDECAR)")
	pflags.IntVar(&f.top, "top", 0, "number of opcodes to list (0 = config or 10)")

	flags := cmd.Flags()
	flags.StringVar(&f.export, "export", "", "write a JSON export; a bare --export uses export_path from the config, else "+analyzer.DefaultExportPath)
	flags.Lookup("export").NoOptDefVal = exportAuto
	flags.StringVar(&f.format, "format", "text", "report format: text or markdown")
	flags.StringVar(&f.chart, "chart", "", "write a bar chart of the breakdown (.png, .svg or .pdf)")
	flags.BoolVar(&f.noColor, "no-color", false, "disable colored headings")

	cmd.AddCommand(newServeCmd(f))
	return cmd
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// loadSettings resolves the config file and command-line overrides.
func loadSettings(f *rootFlags) (*Config, error) {
	cfg := DefaultConfig()
	if f.config != "" {
		loaded, err := LoadConfig(f.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if f.policy != "" {
		cfg.Policy = f.policy
	}
	if len(f.sidecars) > 0 {
		cfg.SidecarPaths = append(append([]string(nil), f.sidecars...), cfg.SidecarPaths...)
	}
	if f.top > 0 {
		cfg.TopOpcodes = f.top
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newAnalyzer(cfg *Config) (*analyzer.Analyzer, error) {
	policy, err := analyzer.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	return analyzer.New(
		analyzer.WithPolicy(policy),
		analyzer.WithSidecarPaths(cfg.SidecarPaths...),
		analyzer.WithWeights(cfg.WeightTable()),
	), nil
}

func runAnalyze(cmd *cobra.Command, args []string, f *rootFlags) error {
	cfg, err := loadSettings(f)
	if err != nil {
		return err
	}

	exportPath := resolveExportPath(cmd.Flags().Changed("export"), f.export, cfg.ExportPath)

	var input io.Reader
	if len(args) == 0 || args[0] == "-" {
		log.Info().Msg("[input] reading from stdin (end with Ctrl+D)")
		input = cmd.InOrStdin()
	} else {
		file, err := os.Open(args[0])
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file '%s' not found", args[0])
			}
			return fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		log.Info().Str("file", args[0]).Msg("[input] analyzing file")
		input = file
	}

	a, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}
	res, err := a.AnalyzeReader(input)
	if err != nil {
		return err
	}
	if res.SidecarPath != "" {
		log.Info().Str("path", res.SidecarPath).Msg("[attribution] using sidecar measurements")
	}

	out := cmd.OutOrStdout()
	opts := report.Options{
		TopOpcodes: cfg.TopOpcodes,
		Color:      !f.noColor && !color.NoColor && out == os.Stdout,
	}
	switch strings.ToLower(f.format) {
	case "", "text":
		err = report.Text(out, res, opts)
	case "markdown", "md":
		err = report.Markdown(out, reportName(args), res, opts)
	default:
		return fmt.Errorf("unknown report format %q (want text or markdown)", f.format)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if exportPath != "" {
		if err := analyzer.ExportFile(exportPath, res); err != nil {
			return err
		}
		log.Info().Str("path", exportPath).Msg("[export] results exported")
	}

	if f.chart != "" {
		if err := chart.SaveBreakdown(f.chart, res); err != nil {
			if errors.Is(err, analyzer.ErrNoOperations) {
				log.Warn().Msg("[chart] no operations to plot; skipped")
				return nil
			}
			return err
		}
		log.Info().Str("path", f.chart).Msg("[chart] breakdown written")
	}
	return nil
}

// exportAuto is the value of a bare --export. An explicit
// --export=auto behaves the same; use ./auto for a file of that name.
const exportAuto = "auto"

// normalizeExportArgs joins "--export <path>" into "--export=<path>" so the
// word after --export is never taken as the input file. A bare --export
// (last, or followed by another flag) is left for NoOptDefVal.
func normalizeExportArgs(argv []string) []string {
	out := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			return append(out, argv[i:]...)
		}
		if arg == "--export" && i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
			out = append(out, "--export="+argv[i+1])
			i++
			continue
		}
		out = append(out, arg)
	}
	return out
}

func resolveExportPath(changed bool, flagValue, configured string) string {
	switch {
	case !changed:
		return ""
	case flagValue != exportAuto:
		return flagValue
	case configured != "":
		return configured
	default:
		return analyzer.DefaultExportPath
	}
}

func reportName(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "stdin"
	}
	return args[0]
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
