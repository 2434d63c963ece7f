package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/TobiSchelling/hotelreport/internal/config"
	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/export"
	"github.com/TobiSchelling/hotelreport/internal/logger"
	"github.com/TobiSchelling/hotelreport/internal/output"
	"github.com/TobiSchelling/hotelreport/internal/pipeline"
	"github.com/TobiSchelling/hotelreport/internal/server"
	"github.com/TobiSchelling/hotelreport/internal/session"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	overrides  = config.NewOverrides()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "hotelreport",
	Short:   "Hotel review insights reports",
	Long:    "hotelreport renders hotel review analyses into a paged report and exports it as HTML, PDF, XLSX or JSON.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		for name, key := range commandFlags {
			if f := cmd.Flags().Lookup(name); f != nil {
				bindFlag(key, f)
			}
		}
		if err := config.ApplyOverrides(cfg, overrides); err != nil {
			return fmt.Errorf("applying overrides: %w", err)
		}

		if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
			return err
		}
		if verbose {
			logger.SetVerbose()
		}
		if path != "" {
			logger.Log.Debugf("Using config %s", path)
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&configPath, "config", "c", "", "Path to config file")
	flags.String("base-dir", "", "Directory holding data.json, dashboard.json and competitors.json")
	flags.String("base-url", "", "URL the document names are resolved against")
	flags.Float64("goal", 0, "Target score used for color coding")
	bindFlag("sources.base_dir", flags.Lookup("base-dir"))
	bindFlag("sources.base_url", flags.Lookup("base-url"))
	bindFlag("layout.goal", flags.Lookup("goal"))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(validateCmd)
}

// commandFlags maps flags that several subcommands define onto config keys.
// They are bound once the running command is known.
var commandFlags = map[string]string{
	"out":  "output.dir",
	"port": "server.port",
}

// bindFlag lets a flag override a config key. Unchanged flags are ignored.
func bindFlag(key string, flag *pflag.Flag) {
	if err := overrides.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding --%s: %v", flag.Name, err))
	}
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.New(cfg, export.NewChromeRasterizer(cfg.Export))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("hotelreport", version)
	},
}

// --- init command ---

var samplesDir string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/hotelreport/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
		} else {
			if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Printf("Created config: %s\n", target)
			fmt.Println("Edit it to point sources at your report documents.")
		}

		if samplesDir == "" {
			return nil
		}
		if err := os.MkdirAll(samplesDir, 0o755); err != nil {
			return fmt.Errorf("creating samples directory: %w", err)
		}
		for _, kind := range document.Kinds {
			raw, err := document.Sample(kind)
			if err != nil {
				return err
			}
			path := filepath.Join(samplesDir, document.SampleFiles[kind])
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				return fmt.Errorf("writing sample %s: %w", kind, err)
			}
			fmt.Printf("Wrote sample: %s\n", path)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&samplesDir, "samples", "", "Also write sample documents into this directory")
}

// --- render command ---

var (
	dryRun       bool
	batchPattern string
	formatList   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Load the documents, compose the report and write the exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		formats, err := export.ParseFormats(formatList)
		if err != nil {
			return err
		}
		pipe := newPipeline()
		outDir := cfg.Output.Dir

		if dryRun {
			output.Steps(os.Stdout, pipe.DryRun(outDir, formats))
			return nil
		}

		ctx, stop := signalContext()
		defer stop()

		if batchPattern != "" {
			results, err := pipe.RunBatch(ctx, batchPattern, outDir, formats)
			if err != nil {
				return err
			}
			for _, r := range results {
				output.Steps(os.Stdout, r)
			}
			output.BatchTotals(os.Stdout, results)
			for _, r := range results {
				if r.Err() != nil {
					return fmt.Errorf("batch finished with failures")
				}
			}
			return nil
		}

		r := pipe.Run(ctx, outDir, formats)
		output.Steps(os.Stdout, r)
		return r.Err()
	},
}

func init() {
	f := renderCmd.Flags()
	f.BoolVar(&dryRun, "dry-run", false, "Show what would be read and written")
	f.StringVar(&batchPattern, "batch", "", "Glob of report documents to render, e.g. 'reports/**/data.json'")
	f.StringVar(&formatList, "format", "html,json,xlsx,pdf", "Comma-separated export formats")
	f.StringP("out", "o", "", "Output directory")
}

// --- export command ---

var exportCmd = &cobra.Command{
	Use:       "export <format>",
	Short:     "Write a single export (json, xlsx, html or pdf) of the configured sources",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "xlsx", "html", "pdf"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		r := newPipeline().Run(ctx, cfg.Output.Dir, []export.Format{format})
		output.Steps(os.Stdout, r)
		return r.Err()
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output directory")
}

// --- serve command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local report viewer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		pipe := newPipeline()
		sess := session.New()
		srv, err := server.New(pipe, sess)
		if err != nil {
			return err
		}

		if b, err := pipe.Load(ctx); err != nil {
			logger.Log.Warnf("Initial load failed: %v", err)
			srv.SetLoadError(err)
		} else {
			sess.Replace(b)
		}

		fmt.Printf("Starting server at http://localhost:%d\n", cfg.Server.Port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(ctx, srv, cfg.Server.Port)
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to run server on")
}

// --- summary command ---

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a digest of the loaded report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		b, err := newPipeline().Load(ctx)
		if err != nil {
			return err
		}
		output.Summary(os.Stdout, b, cfg.Layout.Goal, cfg.Branding.DefaultHotelName)
		return nil
	},
}

// --- validate command ---

var validateKind string

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check documents against their schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			kind, err := kindFor(path)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(path)
			if err == nil {
				_, err = (*document.Bundle)(nil).With(kind, raw)
			}
			if err != nil {
				failed++
				fmt.Printf("✗ %s: %v\n", path, err)
				continue
			}
			fmt.Printf("✓ %s (%s)\n", path, kind)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d documents invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "", "Document kind: report, dashboard or competitors (default: from file name)")
}

// kindFor returns --kind when given, otherwise the kind whose conventional
// file name matches path, falling back to report.
func kindFor(path string) (document.Kind, error) {
	if validateKind != "" {
		return document.ParseKind(validateKind)
	}
	base := filepath.Base(path)
	for kind, name := range document.SampleFiles {
		if name == base {
			return kind, nil
		}
	}
	return document.KindReport, nil
}
