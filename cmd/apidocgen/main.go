package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/i2y/apidocgen/configs"
	"github.com/i2y/apidocgen/internal/adapter/outbound/collection"
	"github.com/i2y/apidocgen/internal/adapter/outbound/fsstore"
	"github.com/i2y/apidocgen/internal/adapter/outbound/memrepo"
	"github.com/i2y/apidocgen/internal/adapter/outbound/mintlify"
	"github.com/i2y/apidocgen/internal/domain"
	"github.com/i2y/apidocgen/internal/telemetry"
	"github.com/i2y/apidocgen/internal/usecase"
)

var version = "dev"

func main() {
	// Optional .env next to the working directory.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cliOptions holds the values of the command line flags.
type cliOptions struct {
	input          string
	output         string
	manifest       string
	baseURL        string
	docsPrefix     string
	categories     string
	leafPolicy     string
	verbose        bool
	listCategories bool
	dryRun         bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if opts.listCategories {
		printCategories(stdout)
		return 0
	}

	// === Logging ===
	logLevel := cfg.ParsedLogLevel()
	if opts.verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Debug("Logger initialized.", slog.String("level", logLevel.String()))

	categories, err := parseCategories(opts.categories)
	if err != nil {
		logger.Error("Invalid category selection", slog.Any("error", err))
		return 1
	}
	leafPolicy, err := usecase.ParseLeafPolicy(opts.leafPolicy)
	if err != nil {
		logger.Error("Invalid leaf policy", slog.Any("error", err))
		return 1
	}

	// === OpenTelemetry Initialization ===
	shutdownOtel, err := telemetry.Init(ctx, telemetry.Options{
		Endpoint:       cfg.OtelExporterOtlpEndpoint,
		Insecure:       cfg.OtelExporterOtlpInsecure,
		ServiceName:    "apidocgen",
		ServiceVersion: version,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry.", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	// === Dependency Injection ===
	loader := collection.NewLoader(logger)
	renderer := mintlify.NewRenderer(logger)

	var (
		store       usecase.DocumentStore
		manifest    usecase.ManifestStore
		summary     usecase.SummaryWriter
		dryRunStore *memrepo.InMemoryDocumentStore
	)
	if opts.dryRun {
		dryRunStore = memrepo.NewInMemoryDocumentStore(logger)
		store, summary = dryRunStore, dryRunStore
		logger.Info("Dry run: nothing will be written")
	} else {
		fs := fsstore.NewDocumentStore(opts.output, logger)
		store, summary = fs, fs
		if opts.manifest != "" {
			manifest = fsstore.NewManifestStore(opts.manifest, logger)
		}
	}

	generateUC := usecase.NewGenerateDocsUseCase(loader, renderer, store, manifest, summary, logger)

	// === Run ===
	logger.Info("Generating documentation",
		slog.String("input", opts.input),
		slog.String("output", opts.output),
		slog.String("base_url", opts.baseURL))

	result, err := generateUC.Execute(ctx, usecase.GenerateOptions{
		InputPath:  opts.input,
		BaseURL:    opts.baseURL,
		DocExt:     "mdx",
		DocsPrefix: opts.docsPrefix,
		Categories: categories,
		LeafPolicy: leafPolicy,
		MaxDepth:   cfg.MaxDepth,
	})
	if err != nil {
		logger.Error("Documentation generation failed", slog.Any("error", err))
		return 1
	}

	if dryRunStore != nil {
		printDryRun(stdout, opts.output, dryRunStore, result)
	}
	return 0
}

func parseFlags(args []string, cfg *configs.Config, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("apidocgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	stringFlag := func(p *string, short, long, value, usage string) {
		fs.StringVar(p, long, value, usage)
		if short != "" {
			fs.StringVar(p, short, value, usage+" (shorthand)")
		}
	}
	stringFlag(&opts.input, "i", "input", cfg.Input, "Input API collection JSON file")
	stringFlag(&opts.output, "o", "output", cfg.Output, "Output directory for generated docs")
	stringFlag(&opts.manifest, "m", "manifest", cfg.Manifest, "Path to mint.json whose navigation is updated")
	stringFlag(&opts.baseURL, "b", "base-url", cfg.BaseURL, "Base URL used in request examples")
	stringFlag(&opts.categories, "", "categories", strings.Join(cfg.Categories, ","), "Comma-separated categories to generate (default all)")
	stringFlag(&opts.leafPolicy, "", "leaf-policy", cfg.LeafPolicy, "Whether folders carrying a request are documented: exclusive or non-exclusive")
	stringFlag(&opts.docsPrefix, "", "docs-prefix", cfg.DocsPrefix, "Prefix of page references in the navigation")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.verbose, "v", false, "Enable debug logging (shorthand)")
	fs.BoolVar(&opts.listCategories, "list-categories", false, "List available categories and exit")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Render everything but write nothing")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return opts, err
	}
	return opts, nil
}

func parseCategories(s string) ([]domain.Category, error) {
	var out []domain.Category
	seen := make(map[domain.Category]bool)
	for _, part := range strings.Split(s, ",") {
		key := strings.ToLower(strings.TrimSpace(part))
		if key == "" {
			continue
		}
		info, ok := domain.LookupCategory(key)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", key)
		}
		if !seen[info.Key] {
			seen[info.Key] = true
			out = append(out, info.Key)
		}
	}
	return out, nil
}

func printCategories(w io.Writer) {
	fmt.Fprintln(w, "Available categories:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range domain.Categories() {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Key, c.Description)
	}
	_ = tw.Flush()
}

func printDryRun(w io.Writer, output string, store *memrepo.InMemoryDocumentStore, result *usecase.GenerateResult) {
	paths := store.List()
	fmt.Fprintf(w, "Would write %d documents:\n", len(paths))
	for _, p := range paths {
		fmt.Fprintf(w, "  %s\n", filepath.Join(output, filepath.FromSlash(p)))
	}
	if result == nil || len(result.Navigation) == 0 {
		return
	}
	nav, err := json.MarshalIndent(result.Navigation, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintf(w, "Navigation:\n%s\n", nav)
}
