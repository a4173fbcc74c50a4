package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/i2y/apidocgen/internal/domain"
)

const instrumentationName = "github.com/i2y/apidocgen/internal/usecase"

// GenerateOptions configures one generation run.
type GenerateOptions struct {
	InputPath  string
	BaseURL    string
	DocExt     string
	DocsPrefix string
	// Categories is the allow-list of categories to generate. Empty means all.
	Categories []domain.Category
	LeafPolicy LeafPolicy
	MaxDepth   int
}

// GenerateResult is the outcome of a run.
type GenerateResult struct {
	Summary   domain.RunSummary
	Endpoints []domain.Endpoint
	// Navigation holds the generated navigation groups, whether or not a manifest was updated.
	Navigation      []domain.NavGroup
	ManifestUpdated bool
	ManifestErrors  int
}

// GenerateDocsUseCase orchestrates loading a collection, generating one page per endpoint,
// merging the navigation into the site manifest and writing the run summary.
type GenerateDocsUseCase struct {
	loader   CollectionLoader
	renderer DocumentRenderer
	store    DocumentStore
	manifest ManifestStore // optional
	summary  SummaryWriter // optional
	logger   *slog.Logger
	base     *slog.Logger // unscoped, handed to per-run collaborators

	tracer    trace.Tracer
	generated metric.Int64Counter
	failed    metric.Int64Counter
}

// NewGenerateDocsUseCase creates a new GenerateDocsUseCase.
// manifest and summary may be nil, in which case those steps are skipped.
func NewGenerateDocsUseCase(
	loader CollectionLoader,
	renderer DocumentRenderer,
	store DocumentStore,
	manifest ManifestStore,
	summary SummaryWriter,
	logger *slog.Logger,
) *GenerateDocsUseCase {
	log := logger.With("usecase", "GenerateDocs")
	meter := otel.Meter(instrumentationName)

	generated, err := meter.Int64Counter("apidocgen.documents.generated",
		metric.WithDescription("Number of generated endpoint documents"))
	if err != nil {
		log.Warn("Failed to create metric counter", slog.Any("error", err))
		generated = noop.Int64Counter{}
	}
	failed, err := meter.Int64Counter("apidocgen.documents.errors",
		metric.WithDescription("Number of endpoints that could not be documented"))
	if err != nil {
		log.Warn("Failed to create metric counter", slog.Any("error", err))
		failed = noop.Int64Counter{}
	}

	return &GenerateDocsUseCase{
		loader:    loader,
		renderer:  renderer,
		store:     store,
		manifest:  manifest,
		summary:   summary,
		logger:    log,
		base:      logger,
		tracer:    otel.Tracer(instrumentationName),
		generated: generated,
		failed:    failed,
	}
}

// Execute runs the whole pipeline. Only a failure to load the input is returned as an error;
// per-endpoint and manifest problems are logged and counted in the result.
// When the input contains no endpoints the result has a zero Summary and nothing is written.
func (uc *GenerateDocsUseCase) Execute(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	ctx, span := uc.tracer.Start(ctx, "GenerateDocs", trace.WithAttributes(
		attribute.String("apidocgen.input", opts.InputPath),
		attribute.String("apidocgen.leaf_policy", string(opts.LeafPolicy)),
	))
	defer span.End()

	log := uc.logger.With(slog.String("input", opts.InputPath))
	log.Info("Loading collection")

	collection, err := uc.loader.Load(ctx, opts.InputPath)
	if err != nil {
		log.Error("Failed to load collection", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, fmt.Errorf("failed to load collection from %s: %w", opts.InputPath, err)
	}

	nav := NewNavigationBuilder()
	extractor := NewExtractor(uc.renderer, uc.store, nav, ExtractOptions{
		BaseURL:    opts.BaseURL,
		DocExt:     opts.DocExt,
		DocsPrefix: opts.DocsPrefix,
		LeafPolicy: opts.LeafPolicy,
		MaxDepth:   opts.MaxDepth,
		Allowed:    allowSet(opts.Categories),
	}, uc.base)

	result := &GenerateResult{}
	for _, node := range collection.Items {
		eps := uc.extractCollection(ctx, extractor, node)
		result.Endpoints = append(result.Endpoints, eps...)
	}

	log.Info("Extracted endpoints", slog.Int("count", len(result.Endpoints)))
	if len(result.Endpoints) == 0 {
		log.Warn("No APIs found in the input file")
		return result, nil
	}

	stats := extractor.Stats()
	uc.generated.Add(ctx, int64(stats.Generated))
	uc.failed.Add(ctx, int64(stats.Errors()))
	span.SetAttributes(
		attribute.Int("apidocgen.endpoints", len(result.Endpoints)),
		attribute.Int("apidocgen.generated", stats.Generated),
		attribute.Int("apidocgen.errors", stats.Errors()),
	)

	result.Navigation = nav.Groups()
	if uc.manifest != nil {
		updated, err := uc.updateManifest(ctx, result.Navigation)
		switch {
		case errors.Is(err, ErrManifestNotFound):
			log.Warn("Manifest not found, skipping navigation update", slog.Any("error", err))
		case err != nil:
			result.ManifestErrors++
			log.Error("Failed to update manifest navigation", slog.Any("error", err))
		default:
			result.ManifestUpdated = updated
		}
	}

	result.Summary = buildSummary(len(result.Endpoints), stats, opts.Categories)
	uc.logSummary(log, result.Summary)

	if uc.summary != nil {
		if err := uc.summary.WriteSummary(ctx, result.Summary); err != nil {
			log.Warn("Failed to save summary", slog.Any("error", err))
		}
	}
	return result, nil
}

// extractCollection runs one extractor pass over a top-level node inside its own span.
func (uc *GenerateDocsUseCase) extractCollection(ctx context.Context, extractor *Extractor, node *domain.Node) []domain.Endpoint {
	name := ""
	if node != nil {
		name = node.Name
	}
	ctx, span := uc.tracer.Start(ctx, "ExtractCollection", trace.WithAttributes(attribute.String("apidocgen.collection", name)))
	defer span.End()

	eps, generated := extractor.Extract(ctx, node, nil)
	span.SetAttributes(attribute.Int("apidocgen.endpoints", len(eps)), attribute.Int("apidocgen.generated", generated))
	uc.logger.Debug("Extracted collection",
		slog.String("collection", name),
		slog.Int("endpoints", len(eps)),
		slog.Int("generated", generated))
	return eps
}

func (uc *GenerateDocsUseCase) updateManifest(ctx context.Context, groups []domain.NavGroup) (bool, error) {
	ctx, span := uc.tracer.Start(ctx, "UpdateManifest")
	defer span.End()

	if len(groups) == 0 {
		uc.logger.Info("No navigation groups generated, leaving manifest untouched")
		return false, nil
	}

	existing, err := uc.manifest.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrManifestNotFound) {
			span.RecordError(err)
		}
		return false, err
	}
	merged, err := MergeNavigation(existing, groups)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if err := uc.manifest.Save(ctx, merged); err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to save manifest: %w", err)
	}
	uc.logger.Info("Updated manifest navigation", slog.Int("groups", len(groups)), slog.Int("entries", len(merged)))
	return true, nil
}

func (uc *GenerateDocsUseCase) logSummary(log *slog.Logger, s domain.RunSummary) {
	log.Info("Documentation generation completed")
	for _, c := range domain.AllCategories() {
		if n := s.Categories[string(c)]; n > 0 {
			log.Info("Generated category documents", slog.String("category", string(c)), slog.Int("docs", n))
		}
	}
	log.Info("Total documents generated", slog.Int("total", s.GeneratedDocs), slog.Int("apis", s.TotalAPIs))
	if s.Errors > 0 {
		log.Warn("Errors occurred during generation",
			slog.Int("errors", s.Errors),
			slog.Int("invalid", s.Invalid),
			slog.Int("failed", s.Failed))
	}
}

func allowSet(categories []domain.Category) map[domain.Category]bool {
	if len(categories) == 0 {
		return nil
	}
	set := make(map[domain.Category]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return set
}

func buildSummary(total int, stats ExtractStats, allowed []domain.Category) domain.RunSummary {
	if len(allowed) == 0 {
		allowed = domain.AllCategories()
	}
	categories := make(map[string]int, len(allowed))
	for _, c := range allowed {
		categories[string(c)] = stats.PerCategory[c]
	}
	return domain.RunSummary{
		GeneratedAt:   time.Now().UTC().Truncate(time.Second),
		TotalAPIs:     total,
		GeneratedDocs: stats.Generated,
		Categories:    categories,
		Errors:        stats.Errors(),
		Invalid:       stats.Invalid,
		Failed:        stats.Failed + stats.DepthExceeded,
	}
}
