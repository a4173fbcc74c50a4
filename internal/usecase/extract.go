package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/i2y/apidocgen/internal/domain"
)

// LeafPolicy decides whether a node with children may also be documented as an endpoint.
type LeafPolicy string

const (
	// LeafPolicyExclusive never treats a node with children as a leaf.
	LeafPolicyExclusive LeafPolicy = "exclusive"
	// LeafPolicyNonExclusive recurses into a node's children and, when the node also carries a
	// definition, documents the node itself as well.
	LeafPolicyNonExclusive LeafPolicy = "non-exclusive"
)

// DefaultMaxDepth bounds how deeply nested folders are followed.
const DefaultMaxDepth = 64

// ParseLeafPolicy parses a policy name. The empty string selects LeafPolicyExclusive.
func ParseLeafPolicy(s string) (LeafPolicy, error) {
	switch LeafPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", LeafPolicyExclusive:
		return LeafPolicyExclusive, nil
	case LeafPolicyNonExclusive:
		return LeafPolicyNonExclusive, nil
	default:
		return "", fmt.Errorf("unknown leaf policy %q (want %q or %q)", s, LeafPolicyExclusive, LeafPolicyNonExclusive)
	}
}

// ExtractOptions configures a tree extraction.
type ExtractOptions struct {
	BaseURL    string
	DocExt     string // file extension of generated pages, without dot
	DocsPrefix string // prefix of navigation references, e.g. "api"
	LeafPolicy LeafPolicy
	MaxDepth   int
	// Allowed restricts generation to these categories. Nil allows every category.
	Allowed map[domain.Category]bool
}

// ExtractStats accumulates the outcome of one or more extractions.
type ExtractStats struct {
	Generated     int
	Invalid       int
	Failed        int
	DepthExceeded int
	PerCategory   map[domain.Category]int
}

// Errors is the number of leaves or subtrees that could not be documented.
func (s ExtractStats) Errors() int {
	return s.Invalid + s.Failed + s.DepthExceeded
}

// Extractor walks a collection tree, renders and stores one page per endpoint, and records
// every stored page in a navigation builder. It is not safe for concurrent use.
type Extractor struct {
	renderer DocumentRenderer
	store    DocumentStore
	nav      *NavigationBuilder
	opts     ExtractOptions
	stats    ExtractStats
	logger   *slog.Logger
}

// NewExtractor creates a new Extractor. Zero-valued options fall back to their defaults.
func NewExtractor(
	renderer DocumentRenderer,
	store DocumentStore,
	nav *NavigationBuilder,
	opts ExtractOptions,
	logger *slog.Logger,
) *Extractor {
	if opts.DocExt == "" {
		opts.DocExt = "mdx"
	}
	if opts.LeafPolicy == "" {
		opts.LeafPolicy = LeafPolicyExclusive
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Extractor{
		renderer: renderer,
		store:    store,
		nav:      nav,
		opts:     opts,
		stats:    ExtractStats{PerCategory: make(map[domain.Category]int)},
		logger:   logger.With("usecase", "ExtractTree"),
	}
}

// Stats returns the counters accumulated so far.
func (e *Extractor) Stats() ExtractStats {
	out := e.stats
	out.PerCategory = make(map[domain.Category]int, len(e.stats.PerCategory))
	for k, v := range e.stats.PerCategory {
		out.PerCategory[k] = v
	}
	return out
}

// Extract walks node depth-first. folder is the raw folder path of node's parent.
// It returns every endpoint discovered below and including node, together with the number
// of pages generated for them. Endpoints that were invalid, filtered out or failed are
// returned with an empty Document.
func (e *Extractor) Extract(ctx context.Context, node *domain.Node, folder domain.FolderPath) ([]domain.Endpoint, int) {
	return e.extract(ctx, node, folder, 0)
}

func (e *Extractor) extract(ctx context.Context, node *domain.Node, folder domain.FolderPath, depth int) ([]domain.Endpoint, int) {
	if node == nil {
		return nil, 0
	}
	if depth > e.opts.MaxDepth {
		e.stats.DepthExceeded++
		e.logger.Warn("Skipping subtree nested too deeply",
			slog.String("folder", folder.String()),
			slog.String("name", node.Name),
			slog.Int("max_depth", e.opts.MaxDepth),
			slog.Any("error", ErrMaxDepthExceeded))
		return nil, 0
	}

	var endpoints []domain.Endpoint
	generated := 0

	if node.IsFolder() {
		sub := folder.Extend(node.Name)
		for _, child := range node.Children {
			eps, n := e.extract(ctx, child, sub, depth+1)
			endpoints = append(endpoints, eps...)
			generated += n
		}
		if e.opts.LeafPolicy == LeafPolicyExclusive {
			return endpoints, generated
		}
	}

	if node.Definition == nil {
		if !node.IsFolder() {
			e.logger.Debug("Skipping node without definition", slog.String("name", node.Name))
		}
		return endpoints, generated
	}

	ep, ok := e.emit(ctx, node, folder)
	endpoints = append(endpoints, ep)
	if ok {
		generated++
	}
	return endpoints, generated
}

// emit documents a single leaf. Failures are logged and counted, never propagated.
func (e *Extractor) emit(ctx context.Context, node *domain.Node, folder domain.FolderPath) (ep domain.Endpoint, ok bool) {
	def := *node.Definition
	ep = domain.Endpoint{
		Name:       node.Name,
		FolderPath: folder,
		Category:   domain.Classify(folder.String()),
		Definition: def,
		OutputPath: domain.ResolveOutputPath(def.Dialect, folder, node.Name),
	}
	rel := ep.OutputPath.Rel(e.opts.DocExt)
	log := e.logger.With(slog.String("endpoint", node.Name), slog.String("file", rel))

	if err := validate(def); err != nil {
		e.stats.Invalid++
		log.Warn("Skipping invalid endpoint", slog.Any("error", err))
		return ep, false
	}

	if e.opts.Allowed != nil && !e.opts.Allowed[ep.Category] {
		log.Debug("Skipping endpoint outside selected categories", slog.String("category", string(ep.Category)))
		return ep, false
	}

	defer func() {
		if r := recover(); r != nil {
			e.stats.Failed++
			log.Error("Recovered while generating document", slog.Any("panic", r))
			ep.Document = ""
			ok = false
		}
	}()

	doc, err := e.renderer.Render(node.Name, def, e.opts.BaseURL)
	if err != nil {
		e.stats.Failed++
		log.Error("Failed to render document", slog.Any("error", err))
		return ep, false
	}
	if err := e.store.Write(ctx, rel, doc); err != nil {
		e.stats.Failed++
		log.Error("Failed to write document", slog.Any("error", err))
		return ep, false
	}
	ep.Document = doc

	if e.nav != nil {
		ref := ep.OutputPath.Ref()
		if e.opts.DocsPrefix != "" {
			ref = strings.TrimRight(e.opts.DocsPrefix, "/") + "/" + ref
		}
		segments := []string(nil)
		if len(folder) > 1 {
			segments = folder[1:]
		}
		e.nav.Add(ep.OutputPath.Group, domain.GroupLabel(def.Dialect, folder, ep.OutputPath.Group), segments, node.Name, ref)
	}

	e.stats.Generated++
	e.stats.PerCategory[ep.Category]++
	log.Debug("Generated document")
	return ep, true
}

// validate rejects leaves that cannot be documented meaningfully.
func validate(def domain.Definition) error {
	if def.Dialect == domain.DialectDefinition && strings.TrimSpace(def.Path) == "" {
		return fmt.Errorf("%w: no path", ErrInvalidEndpoint)
	}
	return nil
}
