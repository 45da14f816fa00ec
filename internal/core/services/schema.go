package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
	"github.com/custodia-labs/valuesref/internal/core/ports/driving"
	"github.com/custodia-labs/valuesref/internal/logger"
)

// Ensure SchemaService implements the interface.
var _ driving.SchemaService = (*SchemaService)(nil)

// SchemaService loads values schemas into Documents.
// Every call builds a fresh Document, so the service is safe for
// concurrent use as long as its driven ports are.
type SchemaService struct {
	fetchers map[domain.SourceKind]driven.SchemaFetcher
	decoder  driven.SchemaDecoder
	cache    driven.SchemaCache
	renderer *DocumentRenderer
	cacheTTL time.Duration
	maxNodes int
	now      func() time.Time
}

// NewSchemaService creates a new schema service.
// The cache parameter is optional (can be nil).
func NewSchemaService(
	decoder driven.SchemaDecoder,
	cache driven.SchemaCache,
	fetchers ...driven.SchemaFetcher,
) *SchemaService {
	s := &SchemaService{
		fetchers: make(map[domain.SourceKind]driven.SchemaFetcher, len(fetchers)),
		decoder:  decoder,
		cache:    cache,
		renderer: NewDocumentRenderer(),
		cacheTTL: domain.DefaultCacheTTL,
		maxNodes: domain.DefaultMaxNodes,
		now:      time.Now,
	}
	for _, f := range fetchers {
		s.fetchers[f.Source()] = f
	}
	return s
}

// SetCacheTTL sets how long cached schemas are served. Zero never expires.
func (s *SchemaService) SetCacheTTL(ttl time.Duration) {
	s.cacheTTL = ttl
}

// SetMaxNodes sets the ref expansion budget.
func (s *SchemaService) SetMaxNodes(n int) {
	s.maxNodes = n
}

// Load fetches, decodes, resolves, flattens and indexes the schema of ref.
func (s *SchemaService) Load(ctx context.Context, ref domain.PackageRef, opts domain.LoadOptions) (*domain.Document, error) {
	logger.Section("Schema Load")
	logger.Debug("Ref: %s (refresh=%v)", ref.Key(), opts.Refresh)

	if err := ref.Validate(); err != nil {
		return nil, err
	}
	fetcher, ok := s.fetchers[ref.Source]
	if !ok {
		return nil, fmt.Errorf("%w: no fetcher for source %q", domain.ErrUnsupportedType, ref.Source)
	}

	raw, err := s.fetch(ctx, fetcher, ref, opts.Refresh)
	if err != nil {
		return nil, err
	}

	value, err := s.decode(raw)
	if err != nil {
		return nil, err
	}

	externals, err := s.fetchExternals(ctx, fetcher, ref, value)
	if err != nil {
		return nil, err
	}

	done := logger.Timed("Resolve and flatten")
	root, err := Resolve(value, ResolveOptions{Externals: externals, MaxNodes: s.maxNodes})
	if err != nil {
		logger.Debug("Resolution failed: %v", err)
		return nil, err
	}
	lines, index, err := Flatten(root)
	if err != nil {
		return nil, err
	}
	done()
	logger.Debug("Document has %d lines, %d paths", len(lines), index.Len())

	title := root.Annotations().Title
	if title == "" {
		title = ref.DisplayName()
	}
	return &domain.Document{
		ID:    domain.DocumentID(ref, raw),
		Ref:   ref,
		Title: title,
		Root:  root,
		Lines: lines,
		Index: index,
	}, nil
}

// fetch returns the raw schema, serving the cache when allowed. Local
// files are never cached. An expired entry is still served when the
// fetch fails.
func (s *SchemaService) fetch(
	ctx context.Context, f driven.SchemaFetcher, ref domain.PackageRef, refresh bool,
) ([]byte, error) {
	key := ref.Key()
	useCache := s.cache != nil && ref.Source != domain.SourceFile

	var stale *domain.CachedSchema
	if useCache && !refresh {
		entry, err := s.cache.Get(ctx, key)
		switch {
		case err == nil && !entry.Expired(s.cacheTTL, s.now()):
			logger.Debug("Cache hit: %s", key)
			return entry.Data, nil
		case err == nil:
			logger.Debug("Cache entry expired: %s", key)
			stale = entry
		case !errors.Is(err, domain.ErrNotFound):
			logger.Warn("Cache read failed: %v", err)
		}
	}

	data, err := f.Fetch(ctx, ref)
	if err != nil {
		if stale != nil && ctx.Err() == nil {
			logger.Warn("Fetch failed, serving expired cache entry: %v", err)
			return stale.Data, nil
		}
		return nil, asFetchError(key, err)
	}
	logger.Debug("Fetched %d bytes", len(data))

	if useCache {
		if err := s.cache.Put(ctx, key, data); err != nil {
			logger.Warn("Cache write failed: %v", err)
		}
	}
	return data, nil
}

func (s *SchemaService) decode(raw []byte) (domain.Value, error) {
	value, err := s.decoder.Decode(raw)
	if err != nil {
		return domain.Value{}, fmt.Errorf("%w: %v", domain.ErrInvalidSchema, err)
	}
	if value.Kind != domain.ValueMap {
		return domain.Value{}, fmt.Errorf("%w: root is %s, not an object", domain.ErrInvalidSchema, value.Kind)
	}
	return value, nil
}

// fetchExternals loads the documents named by external $refs, one level
// deep. Refs the fetcher cannot address are skipped and surface later as
// dangling references.
func (s *SchemaService) fetchExternals(
	ctx context.Context, f driven.SchemaFetcher, ref domain.PackageRef, root domain.Value,
) (map[string]domain.Value, error) {
	uris := externalRefs(root)
	if len(uris) == 0 {
		return nil, nil
	}
	logger.Debug("Fetching %d external documents", len(uris))

	out := make(map[string]domain.Value, len(uris))
	for _, uri := range uris {
		data, err := f.FetchRef(ctx, ref, uri)
		if errors.Is(err, domain.ErrUnsupportedType) || errors.Is(err, domain.ErrInvalidInput) {
			logger.Warn("Skipping external ref %s: %v", uri, err)
			continue
		}
		if err != nil {
			return nil, asFetchError(uri, err)
		}
		value, err := s.decoder.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSchema, uri, err)
		}
		out[uri] = value
	}
	return out, nil
}

// externalRefs returns the distinct document parts of every $ref in v,
// sorted.
func externalRefs(v domain.Value) []string {
	seen := make(map[string]bool)
	var walk func(domain.Value)
	walk = func(v domain.Value) {
		switch v.Kind {
		case domain.ValueMap:
			for _, f := range v.Fields {
				if f.Key == "$ref" {
					if s, ok := f.Value.Str(); ok {
						if doc, _ := splitRef(s); doc != "" {
							seen[doc] = true
						}
					}
					continue
				}
				walk(f.Value)
			}
		case domain.ValueList:
			for _, it := range v.Items {
				walk(it)
			}
		}
	}
	walk(v)

	out := make([]string, 0, len(seen))
	for doc := range seen {
		out = append(out, doc)
	}
	sort.Strings(out)
	return out
}

func asFetchError(ref string, err error) error {
	var fe *domain.FetchError
	if errors.As(err, &fe) || errors.Is(err, domain.ErrFetch) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &domain.FetchError{Ref: ref, Err: err}
}

// Export loads ref and returns its serialized document.
func (s *SchemaService) Export(ctx context.Context, ref domain.PackageRef) (*domain.ExportFile, error) {
	doc, err := s.Load(ctx, ref, domain.LoadOptions{})
	if err != nil {
		return nil, err
	}
	file := s.renderer.Export(doc)
	return &file, nil
}

// Search loads ref and returns the paths matching query.
func (s *SchemaService) Search(
	ctx context.Context, ref domain.PackageRef, query string, limit int,
) ([]domain.PathMatch, error) {
	doc, err := s.Load(ctx, ref, domain.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return doc.Index.SearchMatches(query, limit), nil
}

// Lookup loads ref and describes the field at path.
func (s *SchemaService) Lookup(ctx context.Context, ref domain.PackageRef, path string) (*domain.FieldInfo, error) {
	doc, err := s.Load(ctx, ref, domain.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return Describe(doc, path)
}

// Describe summarizes the lines of one path in doc.
func Describe(doc *domain.Document, path string) (*domain.FieldInfo, error) {
	path = strings.TrimSpace(path)
	ordinal, ok := doc.Index.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLookupMiss, path)
	}
	info := &domain.FieldInfo{Path: path, Ordinal: ordinal}
	var desc []string
	seenKey := false
	for _, l := range doc.Lines[ordinal:] {
		if l.Path.Key() != path {
			break
		}
		switch l.Kind {
		case domain.LineComment:
			if !seenKey {
				desc = append(desc, l.Text)
			}
		case domain.LineKey:
			seenKey = true
			info.Required = l.IsRequired
		case domain.LineTypeBadge:
			if info.Type == "" {
				info.Type = l.Text
			}
		case domain.LineValue:
			if info.Value == "" {
				info.Value = l.Text
			}
		}
	}
	info.Description = strings.Join(desc, "\n")
	return info, nil
}
