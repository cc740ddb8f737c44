package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/parser"
)

// globalCache stores parse results keyed by a hash of the source name and
// text. Parsed trees are never mutated after construction, so programs
// compiled from the same source share one.
var globalCache sync.Map

// parsed is the cached outcome of parsing one source.
type parsed struct {
	once  sync.Once
	file  *ast.File
	diags diag.List
}

func sourceKey(name, src string) string {
	h := xxh3.New()
	_, _ = h.WriteString(name)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(src)

	return strconv.FormatUint(h.Sum64(), 36)
}

// parseCached parses src once per distinct (name, src) pair.
func parseCached(ctx context.Context, cfg config, name, src string) (*ast.File, diag.List, error) {
	if !cfg.cache {
		f, diags := parser.Parse(name, src)

		return f, diags, nil
	}

	key := sourceKey(name, src)
	v, hit := globalCache.LoadOrStore(key, new(parsed))

	entry, ok := v.(*parsed)
	if !ok {
		return nil, nil, ErrCache.With(slog.String("key", key))
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source", name),
		slog.String("key", key),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.file, entry.diags = parser.Parse(name, src)
	})

	return entry.file, entry.diags, nil
}

// ClearCache removes every cached parse result.
func ClearCache() {
	globalCache.Clear()
}
