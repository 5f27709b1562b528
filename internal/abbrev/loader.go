package abbrev

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Loader loads each table source at most once and hands out the cached
// result afterwards. Failed loads are not cached.
type Loader struct {
	mu     sync.Mutex
	tables map[string]*Table
	load   func(path string) (*Table, error)
	logger *zap.Logger
}

// NewLoader creates a Loader that reads tables with LoadTable.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		tables: make(map[string]*Table),
		load:   LoadTable,
		logger: logger,
	}
}

// Load returns the table for path, reading it on first use.
func (l *Loader) Load(path string) (*Table, error) {
	key := cacheKey(path)

	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.tables[key]; ok {
		l.logger.Debug("abbreviation table cache hit", zap.String("path", key))
		return t, nil
	}

	t, err := l.load(path)
	if err != nil {
		return nil, err
	}
	l.tables[key] = t
	l.logger.Debug("abbreviation table loaded",
		zap.String("path", key),
		zap.Int("pairs", t.Len()),
		zap.Int("skipped", t.Skipped),
		zap.String("encoding", t.Encoding),
	)
	return t, nil
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
