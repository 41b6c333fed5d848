package jsconfig

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/cafetheme/pkg/util"
)

// Dialect selects the grammar used to parse a config script.
type Dialect int

const (
	DialectJavaScript Dialect = iota
	DialectTypeScript
	DialectUnknown
)

func (d Dialect) String() string {
	switch d {
	case DialectJavaScript:
		return "javascript"
	case DialectTypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

// DetectDialect picks the grammar from a config file name.
func DetectDialect(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".cjs", ".mjs":
		return DialectJavaScript
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	default:
		return DialectUnknown
	}
}

func languagePointer(d Dialect) (unsafe.Pointer, error) {
	switch d {
	case DialectJavaScript:
		return ts_javascript.Language(), nil
	case DialectTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", d)
	}
}

// parserPool hands out tree-sitter parsers for one dialect. Parsers are
// created lazily up to maxSize; past that, acquire blocks until one is
// released.
type parserPool struct {
	pool    chan *ts.Parser
	dialect Dialect
	langPtr unsafe.Pointer
	maxSize int

	mu      sync.Mutex
	created int
	logger  *slog.Logger
}

func newParserPool(d Dialect, maxSize int, logger *slog.Logger) (*parserPool, error) {
	ptr, err := languagePointer(d)
	if err != nil {
		return nil, err
	}
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		dialect: d,
		langPtr: ptr,
		maxSize: maxSize,
		logger:  logger,
	}, nil
}

func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.created >= p.maxSize {
		p.mu.Unlock()
		return <-p.pool, nil
	}
	parser := ts.NewParser()
	if parser == nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
		parser.Close()
		p.mu.Unlock()
		return nil, fmt.Errorf("failed to set language %s: %w", p.dialect, err)
	}
	p.created++
	p.mu.Unlock()

	p.logger.Debug("created config parser", "dialect", p.dialect.String(), "pool_size", p.created)
	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.pool <- parser:
	default:
		parser.Close()
	}
}

func (p *parserPool) close() {
	close(p.pool)
	for parser := range p.pool {
		parser.Close()
	}
}

// parserSet owns one lazily created pool per dialect.
type parserSet struct {
	mu     sync.Mutex
	pools  map[Dialect]*parserPool
	size   int
	logger *slog.Logger
}

func newParserSet(size int, logger *slog.Logger) *parserSet {
	return &parserSet{
		pools:  make(map[Dialect]*parserPool),
		size:   util.GetOptimalPoolSizeWithOverride(size),
		logger: logger,
	}
}

// parse returns a tree the caller must Close.
func (s *parserSet) parse(src []byte, d Dialect) (*ts.Tree, error) {
	s.mu.Lock()
	pool, ok := s.pools[d]
	if !ok {
		var err error
		pool, err = newParserPool(d, s.size, s.logger)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.pools[d] = pool
	}
	s.mu.Unlock()

	parser, err := pool.acquire()
	if err != nil {
		return nil, err
	}
	tree := parser.Parse(src, nil)
	pool.release(parser)
	if tree == nil {
		return nil, fmt.Errorf("parser returned no tree")
	}
	return tree, nil
}

func (s *parserSet) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for d, pool := range s.pools {
		pool.close()
		delete(s.pools, d)
	}
}
