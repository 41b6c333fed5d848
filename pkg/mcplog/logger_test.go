package mcplog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	entries, err := ReadEntries(f)
	require.NoError(t, err)
	return entries
}

func TestSanitizeParams(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		wantKeys []string
		wantSkip []string
	}{
		{name: "nil map returns empty", input: nil},
		{name: "short string passes through", input: map[string]any{"category": "color"}, wantKeys: []string{"category"}},
		{
			name:     "long string replaced with _len key",
			input:    map[string]any{"class": strings.Repeat("x", 200)},
			wantKeys: []string{"class_len"},
			wantSkip: []string{"class"},
		},
		{
			name:     "non-strings pass through",
			input:    map[string]any{"limit": 3, "extra": nil},
			wantKeys: []string{"limit", "extra"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := SanitizeParams(tt.input)
			assert.NotNil(t, out)
			for _, k := range tt.wantKeys {
				assert.Contains(t, out, k)
			}
			for _, k := range tt.wantSkip {
				assert.NotContains(t, out, k)
			}
		})
	}
}

func TestResponseBytes(t *testing.T) {
	assert.Zero(t, ResponseBytes(nil))
	assert.Greater(t, ResponseBytes(mcp.NewToolResultText("ok")), 2)
}

func TestLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	entries := []LogEntry{
		{Ts: "2026-01-02T03:04:05Z", Tool: "list_tokens", Params: map[string]any{"category": "color"}, DurationMs: 2, ResponseBytes: 300},
		{Ts: "2026-01-02T03:04:06Z", Tool: "get_token", Params: map[string]any{"name": "cafe-pink"}, DurationMs: 1, ToolError: true},
	}
	for _, e := range entries {
		require.NoError(t, logger.Write(e))
	}
	require.NoError(t, logger.Close())

	got := readLog(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "list_tokens", got[0].Tool)
	assert.Equal(t, int64(2), got[0].DurationMs)
	assert.True(t, got[1].ToolError)
	assert.Nil(t, got[1].Error)
}

func TestLoggerConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	const goroutines, writesEach = 50, 10
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(LogEntry{Ts: time.Now().UTC().Format(time.RFC3339), Tool: "resolve_class"})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readLog(t, path), goroutines*writesEach)
}

func TestMiddleware_RecordsCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mw.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	Now = func() time.Time { return fixed }
	defer func() { Now = time.Now }()

	handler := Middleware(logger)(func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if req.GetString("class", "") == "" {
			return mcp.NewToolResultError("class is required"), nil
		}
		return nil, errors.New("boom")
	})

	req := mcp.CallToolRequest{}
	req.Params.Name = "resolve_class"
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	req.Params.Arguments = map[string]any{"class": "bg-cafe-bg"}
	_, err = handler(context.Background(), req)
	assert.EqualError(t, err, "boom")
	require.NoError(t, logger.Close())

	got := readLog(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-03-01T12:00:00Z", got[0].Ts)
	assert.Equal(t, "resolve_class", got[0].Tool)
	assert.True(t, got[0].ToolError)
	assert.Positive(t, got[0].ResponseBytes)
	assert.Equal(t, "bg-cafe-bg", got[1].Params["class"])
	require.NotNil(t, got[1].Error)
	assert.Equal(t, "boom", *got[1].Error)
}

func TestReadEntries_BadLine(t *testing.T) {
	_, err := ReadEntries(strings.NewReader("{\"tool\":\"a\"}\nnot json\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestNewLogger_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "mcp.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()
	assert.FileExists(t, path)
}

func TestNewLogger_EmptyPath(t *testing.T) {
	logger, err := NewLogger("")
	assert.NoError(t, err)
	assert.Nil(t, logger)
}
