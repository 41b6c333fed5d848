package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAgents replaces PATH lookup and stat for the duration of the test.
// Only binaries in onPath are found; stat only sees files under dir.
func stubAgents(t *testing.T, dir string, onPath ...string) {
	t.Helper()
	origLookPath, origStat, origRun := lookPathFunc, statFunc, runAgentCLI
	t.Cleanup(func() {
		lookPathFunc, statFunc, runAgentCLI = origLookPath, origStat, origRun
	})

	lookPathFunc = func(name string) (string, error) {
		for _, b := range onPath {
			if b == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	statFunc = func(name string) (os.FileInfo, error) {
		if dir != "" && strings.HasPrefix(name, dir) {
			return os.Stat(name)
		}
		return nil, os.ErrNotExist
	}
}

func decodeServers(t *testing.T, data []byte, key string) map[string]any {
	t.Helper()
	var config map[string]any
	require.NoError(t, json.Unmarshal(data, &config))
	servers, ok := config[key].(map[string]any)
	require.True(t, ok, "missing %q", key)
	return servers
}

// --- JSON merge ---

func TestMergeServerEntry_EmptyFile(t *testing.T) {
	out, err := mergeServerEntry(nil, "mcpServers", serverEntry(agentDef{}, "/proj"))
	require.NoError(t, err)

	entry := decodeServers(t, out, "mcpServers")["cafetheme"].(map[string]any)
	assert.Equal(t, "cafetheme", entry["command"])
	assert.Equal(t, []any{"serve"}, entry["args"])
}

func TestMergeServerEntry_KeepsOtherServers(t *testing.T) {
	existing := []byte(`{"mcpServers": {"other": {"command": "other"}}, "theme": "dark"}`)
	out, err := mergeServerEntry(existing, "mcpServers", serverEntry(agentDef{}, "/proj"))
	require.NoError(t, err)

	servers := decodeServers(t, out, "mcpServers")
	assert.Contains(t, servers, "other")
	assert.Contains(t, servers, "cafetheme")
	assert.Contains(t, string(out), `"theme": "dark"`)
}

func TestMergeServerEntry_AlreadyConfigured(t *testing.T) {
	existing := []byte(`{"mcpServers": {"cafetheme": {"command": "cafetheme"}}}`)
	out, err := mergeServerEntry(existing, "mcpServers", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestMergeServerEntry_InvalidJSON(t *testing.T) {
	_, err := mergeServerEntry([]byte("{"), "mcpServers", nil)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestServerEntry_GlobalPinsRoot(t *testing.T) {
	entry := serverEntry(agentDef{global: true, extraFields: map[string]string{"type": "stdio"}}, "/proj")
	assert.Equal(t, []any{"serve", "--root", "/proj"}, entry["args"])
	assert.Equal(t, "stdio", entry["type"])
}

// --- detection ---

func TestDetectAgents_CLIAgent(t *testing.T) {
	stubAgents(t, "", "claude")
	detected := detectAgents(t.TempDir())
	require.Len(t, detected, 1)
	assert.Equal(t, "claude_code", detected[0].def.id)
	assert.False(t, detected[0].alreadySetup)
}

func TestDetectAgents_NoneDetected(t *testing.T) {
	stubAgents(t, "")
	assert.Empty(t, detectAgents(t.TempDir()))
}

func TestDetectAgents_FileAgentAlreadySetup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cursor"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cursor", "mcp.json"),
		[]byte(`{"mcpServers": {"cafetheme": {}}}`), 0644))
	stubAgents(t, dir)

	detected := detectAgents(dir)
	require.Len(t, detected, 1)
	assert.Equal(t, "cursor", detected[0].def.id)
	assert.Equal(t, filepath.Join(dir, ".cursor", "mcp.json"), detected[0].configPath)
	assert.True(t, detected[0].alreadySetup)
}

// --- orchestration ---

func TestExecuteSetup_NoAgents(t *testing.T) {
	stubAgents(t, "")
	w := &bytes.Buffer{}
	executeSetup(strings.NewReader(""), w, t.TempDir(), false)
	assert.Contains(t, w.String(), "No supported coding agents detected.")
}

func TestExecuteSetup_AutoFileAgent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".vscode"), 0755))
	stubAgents(t, dir)

	w := &bytes.Buffer{}
	executeSetup(strings.NewReader(""), w, dir, true)

	data, err := os.ReadFile(filepath.Join(dir, ".vscode", "mcp.json"))
	require.NoError(t, err)
	entry := decodeServers(t, data, "servers")["cafetheme"].(map[string]any)
	assert.Equal(t, "stdio", entry["type"])
	assert.Contains(t, w.String(), "VS Code configured")
}

func TestExecuteSetup_PromptDeclined(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".vscode"), 0755))
	stubAgents(t, dir)

	w := &bytes.Buffer{}
	executeSetup(strings.NewReader("n\n"), w, dir, false)
	assert.NoFileExists(t, filepath.Join(dir, ".vscode", "mcp.json"))
}

func TestExecuteSetup_CLIAgentScope(t *testing.T) {
	stubAgents(t, "", "codex")
	var gotArgs []string
	runAgentCLI = func(binary string, args []string, _ io.Writer) error {
		gotArgs = append([]string{binary}, args...)
		return nil
	}

	w := &bytes.Buffer{}
	executeSetup(strings.NewReader("y\n2\n"), w, t.TempDir(), false)
	assert.Equal(t, []string{"codex", "mcp", "add", "--scope", "user", "cafetheme", "--", "cafetheme", "serve"}, gotArgs)
	assert.Contains(t, w.String(), "OpenAI Codex configured (scope: user)")
}
