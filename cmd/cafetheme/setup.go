package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
)

const serverKey = "cafetheme"

// agentDef describes how to register the MCP server with one coding agent.
type agentDef struct {
	id          string
	displayName string
	binary      string            // CLI agents: registered via `<binary> mcp add`
	dirMarkers  []string          // file agents: project dirs that indicate presence
	configPath  func() string     // file agents: JSON config location
	serversKey  string            // "servers" (VS Code) or "mcpServers"
	global      bool              // config is per user, so the entry pins --root
	extraFields map[string]string // e.g. "type": "stdio" for VS Code
}

type detectedAgent struct {
	def          agentDef
	configPath   string
	alreadySetup bool
}

// Replaceable for testing.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	runAgentCLI  = func(binary string, args []string, w io.Writer) error {
		cmd := exec.Command(binary, args...)
		cmd.Stdout = w
		cmd.Stderr = w
		return cmd.Run()
	}
)

var agentRegistry = []agentDef{
	{id: "claude_code", displayName: "Claude Code", binary: "claude"},
	{id: "openai_codex", displayName: "OpenAI Codex", binary: "codex"},
	{
		id: "vscode", displayName: "VS Code",
		dirMarkers:  []string{".vscode"},
		configPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		serversKey:  "servers",
		extraFields: map[string]string{"type": "stdio"},
	},
	{
		id: "cursor", displayName: "Cursor",
		dirMarkers: []string{".cursor"},
		configPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		serversKey: "mcpServers",
	},
	{
		id: "claude_desktop", displayName: "Claude Desktop",
		configPath: claudeDesktopConfigPath,
		serversKey: "mcpServers",
		global:     true,
	},
}

func claudeDesktopConfigPath() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// detectAgents finds agents on PATH or with config directories present.
// Relative config paths resolve against dir.
func detectAgents(dir string) []detectedAgent {
	var detected []detectedAgent
	for _, def := range agentRegistry {
		if def.binary != "" {
			if _, err := lookPathFunc(def.binary); err == nil {
				path := filepath.Join(dir, ".mcp.json")
				detected = append(detected, detectedAgent{def: def, alreadySetup: hasServerEntry(path, "mcpServers")})
			}
			continue
		}

		found := false
		for _, marker := range def.dirMarkers {
			if _, err := statFunc(filepath.Join(dir, marker)); err == nil {
				found = true
				break
			}
		}
		path := resolve(dir, def.configPath())
		if !found && len(def.dirMarkers) == 0 {
			_, err := statFunc(filepath.Dir(path))
			found = err == nil
		}
		if found {
			detected = append(detected, detectedAgent{
				def:          def,
				configPath:   path,
				alreadySetup: hasServerEntry(path, def.serversKey),
			})
		}
	}
	return detected
}

// hasServerEntry reports whether the JSON file at path already registers
// the server under serversKey.
func hasServerEntry(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, _ := config[serversKey].(map[string]any)
	_, ok := servers[serverKey]
	return ok
}

func serverEntry(def agentDef, root string) map[string]any {
	args := []any{"serve"}
	if def.global {
		args = append(args, "--root", root)
	}
	entry := map[string]any{"command": "cafetheme", "args": args}
	for k, v := range def.extraFields {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds entry under serversKey in the existing JSON (which
// may be empty). It returns nil, nil when the server is already present.
func mergeServerEntry(existing []byte, serversKey string, entry map[string]any) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverKey]; exists {
		return nil, nil
	}
	servers[serverKey] = entry
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func configureFileAgent(d detectedAgent, root string) error {
	if err := os.MkdirAll(filepath.Dir(d.configPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	existing, err := os.ReadFile(d.configPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	merged, err := mergeServerEntry(existing, d.def.serversKey, serverEntry(d.def, root))
	if err != nil || merged == nil {
		return err
	}
	return renameio.WriteFile(d.configPath, merged, 0644)
}

func configureCLIAgent(d detectedAgent, scope string, w io.Writer) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, serverKey, "--", "cafetheme", "serve")
	return runAgentCLI(d.def.binary, args, w)
}

// promptYesNo reads Y/n; empty input and EOF mean yes.
func promptYesNo(in *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	if !in.Scan() {
		return true
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// promptScope returns "project", "user" or "" to skip.
func promptScope(in *bufio.Scanner, w io.Writer, agentName string) string {
	fmt.Fprintf(w, "\n%s: add the cafetheme MCP server?\n", agentName)
	fmt.Fprintln(w, "  [1] Project scope (shared with team)")
	fmt.Fprintln(w, "  [2] User scope (personal, global)")
	fmt.Fprintln(w, "  [3] Skip")
	fmt.Fprint(w, "  > ")
	if !in.Scan() {
		return "project"
	}
	switch strings.TrimSpace(in.Text()) {
	case "1", "":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

// executeSetup registers the server with every detected agent.
func executeSetup(r io.Reader, w io.Writer, root string, auto bool) {
	detected := detectAgents(root)
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported coding agents detected.")
		return
	}

	fmt.Fprintln(w, "Detected coding agents:")
	for _, d := range detected {
		suffix := ""
		if d.alreadySetup {
			suffix = " (already configured)"
		}
		fmt.Fprintf(w, "  * %s%s\n", d.def.displayName, suffix)
	}
	fmt.Fprintln(w)

	in := bufio.NewScanner(r)
	if !auto && !promptYesNo(in, w, "Configure agents? [Y/n]") {
		return
	}

	for _, d := range detected {
		if d.alreadySetup {
			fmt.Fprintf(w, "\n%s: already configured, skipping\n", d.def.displayName)
			continue
		}
		if d.def.binary != "" {
			scope := "project"
			if !auto {
				if scope = promptScope(in, w, d.def.displayName); scope == "" {
					fmt.Fprintln(w, "  skipped")
					continue
				}
			}
			if err := configureCLIAgent(d, scope, w); err != nil {
				fmt.Fprintf(w, "  ! %s: failed: %v\n", d.def.displayName, err)
				continue
			}
			fmt.Fprintf(w, "  + %s configured (scope: %s)\n", d.def.displayName, scope)
			continue
		}

		if !auto && !promptYesNo(in, w, fmt.Sprintf("\n%s: add to %s? [Y/n]", d.def.displayName, d.configPath)) {
			fmt.Fprintln(w, "  skipped")
			continue
		}
		if err := configureFileAgent(d, root); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.def.displayName, err)
			continue
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.def.displayName, d.configPath)
	}
}

func newSetupCmd(opts *globalOptions) *cobra.Command {
	var auto bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with installed coding agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(opts.root)
			if err != nil {
				return err
			}
			executeSetup(cmd.InOrStdin(), cmd.OutOrStdout(), root, auto)
			return nil
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "Configure every detected agent without prompting")
	return cmd
}
