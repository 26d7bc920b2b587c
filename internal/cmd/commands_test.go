package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"treemaker/internal/demo"
)

func TestConfigSetShowUnset(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "treemaker", "config.yaml")

	if _, _, err := runCLI(t, "", "--config", cfgPath, "config", "set", "base_dir", "/srv/proj", "-o", "text"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, _, err := runCLI(t, "", "--config", cfgPath, "config", "set", "exec_globs", "*.sh, bin/*"); err != nil {
		t.Fatalf("config set globs: %v", err)
	}

	out, _, err := runCLI(t, "", "--config", cfgPath, "config", "show", "-o", "json")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var shown struct {
		BaseDir   string   `json:"base_dir"`
		ExecGlobs []string `json:"exec_globs"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("parse: %v\n%s", err, out)
	}
	if shown.BaseDir != "/srv/proj" || len(shown.ExecGlobs) != 2 || shown.ExecGlobs[1] != "bin/*" {
		t.Fatalf("unexpected config: %+v", shown)
	}

	if _, _, err := runCLI(t, "", "--config", cfgPath, "config", "unset", "base_dir"); err != nil {
		t.Fatalf("config unset: %v", err)
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.Contains(string(data), "base_dir") {
		t.Fatalf("base_dir should be removed:\n%s", data)
	}
}

func TestConfigShowAppliesEnvButSetDoesNotSaveIt(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	env := map[string]string{"TREEMAKER_THEME": "dark"}

	out, _, err := runCLIEnv(t, env, "", "--config", cfgPath, "config", "show", "-o", "json")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, `"theme": "dark"`) {
		t.Fatalf("env theme not applied:\n%s", out)
	}

	if _, _, err := runCLIEnv(t, env, "", "--config", cfgPath, "config", "set", "db_0600", "true"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.Contains(string(data), "theme") || !strings.Contains(string(data), "db_0600: true") {
		t.Fatalf("unexpected saved config:\n%s", data)
	}
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	tests := [][]string{
		{"output_format", "xml"},
		{"theme", "solarized"},
		{"dir_perm", "rwx"},
		{"db_0600", "maybe"},
		{"no_such_key", "1"},
	}
	for _, tt := range tests {
		if _, _, err := runCLI(t, "", "--config", cfgPath, "config", "set", tt[0], tt[1]); err == nil {
			t.Fatalf("expected error for %s=%s", tt[0], tt[1])
		}
	}
	if _, err := os.Stat(cfgPath); !os.IsNotExist(err) {
		t.Fatalf("rejected values must not create the config file")
	}
}

func TestConfigKeysAndPath(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	out, _, err := runCLI(t, "", "--config", cfgPath, "config", "keys", "-o", "text")
	if err != nil {
		t.Fatalf("config keys: %v", err)
	}
	if !strings.Contains(out, "base_dir\n") || !strings.Contains(out, "open_after_build\n") {
		t.Fatalf("unexpected keys:\n%s", out)
	}

	out, _, err = runCLI(t, "", "--config", cfgPath, "config", "path", "-o", "text")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != cfgPath {
		t.Fatalf("expected %s, got %q", cfgPath, out)
	}
}

func TestDemoFeedsBuild(t *testing.T) {
	out, _, err := runCLI(t, "", "demo")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.HasPrefix(out, "# базовый каталог: "+demo.Base) {
		t.Fatalf("unexpected demo header:\n%s", out)
	}

	base := t.TempDir()
	built, _, err := runCLI(t, out, "build", "-b", base, "-o", "json")
	if err != nil {
		t.Fatalf("build demo: %v", err)
	}
	var r reportJSON
	if err := json.Unmarshal([]byte(built), &r); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Dirs != 12 || r.Files != 17 {
		t.Fatalf("expected 12 dirs and 17 files, got %d and %d", r.Dirs, r.Files)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "proj")
	if _, _, err := runCLI(t, exampleDiagram, "build", "-b", src, "-o", "json"); err != nil {
		t.Fatalf("build: %v", err)
	}

	snap, _, err := runCLI(t, "", "snapshot", src)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.HasPrefix(snap, "proj/\n") {
		t.Fatalf("unexpected snapshot:\n%s", snap)
	}

	copyBase := t.TempDir()
	if _, _, err := runCLI(t, snap, "build", "--indent", "-b", copyBase, "-o", "json"); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	again, _, err := runCLI(t, "", "snapshot", filepath.Join(copyBase, "proj"))
	if err != nil {
		t.Fatalf("snapshot copy: %v", err)
	}
	if again != snap {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", snap, again)
	}
}

func TestSnapshotStructuredOutput(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runCLI(t, "", "snapshot", dir, "-o", "json")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	var v struct {
		Root    string `json:"root"`
		Diagram string `json:"diagram"`
	}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("parse: %v\n%s", err, out)
	}
	if v.Root != dir || !strings.HasPrefix(v.Diagram, filepath.Base(dir)+"/") {
		t.Fatalf("unexpected snapshot: %+v", v)
	}
}

func TestWatchBuildsOnStart(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "struct.txt")
	if err := os.WriteFile(in, []byte(exampleDiagram), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	base := filepath.Join(dir, "out")

	prev := watchSignals
	defer func() { watchSignals = prev }()
	watchSignals = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithTimeout(ctx, 300*time.Millisecond)
	}

	if _, _, err := runCLI(t, "", "watch", "-i", in, "-b", base, "-o", "json"); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "src", "lib", "util.rs")); err != nil {
		t.Fatalf("expected initial build: %v", err)
	}
}

func TestWatchRequiresFile(t *testing.T) {
	if _, _, err := runCLI(t, "", "watch"); err == nil {
		t.Fatalf("expected error without --in")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, "", "version", "-o", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v["version"] != version {
		t.Fatalf("unexpected version %v", v)
	}
}

func TestInvalidGlobalFlags(t *testing.T) {
	tests := [][]string{
		{"demo", "-o", "xml"},
		{"demo", "--theme", "neon"},
		{"demo", "--error-format", "html"},
	}
	for _, args := range tests {
		if _, _, err := runCLI(t, "", args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}
