package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cobuy/pkg/core/hierarchy"
	"github.com/matzehuels/cobuy/pkg/errors"
)

const sampleDoc = `{
	"nodes": [
		{"id": "A", "title": "Espresso machine"},
		{"id": "B", "title": "Milk frother"},
		{"id": "C", "title": "Descaler"},
		{"id": "D", "title": "Coffee beans", "缩略图": "https://img.example/d.jpg"}
	],
	"links": [
		{"source": "A", "target": "B"},
		{"source": "B", "target": "C"},
		{"source": "C", "target": "A"},
		{"source": "A", "target": "D"}
	]
}`

// testEnv isolates config and cache directories and writes the sample
// document, returning its path.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	path := testEnv(t)
	out, err := runCLI(t, "analyze", path, "--json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var report struct {
		Stats struct {
			NodeCount  int `json:"node_count"`
			LinkCount  int `json:"link_count"`
			MaxDegree  int `json:"max_degree"`
			Components int `json:"components"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if report.Stats.NodeCount != 4 || report.Stats.LinkCount != 4 || report.Stats.MaxDegree != 3 || report.Stats.Components != 1 {
		t.Errorf("stats = %+v", report.Stats)
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	path := testEnv(t)
	if _, err := runCLI(t, "analyze", path); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "analyze", path, "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"metrics_hit": true`) {
		t.Errorf("second run should hit the file cache:\n%s", out)
	}

	out, err = runCLI(t, "--no-cache", "analyze", path, "--json")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, `"metrics_hit": true`) {
		t.Errorf("--no-cache run reported a hit:\n%s", out)
	}
}

func TestAnalyzeText(t *testing.T) {
	path := testEnv(t)
	out, err := runCLI(t, "analyze", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"products.json", "Products", "Mean eccentricity", "1.8"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNodeJSON(t *testing.T) {
	path := testEnv(t)
	out, err := runCLI(t, "node", path, "A", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var d struct {
		Degree       int      `json:"degree"`
		Eccentricity int      `json:"eccentricity"`
		Rank         int      `json:"rank"`
		Related      []string `json:"related"`
	}
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatal(err)
	}
	if d.Degree != 3 || d.Eccentricity != 1 || d.Rank != 1 || strings.Join(d.Related, ",") != "B,D,C" {
		t.Errorf("detail = %+v", d)
	}
}

func TestTree(t *testing.T) {
	path := testEnv(t)

	tests := []struct {
		name     string
		args     []string
		wantSize int
	}{
		{"DefaultDepth", nil, 4},
		{"DepthTwo", []string{"--depth", "2"}, 3},
		{"DepthOne", []string{"-d", "1"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"tree", path, "A", "--json"}, tt.args...)
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatal(err)
			}
			var tree hierarchy.Node
			if err := json.Unmarshal([]byte(out), &tree); err != nil {
				t.Fatal(err)
			}
			if tree.Size() != tt.wantSize {
				t.Errorf("size = %d, want %d", tree.Size(), tt.wantSize)
			}
		})
	}
}

func TestTreeText(t *testing.T) {
	path := testEnv(t)
	out, err := runCLI(t, "tree", path, "A")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"├── ", "└── ", "Descaler", "4 nodes, height 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestOutputFile(t *testing.T) {
	path := testEnv(t)
	dir := t.TempDir()

	treeFile := filepath.Join(dir, "tree.json")
	out, err := runCLI(t, "tree", path, "A", "-o", treeFile)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("stdout should be empty with --output, got %q", out)
	}
	data, err := os.ReadFile(treeFile)
	if err != nil {
		t.Fatal(err)
	}
	var tree hierarchy.Node
	if err := json.Unmarshal(data, &tree); err != nil {
		t.Fatal(err)
	}
	if tree.Size() != 4 {
		t.Errorf("size = %d, want 4", tree.Size())
	}

	reportFile := filepath.Join(dir, "report.json")
	if _, err := runCLI(t, "analyze", path, "--output", reportFile); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(reportFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"node_count": 4`) {
		t.Errorf("report = %s", data)
	}
}

func TestTreeDepthFromConfig(t *testing.T) {
	path := testEnv(t)
	cfgPath := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("[analysis]\nmax_depth = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "tree", path, "A", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var tree hierarchy.Node
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatal(err)
	}
	if tree.Size() != 3 {
		t.Errorf("size = %d, want 3 with max_depth = 2", tree.Size())
	}
}

func TestRelatedAndSearch(t *testing.T) {
	path := testEnv(t)

	out, err := runCLI(t, "related", path, "C", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var related []string
	if err := json.Unmarshal([]byte(out), &related); err != nil {
		t.Fatal(err)
	}
	if strings.Join(related, ",") != "A,B" {
		t.Errorf("related(C) = %v, want [A B]", related)
	}

	out, err = runCLI(t, "search", path, "COFFEE")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "D") || !strings.Contains(out, "Coffee beans") {
		t.Errorf("search output = %q", out)
	}

	out, err = runCLI(t, "search", path, "nothing-like-this")
	if err != nil {
		t.Fatalf("no match should not fail: %v", err)
	}
	if !strings.Contains(out, "No product matches") {
		t.Errorf("no-match output = %q", out)
	}

	out, err = runCLI(t, "search", path, "e", "--all", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var all []map[string]string
	if err := json.Unmarshal([]byte(out), &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("search --all e = %d matches, want 4", len(all))
	}
}

func TestTop(t *testing.T) {
	path := testEnv(t)

	out, err := runCLI(t, "top", path, "-n", "2", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var ranked []struct {
		Node struct {
			ID string `json:"id"`
		} `json:"node"`
		Rank int `json:"rank"`
	}
	if err := json.Unmarshal([]byte(out), &ranked); err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 || ranked[0].Node.ID != "A" || ranked[0].Rank != 1 {
		t.Errorf("top by degree = %+v", ranked)
	}

	out, err = runCLI(t, "top", path, "--by", "pagerank")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "PageRank") {
		t.Errorf("pagerank table missing header:\n%s", out)
	}
}

func TestCommandErrors(t *testing.T) {
	path := testEnv(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"nodes": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"UnknownNode", []string{"node", path, "Z"}, errors.ErrCodeNodeNotFound},
		{"DepthZero", []string{"tree", path, "A", "--depth", "0"}, errors.ErrCodeInvalidInput},
		{"DepthTooLarge", []string{"tree", path, "A", "--depth", "13"}, errors.ErrCodeInvalidInput},
		{"BadRanking", []string{"top", path, "--by", "magic"}, errors.ErrCodeInvalidInput},
		{"InvalidDocument", []string{"analyze", bad}, errors.ErrCodeInvalidGraph},
		{"MissingFile", []string{"analyze", filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	testEnv(t)
	want := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName, "config.toml")

	out, err := runCLI(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", out, want)
	}

	if _, err := runCLI(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config init did not write %s: %v", want, err)
	}
	if _, err := runCLI(t, "config", "init"); err == nil {
		t.Error("second config init should refuse to overwrite")
	}
	if _, err := runCLI(t, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	out, err = runCLI(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"[analysis]", "max_depth = 3", `backend = "file"`, `session_ttl = "2h0m0s"`} {
		if !strings.Contains(out, s) {
			t.Errorf("config show missing %q:\n%s", s, out)
		}
	}
}

func TestInvalidConfigFails(t *testing.T) {
	path := testEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, "--config", cfgPath, "analyze", path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestCompletion(t *testing.T) {
	testEnv(t)
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cobuy") {
		t.Error("bash completion does not mention cobuy")
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
