//go:build e2e

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var scentnetBin string

const fixture = `{
  "nodes": [
    {"id": "P1", "label": "Rose Noir", "type": "perfume", "brand": "Maison A", "primaryAccord": "Floral", "seasons": ["SPRING"], "registerStatus": "HAVE"},
    {"id": "P2", "label": "Cedar Line", "type": "perfume", "brand": "Maison B", "primaryAccord": "Woody"},
    {"id": "P3", "label": "Lemon Tree", "type": "perfume", "brand": "Maison B", "primaryAccord": "Citrus"},
    {"id": "accord:Floral", "label": "Floral", "type": "accord"},
    {"id": "accord:Woody", "label": "Woody", "type": "accord"}
  ],
  "edges": [
    {"from": "P1", "to": "accord:Floral", "type": "HAS_ACCORD", "weight": 0.9},
    {"from": "P2", "to": "accord:Woody", "type": "HAS_ACCORD", "weight": 0.8},
    {"from": "P1", "to": "P2", "type": "SIMILAR_TO", "weight": 0.7},
    {"from": "P1", "to": "ghost", "type": "SIMILAR_TO", "weight": 0.9}
  ]
}`

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "scentnet-e2e-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}
	defer os.RemoveAll(tmp)

	scentnetBin = filepath.Join(tmp, "scentnet")
	build := exec.Command("go", "build", "-ldflags", "-X github.com/msalah0e/scentnet/cmd.version=9.9.0-test", "-o", scentnetBin, ".")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		panic("failed to build scentnet: " + err.Error())
	}

	os.Exit(m.Run())
}

// runScentnet executes the binary with an isolated HOME directory.
func runScentnet(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(scentnetBin, args...)
	home := t.TempDir()
	cmd.Dir = home
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"XDG_CACHE_HOME="+filepath.Join(home, ".cache"),
		"NO_COLOR=1",
	)

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode = 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run scentnet %v: %v", args, err)
		}
	}
	return outBuf.String(), errBuf.String(), exitCode
}

func fixtureFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.json")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- Core CLI ---

func TestE2E_Version(t *testing.T) {
	out, _, code := runScentnet(t, "--version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "9.9.0") {
		t.Errorf("expected version output to contain '9.9.0', got %q", out)
	}
}

func TestE2E_Help(t *testing.T) {
	out, _, code := runScentnet(t, "--help")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "Available Commands") {
		t.Errorf("expected help to contain 'Available Commands', got %q", out)
	}
}

// --- Network ---

func TestE2E_Network(t *testing.T) {
	out, _, code := runScentnet(t, "--file", fixtureFile(t), "network", "--any-accord", "--select", "P1")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out)
	}
	for _, want := range []string{"Rose Noir", "Cedar Line", "3 of 3 filtered perfumes shown", "selected P1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestE2E_NetworkJSON(t *testing.T) {
	out, _, code := runScentnet(t, "--file", fixtureFile(t), "net", "--brand", "Maison B", "--any-accord", "--json")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, `"status": "ready"`) || strings.Contains(out, `"P1"`) {
		t.Errorf("expected brand-filtered JSON view, got:\n%s", out)
	}
}

func TestE2E_NetworkEmpty(t *testing.T) {
	out, _, code := runScentnet(t, "--file", fixtureFile(t), "net", "--brand", "Nobody")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "similarity threshold") {
		t.Errorf("expected empty-state message, got:\n%s", out)
	}
}

func TestE2E_NetworkBadSelect(t *testing.T) {
	_, _, code := runScentnet(t, "--file", fixtureFile(t), "net", "--select", "accord:Floral")
	if code == 0 {
		t.Fatal("expected non-zero exit when selecting an accord")
	}
}

func TestE2E_NetworkBadFilter(t *testing.T) {
	_, _, code := runScentnet(t, "--file", fixtureFile(t), "net", "--min-similarity", "1.5")
	if code == 0 {
		t.Fatal("expected non-zero exit for an out-of-range threshold")
	}
}

func TestE2E_Show(t *testing.T) {
	out, _, code := runScentnet(t, "--file", fixtureFile(t), "network", "show", "P1")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "Rose Noir") || !strings.Contains(out, "Cedar Line") {
		t.Errorf("expected detail tree, got:\n%s", out)
	}
}

func TestE2E_ExportDOT(t *testing.T) {
	out, _, code := runScentnet(t, "--file", fixtureFile(t), "network", "export", "--format", "dot", "--any-accord", "--select", "P1")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(out, "graph scentnet {") || strings.Contains(out, `"P1" -- "P2"`) {
		t.Errorf("unexpected DOT output:\n%s", out)
	}
}

func TestE2E_ExportUnknownFormat(t *testing.T) {
	_, _, code := runScentnet(t, "--file", fixtureFile(t), "network", "export", "--format", "svg")
	if code == 0 {
		t.Fatal("expected non-zero exit for an unknown format")
	}
}

func TestE2E_Facets(t *testing.T) {
	out, _, code := runScentnet(t, "--file", fixtureFile(t), "facets", "seasons")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "SPRING") || !strings.Contains(out, "Spring") {
		t.Errorf("expected labelled seasons, got:\n%s", out)
	}
}

// --- Offline ---

func TestE2E_OfflineWithoutCache(t *testing.T) {
	_, _, code := runScentnet(t, "--offline", "network")
	if code == 0 {
		t.Fatal("expected non-zero exit with an empty cache")
	}
}

func TestE2E_CacheList(t *testing.T) {
	out, _, code := runScentnet(t, "cache", "list")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("expected empty cache, got %q", out)
	}
}

// --- Config ---

func TestE2E_ConfigShow(t *testing.T) {
	out, _, code := runScentnet(t, "config", "show")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "[provider]") {
		t.Errorf("expected TOML output, got %q", out)
	}
}

func TestE2E_Doctor(t *testing.T) {
	_, _, code := runScentnet(t, "--offline", "doctor")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
}

func TestE2E_Completion(t *testing.T) {
	out, _, code := runScentnet(t, "completion", "bash")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "scentnet") {
		t.Error("expected completion script")
	}
}
