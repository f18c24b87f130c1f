package doctor

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/decktools/decktools/internal/manifest"
	"github.com/decktools/decktools/internal/remote"
)

const testManifest = `- title: CryoUtilities
  description: Tune swap
  repo: https://example.com/cryo
  needs_root: true
- title: Rwfus
  description: Writable /usr
  repo: https://example.com/rwfus
  needs_root: false
`

func newRemote(t *testing.T, routes map[string]string) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return remote.NewClient(srv.URL)
}

func TestRunToHealthy(t *testing.T) {
	client := newRemote(t, map[string]string{
		"/tools.yaml":                       testManifest,
		"/install_scripts/needs_root.sh":    "sudo -v\n",
		"/install_scripts/cryoutilities.sh": "echo cryo\n",
		"/install_scripts/rwfus.sh":         "echo rwfus\n",
	})

	var buf bytes.Buffer
	err := RunTo(context.Background(), &buf, Options{
		ConfigPath: "/tmp/decktools/config.toml",
		Terminal:   "env --",
		Remote:     client,
	})
	if err != nil {
		t.Fatalf("RunTo() error = %v\n%s", err, buf.String())
	}

	out := buf.String()
	for _, want := range []string{
		"[OK] Config: /tmp/decktools/config.toml",
		"[OK] Terminal: env --",
		"[OK] 2 tool(s) listed",
		"[OK] Root preamble: install_scripts/needs_root.sh",
		"[OK] All 2 install script(s) reachable",
		"All checks passed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunToMissingManifest(t *testing.T) {
	client := newRemote(t, map[string]string{})

	var buf bytes.Buffer
	err := RunTo(context.Background(), &buf, Options{ConfigPath: "c.toml", Terminal: "env --", Remote: client})
	if !errors.Is(err, ErrUnhealthy) {
		t.Fatalf("RunTo() error = %v, want ErrUnhealthy", err)
	}
	if !strings.Contains(buf.String(), "[FAIL]") || !strings.Contains(buf.String(), "not found") {
		t.Errorf("expected a not found failure:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "[Install scripts]") {
		t.Errorf("scripts must not be checked without a manifest:\n%s", buf.String())
	}
}

func TestRunToMissingScriptIsWarning(t *testing.T) {
	client := newRemote(t, map[string]string{
		"/tools.yaml":                    testManifest,
		"/install_scripts/needs_root.sh": "sudo -v\n",
		"/install_scripts/rwfus.sh":      "echo rwfus\n",
	})

	var buf bytes.Buffer
	err := RunTo(context.Background(), &buf, Options{ConfigPath: "c.toml", Terminal: "env --", Remote: client})
	if err != nil {
		t.Fatalf("RunTo() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[WARN] CryoUtilities:") {
		t.Errorf("expected warning for missing script:\n%s", out)
	}
	if !strings.Contains(out, "Warnings: 1") {
		t.Errorf("expected one warning in summary:\n%s", out)
	}
}

func TestRunToConfigError(t *testing.T) {
	var buf bytes.Buffer
	err := RunTo(context.Background(), &buf, Options{
		ConfigErr: errors.New("schema version mismatch"),
		Terminal:  "none",
	})
	if !errors.Is(err, ErrUnhealthy) {
		t.Fatalf("RunTo() error = %v, want ErrUnhealthy", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[FAIL] Config could not be loaded: schema version mismatch") {
		t.Errorf("missing config failure:\n%s", out)
	}
	if !strings.Contains(out, "terminal = none") {
		t.Errorf("missing direct terminal warning:\n%s", out)
	}
}

func TestCheckTerminalNotFound(t *testing.T) {
	var buf bytes.Buffer
	issues, _ := checkTerminal(&buf, "definitely-not-a-terminal-emulator")
	if issues != 1 {
		t.Errorf("issues = %d, want 1", issues)
	}
	if !strings.Contains(buf.String(), "DECKTOOLS_TERMINAL") {
		t.Errorf("expected a hint about DECKTOOLS_TERMINAL:\n%s", buf.String())
	}
}

func TestNeedsRoot(t *testing.T) {
	tests := []struct {
		name  string
		tools []manifest.Tool
		want  bool
	}{
		{"empty", nil, false},
		{"none", []manifest.Tool{{Title: "A"}, {Title: "B"}}, false},
		{"one", []manifest.Tool{{Title: "A"}, {Title: "B", NeedsRoot: true}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsRoot(tt.tools); got != tt.want {
				t.Errorf("needsRoot() = %v, want %v", got, tt.want)
			}
		})
	}
}
