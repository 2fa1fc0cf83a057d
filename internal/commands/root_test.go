package commands

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diogo/ragchat/internal/client"
	apierrors "github.com/diogo/ragchat/internal/errors"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	want := map[string]bool{"chat": false, "serve": false, "config": false}

	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{"file", "raw", "version"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
	if rootCmd.PersistentFlags().Lookup("backend") == nil {
		t.Error("persistent flag --backend not registered")
	}
}

func TestRunQueryRejectsEmptyPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t"} {
		if err := runQuery(prompt, true); err == nil {
			t.Errorf("prompt %q: expected error", prompt)
		}
	}
}

func TestFormatQueryError(t *testing.T) {
	err := formatQueryError(apierrors.NewAPIError(503, "/chat", "down"))
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apierrors.GetHTTPStatus(err); got != 503 {
		t.Errorf("status lost in formatting: %d", got)
	}
}

func TestFormatQueryErrorNetwork(t *testing.T) {
	cause := &net.OpError{Op: "dial", Net: "tcp", Err: net.UnknownNetworkError("refused")}
	err := formatQueryError(cause)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "cannot reach the backend") {
		t.Errorf("message = %q", err.Error())
	}
	if !apierrors.IsNetworkError(err) {
		t.Error("cause lost in formatting")
	}
}

func TestCheckBackend(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer healthy.Close()

	if err := checkBackend(client.New(healthy.URL)); err != nil {
		t.Errorf("healthy backend: %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	err := checkBackend(client.New(down.URL))
	if err == nil {
		t.Fatal("expected error for failing health check")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestLoadClientConfigBackendFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	backendFlag = "http://flagged:1234"
	defer func() { backendFlag = "" }()

	cfg := loadClientConfig()
	if cfg.BackendURL != "http://flagged:1234" {
		t.Errorf("BackendURL = %s, want flag value", cfg.BackendURL)
	}
}
