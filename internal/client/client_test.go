package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	apierrors "github.com/diogo/ragchat/internal/errors"
)

// collect drains a chunk channel into accumulated text and a terminal error.
func collect(t *testing.T, ch <-chan Chunk) (string, error) {
	t.Helper()
	var sb strings.Builder
	for chunk := range ch {
		if chunk.Err != nil {
			return sb.String(), chunk.Err
		}
		sb.WriteString(chunk.Text)
	}
	return sb.String(), nil
}

func TestStreamConcatenatesChunks(t *testing.T) {
	chunks := []string{"Hi", " there", "!"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/chat" {
			t.Errorf("expected /chat, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}

		flusher := w.(http.Flusher)
		for _, chunk := range chunks {
			if _, err := w.Write([]byte(chunk)); err != nil {
				t.Errorf("write failed: %v", err)
			}
			flusher.Flush()
		}
	}))
	defer server.Close()

	c := New(server.URL)
	ch, err := c.Stream(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	got, streamErr := collect(t, ch)
	if streamErr != nil {
		t.Fatalf("unexpected stream error: %v", streamErr)
	}
	if got != "Hi there!" {
		t.Errorf("got %q, want %q", got, "Hi there!")
	}
}

func TestStreamSendsPromptJSON(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := New(server.URL)
	ch, err := c.Stream(context.Background(), "What is Go?")
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}
	collect(t, ch)

	want := `{"prompt":"What is Go?"}`
	if gotBody != want {
		t.Errorf("request body = %s, want %s", gotBody, want)
	}
}

func TestStreamNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Stream(context.Background(), "Hello")
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if got := apierrors.GetHTTPStatus(err); got != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", got, http.StatusServiceUnavailable)
	}
}

func TestStreamEmptyPromptIsRejected(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := New(server.URL)
	for _, prompt := range []string{"", "   ", "\t\n"} {
		if _, err := c.Stream(context.Background(), prompt); err != apierrors.ErrEmptyPrompt {
			t.Errorf("prompt %q: got %v, want ErrEmptyPrompt", prompt, err)
		}
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("expected no requests for empty prompts, server saw %d", n)
	}
}

func TestStreamMidStreamDrop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("partial rep"))
		w.(http.Flusher).Flush()

		// Kill the connection without finishing the chunked body.
		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack failed: %v", err)
			return
		}
		conn.Close()
	}))
	defer server.Close()

	c := New(server.URL)
	ch, err := c.Stream(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	got, streamErr := collect(t, ch)
	if streamErr == nil {
		t.Fatal("expected terminal stream error")
	}
	if !apierrors.IsStreamError(streamErr) {
		t.Errorf("expected StreamError, got %T: %v", streamErr, streamErr)
	}
	if got != "partial rep" {
		t.Errorf("partial text = %q, want %q", got, "partial rep")
	}
}

func TestStreamTrailingSlashBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %s, want /chat", r.URL.Path)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := New(server.URL + "/")
	ch, err := c.Stream(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}
	collect(t, ch)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s, want /health", r.URL.Path)
		}
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	if err := New(server.URL).Health(context.Background()); err != nil {
		t.Errorf("Health() error: %v", err)
	}
}

func TestHealthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := New(server.URL).Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apierrors.GetHTTPStatus(err); got != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", got)
	}
}
