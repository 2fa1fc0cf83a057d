package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newFakeUpstream serves a minimal chat-completions stream and captures the
// decoded request body into dst.
func newFakeUpstream(t *testing.T, dst *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request: %v", err)
			return
		}
		if err := json.Unmarshal(data, dst); err != nil {
			t.Errorf("unmarshal request: %v", err)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"grounded\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestCompleteAttachesSearchIndex(t *testing.T) {
	var body map[string]any
	upstream := newFakeUpstream(t, &body)
	defer upstream.Close()

	cfg := testConfig()
	cfg.OpenAIAPIKey = "test-key"
	cfg.OpenAIBaseURL = upstream.URL
	cfg.ChatModel = "gpt-4o-mini"
	cfg.SearchEndpoint = "https://search.example.net"
	cfg.SearchIndexName = "margies-index"
	cfg.SearchAPIKey = "search-key"
	cfg.EmbeddingModelName = "text-embedding-ada-002"

	ch, err := NewOpenAICompleter(cfg).Complete(context.Background(), []Turn{{Role: "user", Content: "q"}})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	var reply strings.Builder
	for delta := range ch {
		reply.WriteString(delta)
	}
	if reply.String() != "grounded" {
		t.Errorf("reply = %q, want grounded", reply.String())
	}

	sources, ok := body["data_sources"].([]any)
	if !ok || len(sources) != 1 {
		t.Fatalf("data_sources = %v, want one entry", body["data_sources"])
	}
	source, ok := sources[0].(map[string]any)
	if !ok || source["type"] != "azure_search" {
		t.Fatalf("data source = %v, want type azure_search", sources[0])
	}
	params, ok := source["parameters"].(map[string]any)
	if !ok {
		t.Fatalf("parameters = %v", source["parameters"])
	}
	if params["endpoint"] != "https://search.example.net" {
		t.Errorf("endpoint = %v", params["endpoint"])
	}
	if params["index_name"] != "margies-index" {
		t.Errorf("index_name = %v", params["index_name"])
	}
	if params["query_type"] != "vector" {
		t.Errorf("query_type = %v, want vector", params["query_type"])
	}
	auth, _ := params["authentication"].(map[string]any)
	if auth["key"] != "search-key" {
		t.Errorf("authentication key = %v", auth["key"])
	}
	embed, _ := params["embedding_dependency"].(map[string]any)
	if embed["deployment_name"] != "text-embedding-ada-002" {
		t.Errorf("deployment_name = %v", embed["deployment_name"])
	}
}

func TestCompleteWithoutSearchIndex(t *testing.T) {
	var body map[string]any
	upstream := newFakeUpstream(t, &body)
	defer upstream.Close()

	cfg := testConfig()
	cfg.OpenAIAPIKey = "test-key"
	cfg.OpenAIBaseURL = upstream.URL
	cfg.ChatModel = "gpt-4o-mini"

	ch, err := NewOpenAICompleter(cfg).Complete(context.Background(), []Turn{{Role: "user", Content: "q"}})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	for range ch {
	}

	if _, ok := body["data_sources"]; ok {
		t.Error("data_sources attached without a search endpoint configured")
	}
}
