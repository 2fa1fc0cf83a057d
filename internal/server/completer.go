package server

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Turn is one entry in the server-side prompt history.
type Turn struct {
	Role    string // "system", "user", or "assistant"
	Content string
}

// Completer streams a completion for the accumulated prompt history. The
// returned channel carries text deltas and is closed when the completion
// ends. An error is returned only when the completion cannot be started;
// failures after the first delta end the stream early.
type Completer interface {
	Complete(ctx context.Context, history []Turn) (<-chan string, error)
}

// OpenAICompleter implements Completer against an OpenAI-compatible chat
// completions endpoint. When a search index is configured it is attached
// to each completion so answers are grounded in the indexed documents.
type OpenAICompleter struct {
	client      openai.Client
	model       string
	dataSources []map[string]any
}

// NewOpenAICompleter builds a completer from the server configuration.
func NewOpenAICompleter(cfg Config) *OpenAICompleter {
	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}

	return &OpenAICompleter{
		client:      openai.NewClient(opts...),
		model:       cfg.ChatModel,
		dataSources: searchDataSources(cfg),
	}
}

// searchDataSources builds the data_sources block wiring the Azure AI Search
// index into a completion request. Returns nil when no index is configured.
func searchDataSources(cfg Config) []map[string]any {
	if !cfg.SearchEnabled() {
		return nil
	}
	return []map[string]any{
		{
			"type": "azure_search",
			"parameters": map[string]any{
				"endpoint":   cfg.SearchEndpoint,
				"index_name": cfg.SearchIndexName,
				"authentication": map[string]any{
					"type": "api_key",
					"key":  cfg.SearchAPIKey,
				},
				"query_type": "vector",
				"embedding_dependency": map[string]any{
					"type":            "deployment_name",
					"deployment_name": cfg.EmbeddingModelName,
				},
			},
		},
	}
}

// Complete opens a streaming chat completion and forwards content deltas.
func (c *OpenAICompleter) Complete(ctx context.Context, history []Turn) (<-chan string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, turn := range history {
		switch turn.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(turn.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	// data_sources is an Azure extension outside the typed request params,
	// so it is injected into the request body directly.
	var reqOpts []option.RequestOption
	if c.dataSources != nil {
		reqOpts = append(reqOpts, option.WithJSONSet("data_sources", c.dataSources))
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(0),
	}, reqOpts...)

	// Pull the first event synchronously so connection and auth failures
	// surface as an error return rather than an empty stream.
	if !stream.Next() {
		err := stream.Err()
		stream.Close()
		if err != nil {
			return nil, err
		}
		empty := make(chan string)
		close(empty)
		return empty, nil
	}

	ch := make(chan string, 16)
	go func() {
		defer close(ch)
		defer stream.Close()

		emit := func(chunk openai.ChatCompletionChunk) {
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				ch <- chunk.Choices[0].Delta.Content
			}
		}

		emit(stream.Current())
		for stream.Next() {
			emit(stream.Current())
		}
	}()

	return ch, nil
}
