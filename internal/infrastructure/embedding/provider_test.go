package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tendermesh/matching-backend/internal/cfg"
	"github.com/tendermesh/matching-backend/pkg/e"
)

// fakeAPI проигрывает заранее заданную последовательность ответов.
type fakeAPI struct {
	responses []func(texts []string) (openai.EmbeddingResponse, error)
	calls     [][]string
}

func (f *fakeAPI) CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	texts := req.(openai.EmbeddingRequest).Input.([]string)
	f.calls = append(f.calls, texts)

	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}

	return f.responses[idx](texts)
}

func okResponse(texts []string) (openai.EmbeddingResponse, error) {
	data := make([]openai.Embedding, len(texts))
	for i, text := range texts {
		data[i] = openai.Embedding{Index: i, Embedding: []float32{float32(len(text)), 1}}
	}

	return openai.EmbeddingResponse{Data: data}, nil
}

func rateLimited([]string) (openai.EmbeddingResponse, error) {
	return openai.EmbeddingResponse{}, &openai.APIError{HTTPStatusCode: 429, Message: "rate limit exceeded"}
}

func newTestProvider(api embeddingAPI, maxBatch int) *Provider {
	return NewProvider(api, &cfg.OpenAICfg{
		Model:          "test-model",
		RequestTimeout: time.Second,
		MaxBatchSize:   maxBatch,
		InterBatchWait: time.Millisecond,
		SingleBackoff:  time.Millisecond,
		BatchBackoff:   time.Millisecond,
	}, nopLogger{})
}

func TestProviderEmbed(t *testing.T) {
	api := &fakeAPI{responses: []func([]string) (openai.EmbeddingResponse, error){okResponse}}
	provider := newTestProvider(api, 100)

	got, err := provider.Embed(context.Background(), "steel")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if len(got) != 2 || got[0] != 5 {
		t.Errorf("Embed = %v, want [5 1]", got)
	}
}

func TestProviderEmbedBatchChunks(t *testing.T) {
	api := &fakeAPI{responses: []func([]string) (openai.EmbeddingResponse, error){okResponse}}
	provider := newTestProvider(api, 2)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	got, err := provider.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}

	if len(got) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(got), len(texts))
	}
	for i, text := range texts {
		if got[i][0] != float32(len(text)) {
			t.Errorf("vector %d = %v, want first component %d", i, got[i], len(text))
		}
	}

	if len(api.calls) != 3 {
		t.Errorf("api called %d times, want 3 chunks", len(api.calls))
	}
}

func TestProviderRestoresResponseOrder(t *testing.T) {
	shuffled := func(texts []string) (openai.EmbeddingResponse, error) {
		data := make([]openai.Embedding, 0, len(texts))
		for i := len(texts) - 1; i >= 0; i-- {
			data = append(data, openai.Embedding{Index: i, Embedding: []float32{float32(len(texts[i])), 1}})
		}
		return openai.EmbeddingResponse{Data: data}, nil
	}

	api := &fakeAPI{responses: []func([]string) (openai.EmbeddingResponse, error){shuffled}}
	provider := newTestProvider(api, 100)

	got, err := provider.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}

	for i, want := range []float32{1, 2, 3} {
		if got[i][0] != want {
			t.Errorf("vector %d = %v, want first component %v", i, got[i], want)
		}
	}
}

func TestProviderRetriesOnceOnRateLimit(t *testing.T) {
	api := &fakeAPI{responses: []func([]string) (openai.EmbeddingResponse, error){
		rateLimited,
		okResponse,
	}}
	provider := newTestProvider(api, 100)

	got, err := provider.Embed(context.Background(), "steel")
	if err != nil {
		t.Fatalf("Embed after retry: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("empty vector after retry")
	}

	if len(api.calls) != 2 {
		t.Errorf("api called %d times, want 2", len(api.calls))
	}
}

func TestProviderGivesUpAfterSecondRateLimit(t *testing.T) {
	api := &fakeAPI{responses: []func([]string) (openai.EmbeddingResponse, error){
		rateLimited,
		rateLimited,
	}}
	provider := newTestProvider(api, 100)

	_, err := provider.Embed(context.Background(), "steel")
	if !errors.Is(err, e.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}

	if len(api.calls) != 2 {
		t.Errorf("api called %d times, want exactly one retry", len(api.calls))
	}
}

func TestProviderNonRateLimitErrorNotRetried(t *testing.T) {
	wantErr := errors.New("connection refused")
	api := &fakeAPI{responses: []func([]string) (openai.EmbeddingResponse, error){
		func([]string) (openai.EmbeddingResponse, error) {
			return openai.EmbeddingResponse{}, wantErr
		},
	}}
	provider := newTestProvider(api, 100)

	if _, err := provider.Embed(context.Background(), "steel"); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped original error", err)
	}
	if len(api.calls) != 1 {
		t.Errorf("api called %d times, want 1", len(api.calls))
	}
}

func TestProviderCountMismatch(t *testing.T) {
	api := &fakeAPI{responses: []func([]string) (openai.EmbeddingResponse, error){
		func([]string) (openai.EmbeddingResponse, error) {
			return openai.EmbeddingResponse{Data: []openai.Embedding{}}, nil
		},
	}}
	provider := newTestProvider(api, 100)

	if _, err := provider.Embed(context.Background(), "steel"); !errors.Is(err, e.ErrVectorCountMismatch) {
		t.Errorf("err = %v, want ErrVectorCountMismatch", err)
	}
}

func TestProviderEmptyVector(t *testing.T) {
	api := &fakeAPI{responses: []func([]string) (openai.EmbeddingResponse, error){
		func(texts []string) (openai.EmbeddingResponse, error) {
			return openai.EmbeddingResponse{Data: []openai.Embedding{{Index: 0}}}, nil
		},
	}}
	provider := newTestProvider(api, 100)

	if _, err := provider.Embed(context.Background(), "steel"); !errors.Is(err, e.ErrEmptyVector) {
		t.Errorf("err = %v, want ErrEmptyVector", err)
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"api error 429", &openai.APIError{HTTPStatusCode: 429}, true},
		{"api error 500", &openai.APIError{HTTPStatusCode: 500}, false},
		{"request error 429", &openai.RequestError{HTTPStatusCode: 429}, true},
		{"message mentions rate limit", errors.New("hit the rate limit"), true},
		{"message mentions rate_limit code", errors.New("rate_limit_exceeded"), true},
		{"message mentions too many requests", errors.New("too many requests"), true},
		{"message mentions 429", errors.New("status 429"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := isRateLimit(test.err); got != test.want {
				t.Errorf("isRateLimit(%v) = %v, want %v", test.err, got, test.want)
			}
		})
	}
}
