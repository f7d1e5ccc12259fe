package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"kurum-asistan-be/pkg/embedding"
	ollamallm "kurum-asistan-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaBaseURL(t *testing.T) string {
	t.Helper()

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		t.Skipf("Skipping integration test: Ollama not reachable at %s", baseURL)
	}
	resp.Body.Close()

	return baseURL
}

func TestOllamaGenerate(t *testing.T) {
	baseURL := ollamaBaseURL(t)

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gemma3:12b"
	}

	provider := ollamallm.NewOllamaProvider(baseURL, model)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reply, err := provider.Generate(ctx, "Tek kelimeyle cevap ver: Türkiye'nin başkenti neresidir?")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	t.Logf("Model reply: %s", reply)
}

func TestOllamaEmbeddings(t *testing.T) {
	baseURL := ollamaBaseURL(t)

	model := os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if model == "" {
		model = "nomic-embed-text"
	}

	provider := embedding.NewOllamaProvider(baseURL, model)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	vectors, err := provider.Encode(ctx, []string{"satış raporu", "hava durumu"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.NotEmpty(t, vectors[0])
	assert.Equal(t, len(vectors[0]), len(vectors[1]))
}
