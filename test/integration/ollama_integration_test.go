package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"physio-notes-be/pkg/aiservice"
	"physio-notes-be/pkg/llm/ollama"
	"physio-notes-be/pkg/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kneeTranscript = `Patient is a 34 year old recreational soccer player reporting medial knee
pain for two weeks after a twisting injury. Pain is 5 out of 10 with stairs and
squatting. On exam there is tenderness at the medial joint line, McMurray is
positive for pain, Lachman is negative, knee flexion is 120 degrees. Plan is
quad sets, straight leg raises and heel slides twice a week for four weeks.`

// requireOllama skips unless a local Ollama answers. The model defaults to a
// small one so the test runs on a laptop.
func requireOllama(t *testing.T) (baseURL, model string) {
	t.Helper()
	baseURL = os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model = os.Getenv("OLLAMA_TEST_MODEL")
	if model == "" {
		model = "llama3.2:3b"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		t.Skipf("Skipping Ollama integration test: %v", err)
	}
	resp.Body.Close()
	return baseURL, model
}

func TestOllamaGeneratesKneeNote(t *testing.T) {
	baseURL, model := requireOllama(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	completer := aiservice.New(ollama.NewOllamaProvider(baseURL, model), model)
	result, err := template.NewManager(nil).GenerateSOAP(ctx, "knee", kneeTranscript, completer)
	require.NoError(t, err)
	require.NotNil(t, result.Document)

	assert.False(t, result.Document.IsEmpty(), "raw response: %s", result.Raw)
	for _, w := range result.Warnings {
		t.Logf("warning: %s", w)
	}
}
