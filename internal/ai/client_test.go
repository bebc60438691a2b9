package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Config{
		BaseURL:             server.URL,
		APIKey:              "test-key",
		ChatModel:           "gpt-4o-mini",
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 4,
		TTSModel:            "gpt-4o-mini-tts",
		STTModel:            "whisper-1",
		RequestsPerSecond:   1000,
	}, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	t.Cleanup(client.Close)

	return client, server
}

func embeddingBody(dims int) string {
	vals := make([]string, dims)
	for i := range vals {
		vals[i] = "0.5"
	}
	return fmt.Sprintf(`{"data":[{"embedding":[%s]}]}`, strings.Join(vals, ","))
}

func TestClient_Embed(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		response   string
		statusCode int
		wantErr    error
	}{
		{
			name:       "successful embed",
			input:      "어린 왕자",
			response:   embeddingBody(4),
			statusCode: http.StatusOK,
		},
		{
			name:    "empty input short-circuits",
			input:   "   ",
			wantErr: ErrNoInput,
		},
		{
			name:       "server error",
			input:      "text",
			statusCode: http.StatusInternalServerError,
			wantErr:    ErrUnavailable,
		},
		{
			name:       "dimension mismatch",
			input:      "text",
			response:   embeddingBody(3),
			statusCode: http.StatusOK,
			wantErr:    ErrInvalidResponse,
		},
		{
			name:       "no data",
			input:      "text",
			response:   `{"data":[]}`,
			statusCode: http.StatusOK,
			wantErr:    ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(t, "/embeddings", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.response))
			})

			vector, err := client.Embed(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, vector, 4)
			assert.True(t, called)
		})
	}
}

func TestClient_EmbedNoNetworkCallOnEmptyInput(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoInput)
	assert.False(t, called, "empty input must not reach the network")
}

func TestClient_ChatJSON(t *testing.T) {
	t.Run("returns message content", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			w.Write([]byte(`{"choices":[{"message":{"content":"{\"recommendations\":[]}"}}]}`))
		})

		content, err := client.ChatJSON(context.Background(), "system", "user")
		require.NoError(t, err)
		assert.Equal(t, `{"recommendations":[]}`, content)
	})

	t.Run("no choices", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		})

		_, err := client.ChatJSON(context.Background(), "system", "user")
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("upstream failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.ChatJSON(context.Background(), "system", "user")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestClient_Speech(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	})

	stream, contentType, err := client.Speech(context.Background(), "본문 낭독", "nova")
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, "audio/mpeg", contentType)
}

func TestClient_Transcribe(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")
		w.Write([]byte(`{"text":"이 책 정말 좋았어요"}`))
	})

	text, err := client.Transcribe(context.Background(), "comment.webm", strings.NewReader("audio"))
	require.NoError(t, err)
	assert.Equal(t, "이 책 정말 좋았어요", text)
}
