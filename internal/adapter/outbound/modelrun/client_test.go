package modelrun

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mockupstudio/server/internal/infra/config"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(baseURL string) config.ModelRunConfig {
	return config.ModelRunConfig{
		BaseURL:       baseURL,
		Token:         "tok",
		StandardModel: "google/nano-banana",
		ProModel:      "google/nano-banana-pro",
		PollInterval:  5 * time.Millisecond,
		Breaker:       config.BreakerConfig{FailureThreshold: 2, Timeout: time.Minute},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (outbound.ModelRunPort, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})
	return NewClient(srv.Client(), testConfig(srv.URL), nil, zap.NewNop()), srv
}

func TestClient_RunWaitsInline(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models/google/nano-banana-pro/predictions", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "wait", r.Header.Get("Prefer"))

		var body predictionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"ref", "main", "logo"}, body.Input.ImageInput)
		assert.Equal(t, "png", body.Input.OutputFormat)
		assert.Equal(t, "4K", body.Input.Resolution)

		_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":"https://cdn/out.png"}`))
	})

	url, err := c.Run(context.Background(), &outbound.ModelRunInput{
		Model: "model2", Prompt: "p", Images: []string{"ref", "main", "logo"}, Resolution: "4K",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/out.png", url)
}

func TestClient_RunOmitsResolutionForStandard(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models/google/nano-banana/predictions", r.URL.Path)
		var raw map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, ok := raw["input"]["resolution"]
		assert.False(t, ok)
		_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":["https://cdn/a.png","https://cdn/b.png"]}`))
	})

	url, err := c.Run(context.Background(), &outbound.ModelRunInput{Model: "model1", Prompt: "p", Images: []string{"ref", "main"}})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a.png", url)
}

func TestClient_RunPollsUntilDone(t *testing.T) {
	var polls atomic.Int32
	var srvURL string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"id":"p1","status":"starting","urls":{"get":"` + srvURL + `/v1/predictions/p1"}}`))
			return
		}
		assert.Equal(t, "/v1/predictions/p1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if polls.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"id":"p1","status":"processing","urls":{"get":"` + srvURL + `/v1/predictions/p1"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":{"url":"https://cdn/obj.png"}}`))
	})
	srvURL = srv.URL

	url, err := c.Run(context.Background(), &outbound.ModelRunInput{Model: "model1", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/obj.png", url)
	assert.Equal(t, int32(3), polls.Load())
}

func TestClient_RunHonorsCancellation(t *testing.T) {
	var srvURL string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"p1","status":"processing","urls":{"get":"` + srvURL + `/v1/predictions/p1"}}`))
	})
	srvURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := c.Run(ctx, &outbound.ModelRunInput{Model: "model1", Prompt: "p"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_RunFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"failed prediction", http.StatusOK, `{"id":"p","status":"failed","error":"nsfw"}`, http.StatusBadGateway, "Image model failed"},
		{"no output", http.StatusOK, `{"id":"p","status":"succeeded","output":null}`, http.StatusBadGateway, msgNoOutput},
		{"api error", http.StatusUnprocessableEntity, `{"detail":"Invalid input"}`, http.StatusUnprocessableEntity, "Invalid input"},
		{"garbage", http.StatusOK, `not json`, http.StatusBadGateway, "Image model returned invalid response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Run(context.Background(), &outbound.ModelRunInput{Model: "model1"})
			var be *outbound.BackendError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.wantStatus, be.StatusCode)
			assert.Equal(t, tt.wantMsg, be.Message)
		})
	}
}

func TestClient_RunWithoutToken(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Token = ""
	c := NewClient(http.DefaultClient, cfg, nil, zap.NewNop())

	_, err := c.Run(context.Background(), &outbound.ModelRunInput{Model: "model1"})
	assert.ErrorIs(t, err, outbound.ErrProviderNotConfigured)
}

func TestClient_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 2; i++ {
		_, err := c.Run(context.Background(), &outbound.ModelRunInput{Model: "model1"})
		require.Error(t, err)
	}
	_, err := c.Run(context.Background(), &outbound.ModelRunInput{Model: "model1"})
	var be *outbound.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, msgUnavailable, be.Message)
	assert.Equal(t, int32(2), hits.Load())
}

func TestPredictionOutput(t *testing.T) {
	cases := map[string]string{
		`"a"`:         "a",
		`["a","b"]`:   "a",
		`[]`:          "",
		`{"url":"u"}`: "u",
		`null`:        "",
		`42`:          "",
	}
	for raw, want := range cases {
		var out predictionOutput
		require.NoError(t, json.Unmarshal([]byte(raw), &out), raw)
		assert.Equal(t, want, out.URL(), raw)
	}

	var p prediction
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","status":"succeeded"}`), &p))
	assert.Empty(t, p.Output.URL())

	require.NoError(t, json.Unmarshal([]byte(`{"status":"succeeded","output":["https://cdn/x.png"]}`), &p))
	assert.Equal(t, "https://cdn/x.png", p.Output.URL())

	assert.Error(t, json.Unmarshal([]byte(`[1]`), new(predictionOutput)))
}
