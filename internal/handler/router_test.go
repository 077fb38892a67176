package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/shortsboard/shorts-analytics/internal/models"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

const testChannelID = "UCuAXFkgsw1L7xaCfnd5JJOw"

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Init("error", "")
}

type testServer struct {
	sync       *mockSyncRunner
	videos     *mockVideoRepo
	history    *mockHistoryRepo
	embeddings *mockEmbeddings
	assistant  *mockAssistant
	router     *gin.Engine
}

func newTestServer() *testServer {
	s := &testServer{
		sync:       new(mockSyncRunner),
		videos:     new(mockVideoRepo),
		history:    new(mockHistoryRepo),
		embeddings: new(mockEmbeddings),
		assistant:  new(mockAssistant),
	}
	s.router = NewRouter(Handlers{
		Health:     NewHealthHandler(mockPinger{}, nil, nil),
		Sync:       NewSyncHandler(s.sync),
		Videos:     NewVideoHandler(testChannelID, s.videos, s.history, s.embeddings),
		Embeddings: NewEmbeddingHandler(s.embeddings),
		Assistant:  NewAssistantHandler(s.assistant),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "# metrics\n")
		}),
	})
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	return decode[models.ErrorResponse](t, w)
}

func TestRouter_NoRoute(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodGet, "/api/v1/unknown", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	require.Equal(t, "/api/v1/unknown", resp.Path)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "# metrics\n", w.Body.String())
}
