package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	"github.com/turtacn/SAScore/internal/application/sascore/sascoretest"
	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/interfaces/http/handlers"
	"github.com/turtacn/SAScore/internal/interfaces/http/middleware"
	"github.com/turtacn/SAScore/internal/testutil"
)

func newTestRouter(svc app.Service, limiter middleware.RateLimiter) http.Handler {
	return NewRouter(RouterConfig{
		ScoreHandler:  handlers.NewScoreHandler(svc, nil, 0),
		HealthHandler: handlers.NewHealthHandler("test", handlers.ModelChecker(svc.Ready)),
		Logger:        testutil.NewMockLogger(),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
		RateLimiter: limiter,
		CORSOrigins: []string{"https://ui.example.com"},
	})
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	h.ServeHTTP(w, r)
	return w
}

func TestNewRouter_Routes(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Ready").Return(true)
	svc.On("Score", mock.Anything, "CCO").Return(&app.ScoreResult{Score: 1.9}, nil)
	svc.On("ScoreBatch", mock.Anything, []string{"CCO"}).Return(&app.BatchResult{Succeeded: 1}, nil)
	svc.On("Fragments", mock.Anything, "CCO").Return(&app.FragmentsResult{SMILES: "CCO"}, nil)
	svc.On("ActiveModel").Return(&domain.ModelInfo{Name: "default"}, nil)
	svc.On("BuildModel", mock.Anything, mock.Anything).Return(&app.BuildResult{}, nil)
	svc.On("LoadModel", mock.Anything, "").Return(&domain.ModelInfo{}, nil)
	svc.On("RebuildFromStore", mock.Anything, "").Return(&app.BuildResult{}, nil)
	svc.On("IngestCorpus", mock.Anything, []string{"CCO"}).Return(&app.IngestResult{}, nil)
	router := newTestRouter(svc, nil)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/healthz/detail", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/api/v1/sascore", `{"smiles":"CCO"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/sascore/batch", `{"smiles":["CCO"]}`, http.StatusOK},
		{http.MethodPost, "/api/v1/fragments", `{"smiles":"CCO"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/model", "", http.StatusOK},
		{http.MethodPost, "/api/v1/model/build", `{"corpus":["CCO"]}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/model/load", `{}`, http.StatusOK},
		{http.MethodPost, "/api/v1/model/rebuild", `{}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/corpus/ingest", `{"corpus":["CCO"]}`, http.StatusOK},
		{http.MethodGet, "/api/v1/sascore", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/patents", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := serve(router, tc.method, tc.path, tc.body)
		assert.Equal(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestNewRouter_RequestIDAndCORS(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("ActiveModel").Return(&domain.ModelInfo{Name: "default"}, nil)
	router := newTestRouter(svc, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/model", nil)
	r.Header.Set("Origin", "https://ui.example.com")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://ui.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_RateLimited(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Ready").Return(false)
	svc.On("ActiveModel").Return(&domain.ModelInfo{}, nil)
	limiter := middleware.NewKeyedLimiter(0.001, 1, 0)
	router := newTestRouter(svc, limiter)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/model", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/api/v1/model", "").Code)
	// probes stay reachable and report the missing model
	assert.Equal(t, http.StatusServiceUnavailable, serve(router, http.MethodGet, "/readyz", "").Code)
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Score", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("boom") })
	router := newTestRouter(svc, nil)

	w := serve(router, http.MethodPost, "/api/v1/sascore", `{"smiles":"CCO"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNewRouter_EmptyConfig(t *testing.T) {
	router := NewRouter(RouterConfig{})
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/healthz", "").Code)
}

//Personal.AI order the ending
