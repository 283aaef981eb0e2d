package handlers

import (
	"net/http"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SAScore/pkg/errors"
)

// ScoreHandler serves scoring and model administration requests.
type ScoreHandler struct {
	svc          app.Service
	logger       logging.Logger
	maxBodyBytes int64
}

// NewScoreHandler creates a ScoreHandler.  maxBodyBytes <= 0 uses
// DefaultMaxBodyBytes.
func NewScoreHandler(svc app.Service, logger logging.Logger, maxBodyBytes int64) *ScoreHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &ScoreHandler{svc: svc, logger: logger, maxBodyBytes: maxBodyBytes}
}

// ScoreRequest is the body of POST /sascore and POST /fragments.
type ScoreRequest struct {
	SMILES string `json:"smiles"`
}

// BatchScoreRequest is the body of POST /sascore/batch.
type BatchScoreRequest struct {
	SMILES []string `json:"smiles"`
}

// BuildModelRequest is the body of POST /model/build.
type BuildModelRequest struct {
	Name   string   `json:"name"`
	Corpus []string `json:"corpus"`
}

// ModelNameRequest is the body of POST /model/load and POST /model/rebuild.
type ModelNameRequest struct {
	Name string `json:"name"`
}

// IngestRequest is the body of POST /corpus/ingest.
type IngestRequest struct {
	Corpus []string `json:"corpus"`
}

// Score handles POST /api/v1/sascore.
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeAppError(w, err)
		return
	}
	result, err := h.svc.Score(r.Context(), req.SMILES)
	if err != nil {
		h.fail(w, "score", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ScoreBatch handles POST /api/v1/sascore/batch.  Per-entry failures are
// reported inside a 200 response.
func (h *ScoreHandler) ScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchScoreRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if len(req.SMILES) == 0 {
		writeAppError(w, errors.InvalidParam("smiles must list at least one molecule"))
		return
	}
	result, err := h.svc.ScoreBatch(r.Context(), req.SMILES)
	if err != nil {
		h.fail(w, "score batch", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Fragments handles POST /api/v1/fragments.
func (h *ScoreHandler) Fragments(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeAppError(w, err)
		return
	}
	result, err := h.svc.Fragments(r.Context(), req.SMILES)
	if err != nil {
		h.fail(w, "fragments", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Model handles GET /api/v1/model.
func (h *ScoreHandler) Model(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.ActiveModel()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// BuildModel handles POST /api/v1/model/build.
func (h *ScoreHandler) BuildModel(w http.ResponseWriter, r *http.Request) {
	var req BuildModelRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if len(req.Corpus) == 0 {
		writeAppError(w, errors.InvalidParam("corpus must not be empty"))
		return
	}
	result, err := h.svc.BuildModel(r.Context(), &app.BuildInput{Name: req.Name, Corpus: req.Corpus})
	if err != nil {
		h.fail(w, "build model", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// LoadModel handles POST /api/v1/model/load.
func (h *ScoreHandler) LoadModel(w http.ResponseWriter, r *http.Request) {
	var req ModelNameRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeAppError(w, err)
		return
	}
	info, err := h.svc.LoadModel(r.Context(), req.Name)
	if err != nil {
		h.fail(w, "load model", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// RebuildModel handles POST /api/v1/model/rebuild.
func (h *ScoreHandler) RebuildModel(w http.ResponseWriter, r *http.Request) {
	var req ModelNameRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeAppError(w, err)
		return
	}
	result, err := h.svc.RebuildFromStore(r.Context(), req.Name)
	if err != nil {
		h.fail(w, "rebuild model", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// IngestCorpus handles POST /api/v1/corpus/ingest.
func (h *ScoreHandler) IngestCorpus(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if len(req.Corpus) == 0 {
		writeAppError(w, errors.InvalidParam("corpus must not be empty"))
		return
	}
	result, err := h.svc.IngestCorpus(r.Context(), req.Corpus)
	if err != nil {
		h.fail(w, "ingest corpus", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fail logs server-side failures and writes the error response.
func (h *ScoreHandler) fail(w http.ResponseWriter, op string, err error) {
	if errors.GetCode(err).HTTPStatus() >= http.StatusInternalServerError {
		h.logger.Error("request failed", logging.String("op", op), logging.Err(err))
	}
	writeAppError(w, err)
}

//Personal.AI order the ending
