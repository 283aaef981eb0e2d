package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Complexity holds the structural penalty terms of a score.
type Complexity struct {
	Bridgeheads    int     `json:"bridgeheads"`
	SpiroAtoms     int     `json:"spiro_atoms"`
	Stereocenters  int     `json:"stereocenters"`
	Macrocycles    int     `json:"macrocycles"`
	HeavyAtoms     int     `json:"heavy_atoms"`
	RingTerm       float64 `json:"ring_term"`
	StereoTerm     float64 `json:"stereo_term"`
	MacrocycleTerm float64 `json:"macrocycle_term"`
	SizeTerm       float64 `json:"size_term"`
}

// Breakdown explains how a score was composed.
type Breakdown struct {
	FragmentScore     float64    `json:"fragment_score"`
	FragmentCount     int64      `json:"fragment_count"`
	DistinctFragments int        `json:"distinct_fragments"`
	UnknownFragments  int        `json:"unknown_fragments"`
	Complexity        Complexity `json:"complexity"`
	Scaled            float64    `json:"scaled"`
	Score             float64    `json:"score"`
}

// ScoreResult is the score of one molecule, between 1 (easy) and 10 (hard).
type ScoreResult struct {
	SMILES       string     `json:"smiles"`
	Score        float64    `json:"score"`
	ModelVersion string     `json:"model_version"`
	Breakdown    *Breakdown `json:"breakdown"`
	Cached       bool       `json:"cached"`
}

// ItemError is the failure of one batch entry.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItem is one entry of a batch result, in request order.
type BatchItem struct {
	Index  int          `json:"index"`
	SMILES string       `json:"smiles"`
	Result *ScoreResult `json:"result,omitempty"`
	Error  *ItemError   `json:"error,omitempty"`
}

// BatchResult holds per-entry outcomes of a batch.
type BatchResult struct {
	ModelVersion string      `json:"model_version"`
	Items        []BatchItem `json:"items"`
	Succeeded    int         `json:"succeeded"`
	Failed       int         `json:"failed"`
}

// FragmentCount is one fragment of a molecule.
type FragmentCount struct {
	ID           uint32  `json:"id"`
	Count        int64   `json:"count"`
	Known        bool    `json:"known"`
	Contribution float64 `json:"contribution"`
}

// FragmentsResult is the fragment table of one molecule.
type FragmentsResult struct {
	SMILES    string          `json:"smiles"`
	Radius    int             `json:"radius"`
	Fragments []FragmentCount `json:"fragments"`
	Total     int64           `json:"total"`
}

// ModelInfo describes a contribution model.
type ModelInfo struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	Radius        int       `json:"radius"`
	Fragments     int       `json:"fragments"`
	Total         int64     `json:"total"`
	FrequentTypes int       `json:"frequent_types"`
	Degenerate    bool      `json:"degenerate"`
}

// SkippedEntry is a corpus entry left out of a build or ingest.
type SkippedEntry struct {
	Index  int    `json:"index"`
	SMILES string `json:"smiles"`
	Reason string `json:"reason"`
}

// BuildResult describes a model built by the server.
type BuildResult struct {
	Model     ModelInfo      `json:"model"`
	Molecules int            `json:"molecules"`
	Skipped   []SkippedEntry `json:"skipped,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

// IngestResult describes counts added to the server's corpus store.
type IngestResult struct {
	Molecules int            `json:"molecules"`
	Fragments int            `json:"fragments"`
	Total     int64          `json:"total"`
	Skipped   []SkippedEntry `json:"skipped,omitempty"`
}

// ComponentCheck is the health of one server dependency.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Readiness is the body of /readyz.
type Readiness struct {
	Ready      bool                      `json:"-"`
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// Score scores one molecule.
func (c *Client) Score(ctx context.Context, smiles string) (*ScoreResult, error) {
	var out ScoreResult
	if err := c.post(ctx, "/api/v1/sascore", map[string]string{"smiles": smiles}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScoreBatch scores molecules in one request.  Unparseable entries are
// reported per item, not as an error.
func (c *Client) ScoreBatch(ctx context.Context, smiles []string) (*BatchResult, error) {
	var out BatchResult
	if err := c.post(ctx, "/api/v1/sascore/batch", map[string][]string{"smiles": smiles}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Fragments returns the fragment table of one molecule.
func (c *Client) Fragments(ctx context.Context, smiles string) (*FragmentsResult, error) {
	var out FragmentsResult
	if err := c.post(ctx, "/api/v1/fragments", map[string]string{"smiles": smiles}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Model returns the active model.
func (c *Client) Model(ctx context.Context) (*ModelInfo, error) {
	var out ModelInfo
	if err := c.get(ctx, "/api/v1/model", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildModel builds, stores and activates a model from corpus.
func (c *Client) BuildModel(ctx context.Context, name string, corpus []string) (*BuildResult, error) {
	body := struct {
		Name   string   `json:"name"`
		Corpus []string `json:"corpus"`
	}{name, corpus}
	var out BuildResult
	if err := c.post(ctx, "/api/v1/model/build", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadModel activates the latest stored snapshot of name.
func (c *Client) LoadModel(ctx context.Context, name string) (*ModelInfo, error) {
	var out ModelInfo
	if err := c.post(ctx, "/api/v1/model/load", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RebuildModel builds name from the fragment counts ingested so far.
func (c *Client) RebuildModel(ctx context.Context, name string) (*BuildResult, error) {
	var out BuildResult
	if err := c.post(ctx, "/api/v1/model/rebuild", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IngestCorpus adds the fragment counts of corpus to the server's store.
func (c *Client) IngestCorpus(ctx context.Context, corpus []string) (*IngestResult, error) {
	var out IngestResult
	if err := c.post(ctx, "/api/v1/corpus/ingest", map[string][]string{"corpus": corpus}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ready probes /readyz once.  A not-ready server is reported through
// Readiness.Ready, not as an error.
func (c *Client) Ready(ctx context.Context) (*Readiness, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/readyz", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, decodeAPIError(resp.StatusCode, "", body)
	}
	var out Readiness
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	out.Ready = resp.StatusCode == http.StatusOK
	return &out, nil
}

//Personal.AI order the ending
