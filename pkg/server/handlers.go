package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/latticetile/pkg/cache"
	errs "github.com/matzehuels/latticetile/pkg/errors"
	"github.com/matzehuels/latticetile/pkg/pipeline"
	"github.com/matzehuels/latticetile/pkg/puzzle"
	"github.com/matzehuels/latticetile/pkg/solver"
)

// PuzzleSummary describes a puzzle in listings.
type PuzzleSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Hash        string `json:"hash"`
	Kind        string `json:"kind"`
	Sites       int    `json:"sites"`
	Pieces      int    `json:"pieces"`
	Cells       int    `json:"cells"`
}

// PuzzleDetail is a summary plus the TOML definition.
type PuzzleDetail struct {
	PuzzleSummary
	Definition string `json:"definition"`
}

// SolveRequest is the body of POST /solve. Exactly one of Puzzle and
// Definition must be set; Puzzle names a built-in or an uploaded hash.
type SolveRequest struct {
	Puzzle     string `json:"puzzle,omitempty"`
	Definition string `json:"definition,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	TimeoutMS  int    `json:"timeout_ms,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`
}

// SolveResponse is the body returned by POST /solve.
type SolveResponse struct {
	ID         string            `json:"id"`
	Puzzle     string            `json:"puzzle"`
	Hash       string            `json:"hash"`
	Count      int               `json:"count"`
	Solutions  []solver.Solution `json:"solutions"`
	Stopped    solver.StopReason `json:"stopped"`
	Placements int64             `json:"placements"`
	DurationMS int64             `json:"duration_ms"`
	CacheHit   bool              `json:"cache_hit"`
}

type errorBody struct {
	Error struct {
		Code    errs.Code `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
}

func summarize(d *puzzle.Definition) PuzzleSummary {
	cells, sites := d.CellBalance()
	return PuzzleSummary{
		Name:        d.Name,
		Description: d.Description,
		Hash:        d.Hash(),
		Kind:        d.Lattice.Kind,
		Sites:       sites,
		Pieces:      len(d.Pieces),
		Cells:       cells,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Stats.Snapshot())
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	defs, err := puzzle.Builtins()
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]PuzzleSummary, len(defs))
	for i, d := range defs {
		out[i] = summarize(d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	d, err := s.resolve(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := d.Encode()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PuzzleDetail{PuzzleSummary: summarize(d), Definition: string(data)})
}

func (s *Server) handleUploadPuzzle(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "read body"))
		return
	}
	d, err := puzzle.Parse(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summarize(d))
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	var (
		d   *puzzle.Definition
		err error
	)
	switch {
	case req.Puzzle != "" && req.Definition != "":
		err = errs.New(errs.ErrCodeInvalidInput, "set either puzzle or definition, not both")
	case req.Puzzle != "":
		d, err = s.resolve(r.Context(), req.Puzzle)
	case req.Definition != "":
		d, err = puzzle.Parse([]byte(req.Definition))
	default:
		err = errs.New(errs.ErrCodeInvalidInput, "puzzle or definition is required")
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	timeout := s.cfg.Timeout
	if t := time.Duration(req.TimeoutMS) * time.Millisecond; t > 0 && t < timeout {
		timeout = t
	}

	id := uuid.NewString()
	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Puzzle:  d,
		Limit:   limit,
		Timeout: timeout,
		Refresh: req.Refresh,
		RunID:   id,
	})
	resp, err := solveResponse(id, res, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// solveResponse builds the reply for a finished search. A search that hit
// its timeout still answers 200 with the solutions found so far and
// stopped set to "canceled"; every other error is passed through.
func solveResponse(id string, res *pipeline.Result, err error) (SolveResponse, error) {
	if err != nil && (res == nil || !errs.Is(err, errs.ErrCodeTimeout)) {
		return SolveResponse{}, err
	}
	return SolveResponse{
		ID:         id,
		Puzzle:     res.Puzzle,
		Hash:       res.Hash,
		Count:      res.Count(),
		Solutions:  res.Solutions,
		Stopped:    res.Stats.Stopped,
		Placements: res.Stats.Placements,
		DurationMS: res.Stats.Duration.Milliseconds(),
		CacheHit:   res.CacheHit,
	}, nil
}

// resolve finds a built-in by name or an uploaded definition by hash.
func (s *Server) resolve(ctx context.Context, name string) (*puzzle.Definition, error) {
	if d, err := puzzle.Builtin(name); err == nil {
		return d, nil
	}
	data, hit, err := s.runner.Cache.Get(ctx, s.runner.Keyer.PuzzleKey(name))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "load puzzle %s", name)
	}
	if !hit {
		return nil, errs.New(errs.ErrCodePuzzleNotFound, "no puzzle %q", name)
	}
	return puzzle.Parse(data)
}

// store keeps an uploaded definition under its hash.
func (s *Server) store(ctx context.Context, d *puzzle.Definition) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := s.runner.Cache.Set(ctx, s.runner.Keyer.PuzzleKey(d.Hash()), data, cache.TTLPuzzle); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "store puzzle")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "error", err)
	}
	var body errorBody
	body.Error.Code = errs.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errs.ErrCodeInternal
	}
	body.Error.Message = errs.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
