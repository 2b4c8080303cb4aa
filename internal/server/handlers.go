package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/geograph/pkg/buildinfo"
	"github.com/matzehuels/geograph/pkg/errors"
	"github.com/matzehuels/geograph/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON:    "application/json",
	pipeline.FormatGeoJSON: "application/geo+json",
	pipeline.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:     "image/svg+xml",
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ruleBody struct {
	Name   string   `json:"name,omitempty"`
	Action string   `json:"action"`
	When   []string `json:"when"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	out := make([]ruleBody, 0, len(s.cfg.Rules))
	for _, r := range s.cfg.Rules {
		rb := ruleBody{Name: r.Name, Action: r.Action, When: make([]string, 0, len(r.When))}
		for _, c := range r.When {
			rb.When = append(rb.When, c.Describe())
		}
		out = append(out, rb)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	data, err := s.cfg.Encode()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	_, _ = w.Write(data)
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "format"))
		return
	}
	detailed, _ := strconv.ParseBool(q.Get("detailed"))
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(body) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "empty request body"))
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.runner.Execute(ctx, pipeline.Options{
		Input:      body,
		Name:       "request",
		IDProperty: q.Get("id_property"),
		Formats:    []string{format},
		Detailed:   detailed,
		Refresh:    refresh,
		Config:     s.cfg,
		Logger:     s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Topology-Hash", res.TopologyHash)
	w.Header().Set("X-Topology-Nodes", strconv.Itoa(res.Stats.NodeCount))
	w.Header().Set("X-Topology-Edges", strconv.Itoa(res.Stats.EdgeCount))
	if res.CacheInfo.BuildHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidGeometry, errors.ErrCodeUnsupportedGeometry, errors.ErrCodeInvariant:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
