package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/errors"
	"github.com/matzehuels/ringchart/pkg/pipeline"
)

// Query parameters read in addition to the filter facets.
const (
	paramWeighting = "weighting"
	paramScale     = "scale"
	paramTitle     = "title"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Themes    int       `json:"themes"`
	Barriers  int       `json:"barriers"`
	Resources int       `json:"resources"`
	LoadedAt  time.Time `json:"loaded_at"`
	Reloads   int       `json:"reloads"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := healthResponse{
		Status:    "ok",
		Themes:    len(s.ds.Themes),
		Barriers:  len(s.ds.Barriers),
		Resources: len(s.ds.Resources),
		LoadedAt:  s.loadedAt,
		Reloads:   s.reloads,
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := s.requestContext(r)
		defer cancel()

		opts, err := s.requestOptions(r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts.Formats = []string{format}

		ds := s.Dataset()
		d, err := s.runner.ComputeLayout(ctx, ds, opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		artifacts, err := s.runner.Render(ctx, d, ds, opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		w.Write(artifacts[format])
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, err := s.runner.ComputeLayout(ctx, s.Dataset(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	f := dataset.ParseFilter(r.URL.Query())
	writeJSON(w, http.StatusOK, f.Apply(s.Dataset()))
}

// requestOptions layers the query onto the base options.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.cfg.Options
	opts.Logger = s.logger
	opts.Filter = dataset.ParseFilter(q)

	if v := q.Get(paramWeighting); v != "" {
		if err := pipeline.ValidateWeighting(v); err != nil {
			return opts, err
		}
		opts.Weighting = v
	}
	if v := q.Get(paramScale); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v)
		}
		opts.Scale = scale
	}
	if v := q.Get(paramTitle); v != "" {
		opts.Title = v
	}
	return opts, nil
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if stderrors.Is(err, context.DeadlineExceeded) && errors.GetCode(err) == "" {
		err = errors.Wrap(errors.ErrCodeTimeout, err, "render timed out")
	}
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
