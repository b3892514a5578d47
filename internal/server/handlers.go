package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/matzehuels/photostrip/pkg/buildinfo"
	"github.com/matzehuels/photostrip/pkg/editor"
	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/gallery"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/render/sink"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// Response headers set by the render route.
const (
	HeaderSceneHash = "X-Scene-Hash"
	HeaderCache     = "X-Cache"
)

// RenderRequest is the body of POST /api/render. Exactly one of Template
// and TemplateID selects the layout.
type RenderRequest struct {
	Template   *strip.Record `json:"template,omitempty"`
	TemplateID string        `json:"templateId,omitempty"`
	Photos     []string      `json:"photos"`
	Quality    int           `json:"quality,omitempty"`
	Oversample float64       `json:"oversample,omitempty"`
	Copies     int           `json:"copies,omitempty"`
}

// SaveResponse is returned when a template is created.
type SaveResponse struct {
	ID string `json:"id"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatPNG
	}
	format = pipeline.NormalizeFormat(format)
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}

	var req RenderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	rec := req.Template
	switch {
	case rec != nil && req.TemplateID != "":
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "set template or templateId, not both"))
		return
	case req.TemplateID != "":
		if s.templates == nil {
			s.fail(w, r, errors.New(errors.ErrCodeUnsupported, "template storage is disabled"))
			return
		}
		loaded, err := s.templates.Load(r.Context(), req.TemplateID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		rec = loaded
	case rec == nil:
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "template is required"))
		return
	}
	if rec.Name == "" {
		rec.Name = "untitled"
	}

	ed := editor.New(
		editor.WithLogger(s.logger),
		editor.WithResolver(s.resolver),
		editor.WithRunner(s.runner),
		editor.WithExportDefaults(s.defaults.Oversample, s.defaults.Quality),
	)
	if err := ed.ApplyRecord(rec); err != nil {
		s.fail(w, r, err)
		return
	}
	ed.AddPhotos(req.Photos...)

	copies := req.Copies
	if copies == 0 {
		copies = s.defaults.Copies
	}
	res, err := ed.Export(r.Context(), pipeline.Options{
		Formats:    []string{format},
		Quality:    req.Quality,
		Oversample: req.Oversample,
		Copies:     copies,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cacheState := "miss"
	if res.CacheHit {
		cacheState = "hit"
	}
	data := res.Artifacts[format]
	h := w.Header()
	h.Set("Content-Type", gallery.ContentType(format))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sink.Filename(format)))
	h.Set(HeaderSceneHash, res.SceneHash)
	h.Set(HeaderCache, cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	list, err := s.templates.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []strip.Summary{}
	}
	render.JSON(w, r, list)
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	var rec strip.Record
	if err := s.decode(w, r, &rec); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.templates.Save(r.Context(), &rec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("saved template", "id", id, "name", rec.Name)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SaveResponse{ID: id})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	rec, err := s.templates.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, rec)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	if err := s.templates.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.templates == nil {
		s.fail(w, r, errors.New(errors.ErrCodeUnsupported, "template storage is disabled"))
		return false
	}
	return true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Code: code, Message: msg})
}
