package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/msalah0e/scentnet/internal/network"
	"github.com/msalah0e/scentnet/internal/provider"
	"github.com/msalah0e/scentnet/internal/render"
	"github.com/msalah0e/scentnet/internal/session"
	"github.com/msalah0e/scentnet/internal/validation"
)

const maxBody = 1 << 20

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// filterPatch changes only the fields present in the request.
type filterPatch struct {
	Accords       *[]string `json:"accords"`
	Brands        *[]string `json:"brands"`
	Seasons       *[]string `json:"seasons"`
	Occasions     *[]string `json:"occasions"`
	Genders       *[]string `json:"genders"`
	MinSimilarity *float64  `json:"minSimilarity"`
	TopAccords    *int      `json:"topAccords"`
	DisplayLimit  *int      `json:"displayLimit"`
}

func (p filterPatch) apply(s network.FilterState) network.FilterState {
	lists := []struct {
		facet network.Facet
		vals  *[]string
	}{
		{network.FacetAccord, p.Accords},
		{network.FacetBrand, p.Brands},
		{network.FacetSeason, p.Seasons},
		{network.FacetOccasion, p.Occasions},
		{network.FacetGender, p.Genders},
	}
	for _, l := range lists {
		if l.vals != nil {
			s = s.With(l.facet, *l.vals)
		}
	}
	if p.MinSimilarity != nil {
		s.MinSimilarity = *p.MinSimilarity
	}
	if p.TopAccords != nil {
		s.TopAccords = *p.TopAccords
	}
	if p.DisplayLimit != nil {
		s.DisplayLimit = *p.DisplayLimit
	}
	return s
}

type nodeRequest struct {
	ID string `json:"id" validate:"max=256"`
}

type toggleRequest struct {
	Facet string `json:"facet" validate:"required"`
	Value string `json:"value" validate:"required,max=256"`
}

type collectionRequest struct {
	On *bool `json:"on" validate:"required"`
}

type reloadRequest struct {
	MemberID *string `json:"memberId" validate:"omitempty,max=128"`
}

type facetsResponse struct {
	Facets network.Facets                `json:"facets"`
	Labels map[string]map[string]string `json:"labels"`
	Colors map[string]string            `json:"colors"`
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := &render.HTML{W: w, Live: true, Options: render.Options{Labels: s.explorer.Labels(), Title: s.opts.Title}}
	if err := page.Render(s.explorer.View()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("page render failed")
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status, _ := s.explorer.Status()
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "view": string(status)})
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.explorer.View())
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.explorer.Snapshot())
}

func (s *Server) facets(w http.ResponseWriter, r *http.Request) {
	f := s.explorer.Facets()
	l := s.explorer.Labels()
	colors := make(map[string]string, len(f.Accords))
	for _, a := range f.Accords {
		colors[a] = l.Color(a)
	}
	writeJSON(w, r, http.StatusOK, facetsResponse{Facets: f, Labels: l.Map(), Colors: colors})
}

func (s *Server) node(w http.ResponseWriter, r *http.Request) {
	n := s.opts.DetailLimit
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid n: %q", q))
			return
		}
		n = v
	}
	d, err := s.explorer.Details(chi.URLParam(r, "id"), n)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) filter(w http.ResponseWriter, r *http.Request) {
	var p filterPatch
	if !decode(w, r, &p, false) {
		return
	}
	if err := s.explorer.Update(p.apply); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.explorer.Snapshot())
}

// replaceFilter swaps in a whole filter state; omitted lists clear their
// facet.
func (s *Server) replaceFilter(w http.ResponseWriter, r *http.Request) {
	var next network.FilterState
	if !decode(w, r, &next, false) {
		return
	}
	if err := s.explorer.SetFilter(next); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.explorer.Snapshot())
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decode(w, r, &req, false) {
		return
	}
	f, err := network.ParseFacet(req.Facet)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := s.explorer.Toggle(f, req.Value); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.explorer.Snapshot())
}

func (s *Server) selectNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if !decode(w, r, &req, false) {
		return
	}
	if err := s.explorer.Select(req.ID); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.explorer.View())
}

func (s *Server) hover(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if !decode(w, r, &req, false) {
		return
	}
	if err := s.explorer.Hover(req.ID); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.explorer.View())
}

func (s *Server) collection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if !decode(w, r, &req, false) {
		return
	}
	s.explorer.SetCollectionOnly(*req.On)
	writeJSON(w, r, http.StatusOK, s.explorer.Snapshot())
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	var req reloadRequest
	if !decode(w, r, &req, true) {
		return
	}
	member := s.explorer.Snapshot().MemberID
	if req.MemberID != nil {
		member = *req.MemberID
	}
	// A closed tab must not abort a reload other clients wait on.
	if err := s.explorer.Load(context.WithoutCancel(r.Context()), member); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.explorer.Snapshot())
}

// decode reads a JSON body into v and validates it. It writes the error
// response itself and reports whether the handler should go on.
func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !(optional && errors.Is(err, io.EOF)) {
		writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := validation.Struct(v); err != nil {
		writeFailure(w, r, err)
		return false
	}
	return true
}

// writeFailure maps an explorer error to a status and code.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusUnprocessableEntity, "invalid_filter", err)
	case errors.Is(err, network.ErrNodeNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", err)
	case errors.Is(err, session.ErrNotSelectable):
		writeError(w, r, http.StatusConflict, "not_selectable", err)
	case errors.Is(err, network.ErrNoData):
		writeError(w, r, http.StatusConflict, "no_data", err)
	case errors.Is(err, session.ErrSuperseded):
		writeError(w, r, http.StatusConflict, "superseded", err)
	case errors.Is(err, provider.ErrLoadFailed):
		writeError(w, r, http.StatusBadGateway, "load_failed", err)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	resp := errorResponse{Error: err.Error(), Code: code}
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	ev := zerolog.Ctx(r.Context()).Debug()
	if status >= http.StatusInternalServerError {
		ev = zerolog.Ctx(r.Context()).Error()
	}
	ev.Err(err).Str("code", code).Int("status", status).Msg("request failed")
	writeJSON(w, r, status, resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("response encode failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("response write failed")
	}
}
