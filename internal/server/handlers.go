package server

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/apecglobal/logofield/internal/config"
	"github.com/apecglobal/logofield/pkg/buildinfo"
	apperr "github.com/apecglobal/logofield/pkg/errors"
	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/pipeline"
	"github.com/apecglobal/logofield/pkg/placement"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// =============================================================================
// Placements
// =============================================================================

type placementRequest struct {
	Count       int           `json:"count" validate:"gte=0,lte=1000"`
	Seed        uint64        `json:"seed"`
	MinDistance float64       `json:"min_distance" validate:"gte=0,lte=100"`
	MaxAttempts int           `json:"max_attempts" validate:"omitempty,gte=1,lte=10000"`
	SafeZones   []zoneRequest `json:"safe_zones" validate:"omitempty,max=100,dive"`
}

type zoneRequest struct {
	Left   float64 `json:"left" validate:"gte=0,lte=100"`
	Right  float64 `json:"right" validate:"gte=0,lte=100"`
	Top    float64 `json:"top" validate:"gte=0,lte=100"`
	Bottom float64 `json:"bottom" validate:"gte=0,lte=100"`
}

type placementResponse struct {
	Count     int              `json:"count"`
	Seed      uint64           `json:"seed"`
	Positions []placedPosition `json:"positions"`
	Stats     placement.Stats  `json:"stats"`
}

type placedPosition struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
	Tier string  `json:"tier"`
}

// handlePlacementsQuery serves GET /placements. Zones are repeated
// zone=left,right,top,bottom parameters; zone=none disables them.
func (s *Server) handlePlacementsQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var req placementRequest
	var err error
	if req.Count, err = queryInt(q, "count"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Seed, err = queryUint(q, "seed"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.MinDistance, err = queryFloat(q, "min_distance"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.MaxAttempts, err = queryInt(q, "max_attempts"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if zones, ok := q["zone"]; ok {
		req.SafeZones = []zoneRequest{}
		for _, raw := range zones {
			if raw == "none" {
				continue
			}
			z, err := config.ParseZone(raw)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			req.SafeZones = append(req.SafeZones, zoneRequest(z))
		}
	}
	s.place(w, r, req)
}

// handlePlacementsBody serves POST /placements with a JSON body.
func (s *Server) handlePlacementsBody(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	s.place(w, r, req)
}

func (s *Server) place(w http.ResponseWriter, r *http.Request, req placementRequest) {
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, invalid(err))
		return
	}

	opts := placement.Options{
		MinDistance: req.MinDistance,
		MaxAttempts: req.MaxAttempts,
		SafeZones:   s.cfg.Layout.SafeZones,
		Logger:      s.logger,
	}
	if opts.MinDistance == 0 {
		opts.MinDistance = s.cfg.Layout.MinDistance
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = s.cfg.Layout.MaxAttempts
	}
	if req.SafeZones != nil {
		opts.SafeZones = make([]placement.SafeZone, len(req.SafeZones))
		for i, z := range req.SafeZones {
			opts.SafeZones[i] = placement.SafeZone(z)
		}
	}

	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	p := placement.Place(req.Count, placement.NewRand(seed), &opts)

	resp := placementResponse{
		Count:     req.Count,
		Seed:      seed,
		Positions: make([]placedPosition, len(p.Positions)),
		Stats:     p.Stats(),
	}
	for i, pos := range p.Positions {
		resp.Positions[i] = placedPosition{Left: pos.Left, Top: pos.Top, Tier: p.Tiers[i].String()}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Tenants
// =============================================================================

type tenantResponse struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Source   string `json:"source"`
	Pinned   bool   `json:"pinned"`
	PinID    string `json:"pin_id,omitempty"`
	PinCount int    `json:"pin_count,omitempty"`
}

func (s *Server) handleTenants(w http.ResponseWriter, r *http.Request) {
	pins := map[string]layout.Layout{}
	if s.runner.Store != nil {
		list, err := s.runner.Store.List(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		for _, l := range list {
			pins[l.Tenant] = l
		}
	}

	out := make([]tenantResponse, len(s.cfg.Tenants))
	for i := range s.cfg.Tenants {
		t := &s.cfg.Tenants[i]
		out[i] = tenantResponse{Name: t.Name, Title: t.Title, Source: t.SourceKind()}
		if pin, ok := pins[t.Name]; ok {
			out[i].Pinned = true
			out[i].PinID = pin.ID
			out[i].PinCount = pin.Count
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// tenantOptions resolves the {tenant} URL parameter into validated pipeline
// options. refresh=1 bypasses the entity cache.
func (s *Server) tenantOptions(r *http.Request) (pipeline.Options, error) {
	t, err := s.cfg.Tenant(chi.URLParam(r, "tenant"))
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := s.cfg.Options(t, s.runner.Cache)
	opts.Logger = s.logger
	opts.Refresh = queryBool(r.URL.Query(), "refresh")
	return opts, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.tenantOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, invalid(err))
		return
	}
	l, err := s.runner.Layout(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := layout.Marshal(l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setLayoutHeaders(w, l)
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatJSON])
	w.Write(data)
}

// handleSplash renders the tenant's splash page. Query parameters: zones=1
// draws the safe zones, labels=1 adds names, scale sets the raster scale.
func (s *Server) handleSplash(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "unsupported format %q", format))
		return
	}
	opts, err := s.tenantOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	opts.Formats = []string{format}
	opts.ShowZones = queryBool(q, "zones")
	opts.Labels = queryBool(q, "labels")
	if opts.Scale, err = queryFloat(q, "scale"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, invalid(err))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setLayoutHeaders(w, result.Layout)
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Write(result.Artifacts[format])
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		s.writeError(w, r, errNoStore)
		return
	}
	opts, err := s.tenantOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, invalid(err))
		return
	}
	l, err := s.runner.Pin(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setLayoutHeaders(w, l)
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUnpin(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		s.writeError(w, r, errNoStore)
		return
	}
	t, err := s.cfg.Tenant(chi.URLParam(r, "tenant"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.runner.Unpin(r.Context(), t.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func setLayoutHeaders(w http.ResponseWriter, l layout.Layout) {
	w.Header().Set("X-Layout-Id", l.ID)
	w.Header().Set("X-Layout-Pinned", strconv.FormatBool(l.Pinned))
}

// =============================================================================
// Query helpers
// =============================================================================

func queryInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func queryUint(q url.Values, key string) (uint64, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "%s must be an unsigned integer, got %q", key, raw)
	}
	return v, nil
}

func queryFloat(q url.Values, key string) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "%s must be a number, got %q", key, raw)
	}
	return v, nil
}

func queryBool(q url.Values, key string) bool {
	v, _ := strconv.ParseBool(q.Get(key))
	return v
}
