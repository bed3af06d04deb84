package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sig-0/exilian/dataset"
	"github.com/sig-0/exilian/search"
	"github.com/sig-0/exilian/storage/types"
)

var (
	errInvalidLeague   = errors.New("invalid league")
	errInvalidCategory = errors.New("invalid category")
	errInvalidType     = errors.New("invalid type")
	errInvalidName     = errors.New("invalid name")

	errNoDataAvailable = errors.New("no data available")
	errPriceNotFound   = errors.New("price not found")
)

func (s *Server) Leagues(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, &ListResponse{
		Default: types.Leagues.Default.String(),
		Results: types.Leagues.Strings(),
	})
}

func (s *Server) Categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, &ListResponse{
		Default: types.Categories.Default.String(),
		Results: types.Categories.Strings(),
	})
}

func (s *Server) CategoryTypes(w http.ResponseWriter, r *http.Request) {
	category, ok := types.Categories.Parse(pathParam(r, "category"))
	if !ok {
		writeError(w, http.StatusBadRequest, errInvalidCategory)

		return
	}

	valid := category.Types()

	writeJSON(w, http.StatusOK, &ListResponse{
		Default: valid.Default.String(),
		Results: valid.Strings(),
	})
}

func (s *Server) Prices(w http.ResponseWriter, r *http.Request) {
	key, err := parseKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	var (
		query    = strings.TrimSpace(r.URL.Query().Get("search"))
		snapshot = s.loader.Load(r.Context(), key)
		state    = s.loader.State(snapshot)
		matches  = search.Search(snapshot, query)
	)

	resp := &PricesResponse{
		Key:     key,
		Updated: snapshot.Updated,
		State:   state,
		Stale:   state == dataset.StateStale,
		Results: make([]PriceEntry, 0, len(matches)),
	}

	for _, m := range matches {
		resp.Results = append(resp.Results, toEntry(m))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Price(w http.ResponseWriter, r *http.Request) {
	key, err := parseKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	name := pathParam(r, "name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, errInvalidName)

		return
	}

	snapshot := s.loader.Load(r.Context(), key)
	if !snapshot.HasData() {
		s.logger.Debug(
			"no data available",
			"key", key.String(),
		)

		writeError(w, http.StatusServiceUnavailable, errNoDataAvailable)

		return
	}

	line, found := search.FindExact(snapshot, name)
	if !found {
		writeError(w, http.StatusNotFound, errPriceNotFound)

		return
	}

	state := s.loader.State(snapshot)

	writeJSON(w, http.StatusOK, &PriceResponse{
		Key:     key,
		Updated: snapshot.Updated,
		State:   state,
		Stale:   state == dataset.StateStale,
		Result:  toEntry(line),
		Line:    line,
	})
}

// parseKey strictly parses the league, category and type route params
func parseKey(r *http.Request) (types.Key, error) {
	league, ok := types.Leagues.Parse(pathParam(r, "league"))
	if !ok {
		return types.Key{}, errInvalidLeague
	}

	category, ok := types.Categories.Parse(pathParam(r, "category"))
	if !ok {
		return types.Key{}, errInvalidCategory
	}

	typ, ok := category.Types().Parse(pathParam(r, "type"))
	if !ok {
		return types.Key{}, errInvalidType
	}

	return types.Key{
		League:   league,
		Category: category,
		Type:     typ,
	}, nil
}

// pathParam returns the unescaped route param.
// chi routes on the raw path whenever the request carries one,
// and a segment that does not unescape yields ""
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}

	unescaped, err := url.PathUnescape(value)
	if err != nil {
		return ""
	}

	return unescaped
}

func toEntry(r types.Record) PriceEntry {
	return PriceEntry{
		Name:       r.DisplayName(),
		ChaosValue: r.Price(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
