package server

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/query"
)

// filterParams maps query parameters of GET /v1/dogs to filter keys.
var filterParams = map[string]query.FilterKey{
	"name":      query.FilterName,
	"breed":     query.FilterBreed,
	"age":       query.FilterAge,
	"weight":    query.FilterWeight,
	"gender":    query.FilterGender,
	"available": query.FilterIsAvailable,
	"favorite":  query.FilterIsFavorite,
	"new":       query.FilterIsNew,
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

type sortRuleRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// listDogs runs a stateless query; the session's own filters are untouched.
func (s *Server) listDogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec := query.FilterSpec{}
	for param, key := range filterParams {
		values, ok := q[param]
		if !ok {
			continue
		}
		rule, err := query.ParseFilter(key, values...)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		spec = spec.With(rule)
	}
	var sorting query.SortSpec
	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		parsed, err := query.ParseSortSpec(raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		sorting = parsed
	}
	list := s.cat.Query(spec, sorting)
	if list == nil {
		list = []dogs.Dog{}
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (s *Server) getDog(w http.ResponseWriter, r *http.Request) {
	d, ok := s.cat.Dog(chi.URLParam(r, "id"))
	if !ok {
		s.fail(w, r, catalog.ErrDogNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	d, err := s.cat.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err = s.tolerate(w, err); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) markSeen(w http.ResponseWriter, r *http.Request) {
	d, err := s.cat.MarkSeen(r.Context(), chi.URLParam(r, "id"))
	if err = s.tolerate(w, err); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) removeDog(w http.ResponseWriter, r *http.Request) {
	err := s.cat.RemoveDog(r.Context(), chi.URLParam(r, "id"))
	if err = s.tolerate(w, err); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) facets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.cat.Facets())
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.cat.Stats())
}

func (s *Server) getSorting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.cat.Sorting().SortingValues())
}

func (s *Server) addSortKey(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.decodeSortRule(w, r)
	if !ok {
		return
	}
	err := s.cat.AddSortKey(r.Context(), rule.Key, rule.Direction)
	s.sortingChanged(w, r, err, http.StatusCreated)
}

func (s *Server) updateSortKey(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.decodeSortRule(w, r)
	if !ok {
		return
	}
	err := s.cat.UpdateSortKey(r.Context(), query.SortKey(chi.URLParam(r, "key")), rule.Key, rule.Direction)
	s.sortingChanged(w, r, err, http.StatusOK)
}

func (s *Server) removeSortKey(w http.ResponseWriter, r *http.Request) {
	err := s.cat.RemoveSortKey(r.Context(), query.SortKey(chi.URLParam(r, "key")))
	s.sortingChanged(w, r, err, http.StatusOK)
}

func (s *Server) resetSorting(w http.ResponseWriter, r *http.Request) {
	s.sortingChanged(w, r, s.cat.ResetSorting(r.Context()), http.StatusOK)
}

func (s *Server) reloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := s.tolerate(w, s.reload(r.Context())); err != nil {
		s.log.Warn("reload failed", zap.Error(err), zap.String("request_id", requestIDFrom(r.Context())))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, s.cat.Stats())
}

func (s *Server) decodeSortRule(w http.ResponseWriter, r *http.Request) (query.SortRule, bool) {
	var req sortRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return query.SortRule{}, false
	}
	rule, err := query.ParseSortRule(req.Key, req.Direction)
	if err != nil {
		s.fail(w, r, err)
		return query.SortRule{}, false
	}
	return rule, true
}

func (s *Server) sortingChanged(w http.ResponseWriter, r *http.Request, err error, status int) {
	if err = s.tolerate(w, err); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, status, s.cat.Sorting().SortingValues())
}

// tolerate swallows store write failures: the session already holds the
// change, so the response reports it with a Warning header.
func (s *Server) tolerate(w http.ResponseWriter, err error) error {
	if errors.Is(err, catalog.ErrPersist) {
		s.log.Warn("change not persisted", zap.Error(err))
		w.Header().Set("Warning", `199 kennel "change not persisted"`)
		return nil
	}
	return err
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrDogNotFound), errors.Is(err, catalog.ErrSortKeyNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrSortKeyExists):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrNotLoaded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, query.ErrUnknownFilterKey), errors.Is(err, query.ErrInvalidFilter),
		errors.Is(err, query.ErrUnknownSortKey), errors.Is(err, query.ErrInvalidDirection),
		errors.Is(err, query.ErrDuplicateSortKey):
		status = http.StatusBadRequest
	default:
		s.log.Error("request failed", zap.Error(err), zap.String("request_id", requestIDFrom(r.Context())))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error(), RequestID: requestIDFrom(r.Context())})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// writeJSON sends v with a blake3 ETag and answers a matching
// If-None-Match on GET with 304.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode response")
		return
	}
	body = append(body, '\n')
	sum := blake3.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	w.Header().Set("ETag", etag)
	if r.Method == http.MethodGet && etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		c := strings.TrimSpace(candidate)
		if c == etag || c == "*" || strings.TrimPrefix(c, "W/") == etag {
			return true
		}
	}
	return false
}
