package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/devscope/pkg/domain"
	"github.com/umputun/devscope/pkg/repository"
)

// listDigestsHandler returns recent digests, optionally filtered by type
func (s *Server) listDigestsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dtype := domain.DigestType(r.URL.Query().Get("type"))
	limit := intQuery(r, "limit", 20)

	digests, err := s.digests.ListDigests(ctx, dtype, limit)
	if err != nil {
		log.Printf("[ERROR] failed to list digests: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"digests": digests, "count": len(digests)})
}

// getDigestHandler returns a single digest by numeric id
func (s *Server) getDigestHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		renderError(w, r, fmt.Errorf("invalid digest ID"), http.StatusBadRequest)
		return
	}

	digest, err := s.digests.GetDigest(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			renderError(w, r, fmt.Errorf("digest %d not found", id), http.StatusNotFound)
			return
		}
		log.Printf("[ERROR] failed to get digest %d: %v", id, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, digest)
}

// listOpportunitiesHandler returns stored opportunities matching query filters
func (s *Server) listOpportunitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := domain.OpportunityFilter{
		MinConfidence: intQuery(r, "min_confidence", 0),
		TargetBuyer:   r.URL.Query().Get("target_buyer"),
		MarketType:    r.URL.Query().Get("market_type"),
		Limit:         intQuery(r, "limit", 50),
		Offset:        intQuery(r, "offset", 0),
	}

	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		since, err := time.Parse(time.DateOnly, sinceStr)
		if err != nil {
			renderError(w, r, fmt.Errorf("invalid since date, expected YYYY-MM-DD"), http.StatusBadRequest)
			return
		}
		filter.Since = since
	}

	opportunities, total, err := s.opportunities.GetOpportunities(ctx, filter)
	if err != nil {
		log.Printf("[ERROR] failed to list opportunities: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"opportunities": opportunities,
		"total":         total,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})
}

// getOpportunityHandler returns the latest version of an opportunity by slug
func (s *Server) getOpportunityHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	opp, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			renderError(w, r, fmt.Errorf("opportunity %q not found", id), http.StatusNotFound)
			return
		}
		log.Printf("[ERROR] failed to get opportunity %q: %v", id, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, opp)
}

// getRunHandler returns metadata for a single extraction run
func (s *Server) getRunHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		renderError(w, r, fmt.Errorf("invalid run ID"), http.StatusBadRequest)
		return
	}

	run, err := s.opportunities.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			renderError(w, r, fmt.Errorf("run %d not found", id), http.StatusNotFound)
			return
		}
		log.Printf("[ERROR] failed to get run %d: %v", id, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, run)
}

// trendsHandler returns opportunity confidence history across runs
func (s *Server) trendsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	minRuns := intQuery(r, "min_runs", 2)
	trends, err := s.opportunities.GetTrends(ctx, minRuns)
	if err != nil {
		log.Printf("[ERROR] failed to get trends: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"trends": trends, "count": len(trends)})
}

// statsHandler returns corpus statistics
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.items.Stats(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to get stats: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, stats)
}

// intQuery parses an integer query parameter, falling back to def on absence
// or garbage
func intQuery(r *http.Request, name string, def int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}
