// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/subzero0008/cinematch/internal/logging"
	"github.com/subzero0008/cinematch/internal/ratings"
	"github.com/subzero0008/cinematch/internal/recommend"
	"github.com/subzero0008/cinematch/internal/survey"
	"github.com/subzero0008/cinematch/internal/validation"
)

// maxBodyBytes bounds request bodies; survey submissions are small.
const maxBodyBytes = 64 * 1024

// Handler carries the service dependencies for all HTTP endpoints.
type Handler struct {
	engine  *recommend.Engine
	surveys *survey.Service
	store   ratings.Store
	logger  zerolog.Logger
	started time.Time
}

// NewHandler creates the endpoint handler set.
func NewHandler(engine *recommend.Engine, surveys *survey.Service, store ratings.Store) *Handler {
	return &Handler{
		engine:  engine,
		surveys: surveys,
		store:   store,
		logger:  logging.With().Str("component", "api").Logger(),
		started: time.Now(),
	}
}

// Recommendations handles GET /api/v1/recommendations/{userID}.
// This path never fails; degraded results come from the fallback tiers.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := h.userIDParam(rw, r)
	if !ok {
		return
	}
	count, ok := countParam(rw, r)
	if !ok {
		return
	}

	results := h.engine.GetPersonalizedRecommendations(r.Context(), userID, count)
	rw.SuccessWithCount(results, len(results))
}

// AdminRecommendations handles GET /api/v1/admin/recommendations/{userID},
// the long-cached inspection path for another user's recommendations.
func (h *Handler) AdminRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := h.userIDParam(rw, r)
	if !ok {
		return
	}
	count, ok := countParam(rw, r)
	if !ok {
		return
	}

	results := h.engine.GetAdminRecommendations(r.Context(), userID, count)
	rw.SuccessWithCount(results, len(results))
}

// DiscoverSurvey handles POST /api/v1/discover/survey.
func (h *Handler) DiscoverSurvey(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req survey.Request
	if !decodeBody(rw, r, &req) {
		return
	}

	resp, err := h.surveys.GetSurveyRecommendations(r.Context(), &req)
	if err != nil {
		var vErr *validation.RequestValidationError
		if errors.As(err, &vErr) {
			rw.ValidationError("Invalid survey request", vErr.Errors())
			return
		}
		h.logger.Error().Err(err).Msg("Survey request failed")
		rw.InternalError("Failed to process survey")
		return
	}

	rw.SuccessWithCount(resp, len(resp.Movies))
}

// ListRatings handles GET /api/v1/ratings/{userID}.
func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := h.userIDParam(rw, r)
	if !ok {
		return
	}

	signals, err := h.store.GetRatingsForUser(r.Context(), userID)
	if err != nil {
		rw.StorageError(err)
		return
	}

	rw.SuccessWithCount(signals, len(signals))
}

// ratingRequest is the PUT rating body.
type ratingRequest struct {
	// Value is the star rating, whole or half stars between 1 and 5.
	Value float64 `json:"value" validate:"required,gte=1,lte=5"`
}

// UpsertRating handles PUT /api/v1/ratings/{userID}/{movieID}. Creating
// and updating are the same operation; both invalidate the user's
// recommendation caches.
func (h *Handler) UpsertRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := h.userIDParam(rw, r)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(rw, r)
	if !ok {
		return
	}

	var req ratingRequest
	if !decodeBody(rw, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		var vErr *validation.RequestValidationError
		if errors.As(err, &vErr) {
			rw.ValidationError("Invalid rating", vErr.Errors())
			return
		}
		rw.BadRequest("Invalid rating")
		return
	}
	if math.Mod(req.Value*2, 1) != 0 {
		rw.BadRequest("Rating value must be in half-star increments")
		return
	}

	if err := h.store.SetRating(r.Context(), userID, movieID, req.Value); err != nil {
		rw.StorageError(err)
		return
	}
	h.engine.InvalidateUser(userID)

	rating, err := h.store.GetRating(r.Context(), userID, movieID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(rating)
}

// DeleteRating handles DELETE /api/v1/ratings/{userID}/{movieID}.
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := h.userIDParam(rw, r)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(rw, r)
	if !ok {
		return
	}

	if err := h.store.DeleteRating(r.Context(), userID, movieID); err != nil {
		if errors.Is(err, ratings.ErrNotFound) {
			rw.NotFound("Rating not found")
			return
		}
		rw.StorageError(err)
		return
	}
	h.engine.InvalidateUser(userID)

	rw.NoContent()
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

// userIDParam extracts and validates the userID path parameter.
func (h *Handler) userIDParam(rw *ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("Missing user ID")
		return "", false
	}
	for _, c := range userID {
		if c == ':' {
			rw.BadRequest("Invalid user ID")
			return "", false
		}
	}
	return userID, true
}

// movieIDParam extracts the numeric movieID path parameter.
func movieIDParam(rw *ResponseWriter, r *http.Request) (int, bool) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || movieID <= 0 {
		rw.BadRequest("Invalid movie ID")
		return 0, false
	}
	return movieID, true
}

// countParam parses the optional count query parameter. The engine
// clamps the value to its bounds; only non-numeric input is rejected.
func countParam(rw *ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return 0, true
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		rw.BadRequest("Invalid count parameter")
		return 0, false
	}
	return count, true
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("Invalid JSON body")
		return false
	}
	return true
}
