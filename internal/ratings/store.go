// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

// Package ratings persists user star ratings. The store is the system of
// record the recommendation engine builds preference profiles from.
package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/subzero0008/cinematch/internal/recommend"
)

// ErrNotFound is returned when a rating does not exist.
var ErrNotFound = errors.New("ratings: not found")

// ErrInvalidUserID is returned for user IDs the key scheme cannot encode.
var ErrInvalidUserID = errors.New("ratings: invalid user id")

// Store is the rating persistence interface. Implemented by BadgerStore
// for production and by mocks in tests. It satisfies
// recommend.RatingSource.
type Store interface {
	// GetRatingsForUser returns every rating the user has, in stable
	// store order.
	GetRatingsForUser(ctx context.Context, userID string) ([]recommend.RatingSignal, error)

	// GetRating returns one rating, or ErrNotFound.
	GetRating(ctx context.Context, userID string, movieID int) (*recommend.RatingSignal, error)

	// SetRating creates or replaces a rating.
	SetRating(ctx context.Context, userID string, movieID int, value float64) error

	// DeleteRating removes a rating, returning ErrNotFound when it does
	// not exist.
	DeleteRating(ctx context.Context, userID string, movieID int) error

	// Close releases the underlying storage.
	Close() error
}

// validateUserID rejects IDs that would collide in the key scheme.
func validateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUserID)
	}
	for _, r := range userID {
		if r == ':' {
			return fmt.Errorf("%w: %q contains ':'", ErrInvalidUserID, userID)
		}
	}
	return nil
}
