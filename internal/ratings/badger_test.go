// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package ratings

import (
	"context"
	"errors"
	"testing"

	"github.com/subzero0008/cinematch/internal/config"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := NewBadgerStore(&config.RatingsConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return store
}

func TestSetAndGetRating(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetRating(ctx, "u1", 42, 4.5); err != nil {
		t.Fatalf("Failed to set rating: %v", err)
	}

	got, err := store.GetRating(ctx, "u1", 42)
	if err != nil {
		t.Fatalf("Failed to get rating: %v", err)
	}
	if got.MovieID != 42 || got.Value != 4.5 {
		t.Errorf("Unexpected rating: %+v", got)
	}
	if got.RatedAt.IsZero() {
		t.Error("Expected RatedAt to be set")
	}
}

func TestSetRatingOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetRating(ctx, "u1", 42, 3); err != nil {
		t.Fatalf("Failed to set rating: %v", err)
	}
	if err := store.SetRating(ctx, "u1", 42, 5); err != nil {
		t.Fatalf("Failed to update rating: %v", err)
	}

	got, err := store.GetRating(ctx, "u1", 42)
	if err != nil {
		t.Fatalf("Failed to get rating: %v", err)
	}
	if got.Value != 5 {
		t.Errorf("Expected updated value 5, got %f", got.Value)
	}

	signals, err := store.GetRatingsForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to list ratings: %v", err)
	}
	if len(signals) != 1 {
		t.Errorf("Expected single rating after overwrite, got %d", len(signals))
	}
}

func TestGetRatingsForUserIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for movieID, value := range map[int]float64{1: 4, 2: 5, 3: 2} {
		if err := store.SetRating(ctx, "u1", movieID, value); err != nil {
			t.Fatalf("Failed to set rating: %v", err)
		}
	}
	if err := store.SetRating(ctx, "u2", 9, 5); err != nil {
		t.Fatalf("Failed to set rating: %v", err)
	}

	signals, err := store.GetRatingsForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to list ratings: %v", err)
	}
	if len(signals) != 3 {
		t.Errorf("Expected 3 ratings for u1, got %d", len(signals))
	}
	for _, s := range signals {
		if s.MovieID == 9 {
			t.Error("Another user's rating leaked into the listing")
		}
	}
}

func TestGetRatingsForUserEmpty(t *testing.T) {
	store := newTestStore(t)

	signals, err := store.GetRatingsForUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if signals == nil || len(signals) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", signals)
	}
}

func TestDeleteRating(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetRating(ctx, "u1", 42, 4); err != nil {
		t.Fatalf("Failed to set rating: %v", err)
	}
	if err := store.DeleteRating(ctx, "u1", 42); err != nil {
		t.Fatalf("Failed to delete rating: %v", err)
	}

	if _, err := store.GetRating(ctx, "u1", 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteMissingRating(t *testing.T) {
	store := newTestStore(t)

	if err := store.DeleteRating(context.Background(), "u1", 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInvalidUserID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, userID := range []string{"", "a:b"} {
		if err := store.SetRating(ctx, userID, 1, 4); !errors.Is(err, ErrInvalidUserID) {
			t.Errorf("Expected ErrInvalidUserID for %q, got %v", userID, err)
		}
		if _, err := store.GetRatingsForUser(ctx, userID); !errors.Is(err, ErrInvalidUserID) {
			t.Errorf("Expected ErrInvalidUserID for %q, got %v", userID, err)
		}
	}
}
