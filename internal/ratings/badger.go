// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package ratings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/subzero0008/cinematch/internal/config"
	"github.com/subzero0008/cinematch/internal/logging"
	"github.com/subzero0008/cinematch/internal/recommend"
)

// ratingKeyPrefix namespaces rating keys within the shared database.
const ratingKeyPrefix = "rating:"

// storedRating is the persisted value shape. The movie ID is duplicated
// from the key so prefix scans do not have to parse keys.
type storedRating struct {
	MovieID int       `json:"movie_id"`
	Value   float64   `json:"value"`
	RatedAt time.Time `json:"rated_at"`
}

// BadgerStore persists ratings in BadgerDB. Safe for concurrent use.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadgerStore opens the rating database at the configured path, or
// in memory when configured for tests and ephemeral deployments.
func NewBadgerStore(cfg *config.RatingsConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	} else {
		opts = badger.DefaultOptions(cfg.Path).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open rating store: %w", err)
	}

	return &BadgerStore{
		db:     db,
		logger: logging.With().Str("component", "ratings").Logger(),
	}, nil
}

// ratingKey builds the key for one user's rating of one movie.
func ratingKey(userID string, movieID int) []byte {
	return []byte(ratingKeyPrefix + userID + ":" + strconv.Itoa(movieID))
}

// userPrefix builds the scan prefix covering all of one user's ratings.
func userPrefix(userID string) []byte {
	return []byte(ratingKeyPrefix + userID + ":")
}

// GetRatingsForUser implements Store.
func (s *BadgerStore) GetRatingsForUser(ctx context.Context, userID string) ([]recommend.RatingSignal, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	signals := []recommend.RatingSignal{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = userPrefix(userID)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var stored storedRating
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			})
			if err != nil {
				return fmt.Errorf("failed to decode rating %s: %w", it.Item().Key(), err)
			}

			signals = append(signals, recommend.RatingSignal{
				MovieID: stored.MovieID,
				Value:   stored.Value,
				RatedAt: stored.RatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings for user %s: %w", userID, err)
	}

	return signals, nil
}

// GetRating implements Store.
func (s *BadgerStore) GetRating(ctx context.Context, userID string, movieID int) (*recommend.RatingSignal, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var stored storedRating
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(ratingKey(userID, movieID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return &recommend.RatingSignal{
		MovieID: stored.MovieID,
		Value:   stored.Value,
		RatedAt: stored.RatedAt,
	}, nil
}

// SetRating implements Store. Creating and updating are the same write.
func (s *BadgerStore) SetRating(ctx context.Context, userID string, movieID int, value float64) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	stored := storedRating{
		MovieID: movieID,
		Value:   value,
		RatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode rating: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(ratingKey(userID, movieID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store rating: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("movie_id", movieID).
		Float64("value", value).
		Msg("Stored rating")

	return nil
}

// DeleteRating implements Store.
func (s *BadgerStore) DeleteRating(ctx context.Context, userID string, movieID int) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	key := ratingKey(userID, movieID)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("movie_id", movieID).
		Msg("Deleted rating")

	return nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
