// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package recommend

import (
	"reflect"
	"testing"
)

func TestWeightMapNormalize(t *testing.T) {
	m := NewWeightMap()
	m.Add("Action", 2)
	m.Add("Comedy", 1)
	m.Normalize()

	if got := m.Get("Action"); got != 100 {
		t.Errorf("Expected max weight 100 after normalize, got %d", got)
	}
	if got := m.Get("Comedy"); got != 50 {
		t.Errorf("Expected Comedy weight 50, got %d", got)
	}
}

func TestWeightMapNormalizeEmpty(t *testing.T) {
	m := NewWeightMap()
	m.Normalize() // must not panic or divide by zero
	if m.Len() != 0 {
		t.Errorf("Expected empty map, got %d entries", m.Len())
	}
}

func TestWeightMapNormalizeMaxAlwaysHundred(t *testing.T) {
	m := NewWeightMap()
	m.Add("a", 3)
	m.Add("b", 7)
	m.Add("c", 13)
	m.Normalize()

	if got := m.Max(); got != 100 {
		t.Errorf("Expected max 100 after normalize, got %d", got)
	}
}

func TestWeightMapTopTiesKeepInsertionOrder(t *testing.T) {
	m := NewWeightMap()
	m.Add("first", 5)
	m.Add("second", 5)
	m.Add("third", 9)

	got := m.Top(3)
	want := []string{"third", "first", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestWeightMapTopTruncates(t *testing.T) {
	m := NewWeightMap()
	m.Add("a", 1)
	m.Add("b", 2)
	m.Add("c", 3)
	m.Add("d", 4)

	if got := m.Top(2); len(got) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(got))
	}
}

func TestWeightMapAddAccumulates(t *testing.T) {
	m := NewWeightMap()
	m.Add("Action", 2)
	m.Add("Action", 1)

	if got := m.Get("Action"); got != 3 {
		t.Errorf("Expected accumulated weight 3, got %d", got)
	}
	if m.Len() != 1 {
		t.Errorf("Expected single key, got %d", m.Len())
	}
}

func TestWeightMapIgnoresEmptyAndNonPositive(t *testing.T) {
	m := NewWeightMap()
	m.Add("", 5)
	m.Add("x", 0)
	m.Add("y", -1)

	if m.Len() != 0 {
		t.Errorf("Expected no entries, got %d", m.Len())
	}
}

func TestPreferenceProfileAccessors(t *testing.T) {
	p := NewPreferenceProfile()
	for i, g := range []string{"Action", "Comedy", "Drama", "Horror"} {
		p.Genres.Add(g, 10-i)
	}
	p.Actors.Add("A", 3)
	p.Directors.Add("D1", 2)
	p.Directors.Add("D2", 2)
	p.Directors.Add("D3", 1)

	if got := p.TopGenres(); len(got) != 3 || got[0] != "Action" {
		t.Errorf("Unexpected top genres: %v", got)
	}
	if got := p.TopDirectors(); !reflect.DeepEqual(got, []string{"D1", "D2"}) {
		t.Errorf("Unexpected top directors: %v", got)
	}
}

func TestPreferenceProfileIsEmpty(t *testing.T) {
	p := NewPreferenceProfile()
	if !p.IsEmpty() {
		t.Error("Expected fresh profile to be empty")
	}

	p.Genres.Add("Action", 1)
	if p.IsEmpty() {
		t.Error("Expected profile with genre weight to be non-empty")
	}
}
