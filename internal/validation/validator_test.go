// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// surveyLike mirrors the shape of the survey request for validation tests.
type surveyLike struct {
	Occasion string   `validate:"required,max=64"`
	Genres   []string `validate:"required,min=1,dive,required,max=64"`
	Mood     string   `validate:"max=64"`
}

type ratingLike struct {
	Value float64 `validate:"required,gte=1,lte=5"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{
			name:  "survey with all fields",
			input: surveyLike{Occasion: "Date Night", Genres: []string{"Comedy", "Drama"}, Mood: "Relaxed"},
		},
		{
			name:  "survey with single genre",
			input: surveyLike{Occasion: "Solo Evening", Genres: []string{"Horror"}},
		},
		{
			name:  "rating at lower bound",
			input: ratingLike{Value: 1},
		},
		{
			name:  "rating at upper bound",
			input: ratingLike{Value: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if verr := ValidateStruct(tt.input); verr != nil {
				t.Errorf("ValidateStruct() = %v, want nil", verr)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{
			name:      "missing occasion",
			input:     surveyLike{Genres: []string{"Comedy"}},
			wantField: "Occasion",
			wantTag:   "required",
		},
		{
			name:      "missing genres",
			input:     surveyLike{Occasion: "Date Night"},
			wantField: "Genres",
			wantTag:   "required",
		},
		{
			name:      "empty genres slice",
			input:     surveyLike{Occasion: "Date Night", Genres: []string{}},
			wantField: "Genres",
			wantTag:   "min",
		},
		{
			name:      "empty genre element",
			input:     surveyLike{Occasion: "Date Night", Genres: []string{"Comedy", ""}},
			wantField: "Genres[1]",
			wantTag:   "required",
		},
		{
			name:      "occasion too long",
			input:     surveyLike{Occasion: strings.Repeat("x", 65), Genres: []string{"Comedy"}},
			wantField: "Occasion",
			wantTag:   "max",
		},
		{
			name:      "rating below range",
			input:     ratingLike{Value: 0.5},
			wantField: "Value",
			wantTag:   "gte",
		},
		{
			name:      "rating above range",
			input:     ratingLike{Value: 5.5},
			wantField: "Value",
			wantTag:   "lte",
		},
		{
			name:      "zero rating fails required",
			input:     ratingLike{},
			wantField: "Value",
			wantTag:   "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}

			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("Errors() returned %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() == "" {
				t.Error("Error() should not be empty")
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	verr := ValidateStruct(surveyLike{})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	if len(verr.Errors()) != 2 {
		t.Fatalf("Errors() returned %d errors, want 2: %v", len(verr.Errors()), verr)
	}

	msg := verr.Error()
	if !strings.Contains(msg, "Occasion") || !strings.Contains(msg, "Genres") {
		t.Errorf("Error() = %q, want both field names mentioned", msg)
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	verr := ValidateStruct(ratingLike{Value: 7})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "Value" {
		t.Errorf("Details[field] = %v, want Value", apiErr.Details["field"])
	}
	if apiErr.Details["tag"] != "lte" {
		t.Errorf("Details[tag] = %v, want lte", apiErr.Details["tag"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	verr := ValidateStruct(surveyLike{})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T, want []map[string]interface{}", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("Details[fields] has %d entries, want 2", len(fields))
	}
}

func TestTranslateError_Messages(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{
			name:  "required message",
			input: surveyLike{Genres: []string{"Comedy"}},
			want:  "Occasion is required",
		},
		{
			name:  "lte message includes param",
			input: ratingLike{Value: 9},
			want:  "Value must be less than or equal to 5",
		},
		{
			name:  "gte message includes param",
			input: ratingLike{Value: 0.5},
			want:  "Value must be greater than or equal to 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if got := verr.Errors()[0].Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
