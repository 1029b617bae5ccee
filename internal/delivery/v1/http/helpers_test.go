package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tendermesh/matching-backend/pkg/e"
)

func TestParseValueToPaise(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{
			name:  "whole rupees",
			input: "2500000",
			want:  250000000,
		},
		{
			name:  "two decimal places",
			input: "2500000.50",
			want:  250000050,
		},
		{
			name:  "one decimal place",
			input: "10.5",
			want:  1050,
		},
		{
			name:  "zero",
			input: "0",
			want:  0,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: e.ErrInvalidEstimatedValue,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: e.ErrInvalidEstimatedValue,
		},
		{
			name:    "not a number",
			input:   "ten lakhs",
			wantErr: e.ErrInvalidEstimatedValue,
		},
		{
			name:    "negative value",
			input:   "-100",
			wantErr: e.ErrInvalidEstimatedValue,
		},
		{
			name:    "exceeds limit",
			input:   "1000000000001",
			wantErr: e.ErrInvalidEstimatedValue,
		},
		{
			name:    "too many decimal places",
			input:   "100.123",
			wantErr: e.ErrValuePrecision,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := parseValueToPaise(test.input)

			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("parseValueToPaise(%q) err = %v, want %v", test.input, err, test.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("parseValueToPaise(%q): %v", test.input, err)
			}
			if got != test.want {
				t.Errorf("parseValueToPaise(%q) = %d, want %d", test.input, got, test.want)
			}
		})
	}
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", e.ErrStatusBadRequest, http.StatusBadRequest},
		{"invalid top_k", e.ErrInvalidTopK, http.StatusBadRequest},
		{"invalid rating", e.ErrInvalidRating, http.StatusBadRequest},
		{"id collision", e.ErrIDCollision, http.StatusConflict},
		{"vendor not found", e.ErrVendorNotFound, http.StatusNotFound},
		{"tender not found", e.ErrTenderNotFound, http.StatusNotFound},
		{"wrapped sentinel", e.Wrap("VendorUseCase.GetVendor", e.ErrVendorNotFound), http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, _ := ToHTTPResponse(test.err)
			if code != test.want {
				t.Errorf("ToHTTPResponse(%v) = %d, want %d", test.err, code, test.want)
			}
		})
	}
}

func TestTenderModelToDomainDefaults(t *testing.T) {
	model := TenderModel{
		TenderID:    "T1",
		TenderTitle: "Supply",
		Industry:    "Steel",
	}

	tender, err := model.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}

	if tender.StatePreference != "pan_india" {
		t.Errorf("StatePreference = %q, want pan_india by default", tender.StatePreference)
	}
	if tender.EstimatedValue != nil {
		t.Errorf("EstimatedValue = %v, want nil when absent", tender.EstimatedValue)
	}
}

func TestTenderModelToDomainEstimatedValue(t *testing.T) {
	model := TenderModel{
		TenderID:       "T1",
		TenderTitle:    "Supply",
		Industry:       "Steel",
		EstimatedValue: "100.25",
	}

	tender, err := model.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}

	if tender.EstimatedValue == nil || *tender.EstimatedValue != 10025 {
		t.Errorf("EstimatedValue = %v, want 10025 paise", tender.EstimatedValue)
	}
}

func TestTenderModelToDomainInvalidValue(t *testing.T) {
	model := TenderModel{
		TenderID:       "T1",
		TenderTitle:    "Supply",
		Industry:       "Steel",
		EstimatedValue: "not-a-number",
	}

	if _, err := model.toDomain(); !errors.Is(err, e.ErrInvalidEstimatedValue) {
		t.Errorf("toDomain err = %v, want ErrInvalidEstimatedValue", err)
	}
}
