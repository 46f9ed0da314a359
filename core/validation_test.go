package core

import (
	"errors"
	"testing"
)

func TestValidateCandidate(t *testing.T) {
	badGPA := 11.0
	goodGPA := 8.2

	tests := []struct {
		name      string
		candidate *Candidate
		wantErr   error
	}{
		{
			name:      "valid candidate",
			candidate: &Candidate{Text: "resume", GPA: &goodGPA, Email: "a@b.io"},
			wantErr:   nil,
		},
		{
			name:      "nil candidate",
			candidate: nil,
			wantErr:   ErrInvalidCandidate,
		},
		{
			name:      "empty text",
			candidate: &Candidate{Text: "   "},
			wantErr:   ErrEmptyText,
		},
		{
			name:      "gpa out of range",
			candidate: &Candidate{Text: "resume", GPA: &badGPA},
			wantErr:   ErrGPAOutOfRange,
		},
		{
			name:      "negative score",
			candidate: &Candidate{Text: "resume", HackathonWins: -1},
			wantErr:   ErrNegativeScore,
		},
		{
			name:      "malformed email",
			candidate: &Candidate{Text: "resume", Email: "not-an-email"},
			wantErr:   ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCandidate(tt.candidate)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCandidate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCandidate() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidCandidate) {
				t.Errorf("ValidateCandidate() error = %v, want wrapped %v", err, ErrInvalidCandidate)
			}
		})
	}
}
