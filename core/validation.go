// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateCandidate checks that a Candidate is valid for storage.
//
// Validation rules:
//   - Text must not be empty
//   - Numeric scores must not be negative
//   - GPA must be absent or within [0,10]
//   - Email, when set, must be well formed
func ValidateCandidate(c *Candidate) error {
	if c == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyText)
	}

	err := Validator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}

	fe := verrs[0]
	switch {
	case fe.Field() == "Text":
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyText)
	case fe.Field() == "GPA":
		return fmt.Errorf("%w: %w: %v", ErrInvalidCandidate, ErrGPAOutOfRange, fe.Value())
	case fe.Field() == "Email":
		return fmt.Errorf("%w: %w: %q", ErrInvalidCandidate, ErrInvalidEmail, c.Email)
	case fe.Tag() == "gte":
		return fmt.Errorf("%w: %w: %s", ErrInvalidCandidate, ErrNegativeScore, fe.Field())
	default:
		return fmt.Errorf("%w: %s failed %q", ErrInvalidCandidate, fe.Field(), fe.Tag())
	}
}
