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

package storage

import (
	"context"

	"github.com/poiesic/hirex/core"
)

// CandidateRepository provides operations for managing candidate records.
// Implementations must be thread-safe and support concurrent access.
type CandidateRepository interface {
	// AddCandidates validates and stores one or more candidates.
	// Every candidate gets a new ID from the repository sequence and an
	// InsertedAt timestamp. Returns ErrDuplicateKey if a candidate's
	// fingerprint is already stored; nothing is written in that case.
	AddCandidates(ctx context.Context, candidates ...*core.Candidate) ([]*core.Candidate, error)

	// GetCandidate retrieves a single candidate by ID.
	// Returns ErrNotFound if the candidate doesn't exist.
	GetCandidate(ctx context.Context, id core.ID) (*core.Candidate, error)

	// GetCandidates retrieves multiple candidates by their IDs, in request order.
	// Returns only the candidates that exist (no error for missing IDs).
	GetCandidates(ctx context.Context, ids ...core.ID) ([]*core.Candidate, error)

	// ScanCandidates retrieves every stored candidate in ID order.
	ScanCandidates(ctx context.Context) ([]*core.Candidate, error)

	// GetCandidatesAfterID retrieves up to limit candidates with IDs greater
	// than afterID, in ID order. Used for batched iteration.
	GetCandidatesAfterID(ctx context.Context, afterID core.ID, limit int) ([]*core.Candidate, error)

	// FindByFingerprint returns the candidate whose resume text has the given
	// content fingerprint. Returns nil, nil if there is none.
	FindByFingerprint(ctx context.Context, fingerprint core.ID) (*core.Candidate, error)

	// CountCandidates returns the number of stored candidates.
	CountCandidates(ctx context.Context) (int, error)

	// Close releases repository resources. It does not close the backend.
	Close() error
}
