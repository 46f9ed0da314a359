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

package reembed

import (
	"context"

	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/storage"
)

// CandidateIterator walks the repository in ID order, one batch at a
// time. It remembers the last ID it delivered, so a second ForEach picks
// up only candidates stored since the first one finished.
type CandidateIterator struct {
	repo      storage.CandidateRepository
	batchSize int
	lastID    core.ID
}

// NewCandidateIterator creates an iterator starting before the first ID.
func NewCandidateIterator(repo storage.CandidateRepository, batchSize int) *CandidateIterator {
	if batchSize < 1 {
		batchSize = 1
	}
	return &CandidateIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch until the repository is exhausted. The
// last ID only advances past a batch once fn has accepted it.
func (it *CandidateIterator) ForEach(ctx context.Context, fn func([]*core.Candidate) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := it.repo.GetCandidatesAfterID(ctx, it.lastID, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}
		it.lastID = batch[len(batch)-1].Id

		if len(batch) < it.batchSize {
			return nil
		}
	}
}

// LastID returns the highest candidate ID delivered so far.
func (it *CandidateIterator) LastID() core.ID {
	return it.lastID
}
