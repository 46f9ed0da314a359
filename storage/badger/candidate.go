package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/storage"
)

// CandidateRepository implements storage.CandidateRepository for BadgerDB.
type CandidateRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.CandidateRepository = (*CandidateRepository)(nil)

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(backend *Backend) (*CandidateRepository, error) {
	idSeq, err := backend.GetSequence(candidateIDSeq)
	if err != nil {
		return nil, err
	}

	return &CandidateRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *CandidateRepository) Close() error {
	return r.idSeq.Release()
}

// AddCandidates validates and stores one or more candidates.
func (r *CandidateRepository) AddCandidates(ctx context.Context, candidates ...*core.Candidate) ([]*core.Candidate, error) {
	for _, c := range candidates {
		if err := core.ValidateCandidate(c); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		seen := make(map[core.ID]struct{}, len(candidates))
		for _, c := range candidates {
			if c.Fingerprint == 0 {
				c.Fingerprint = core.IDFromContent(c.Text)
			}
			if _, dup := seen[c.Fingerprint]; dup {
				return fmt.Errorf("%w: fingerprint %d repeated in batch", storage.ErrDuplicateKey, c.Fingerprint)
			}
			seen[c.Fingerprint] = struct{}{}

			fpKey := makeFingerprintKey(c.Fingerprint)
			if _, err := tx.Get(fpKey); err == nil {
				return fmt.Errorf("%w: fingerprint %d", storage.ErrDuplicateKey, c.Fingerprint)
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			c.Id = core.ID(nextID)
			c.InsertedAt = time.Now().UTC()

			if err := tx.Set(makeCandidateKey(c.Id), storage.MarshalCandidate(c)); err != nil {
				return err
			}
			if err := tx.Set(fpKey, storage.MarshalID(c.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.backend.logger.Debug("stored candidates", "count", len(candidates))
	return candidates, nil
}

// GetCandidate retrieves a single candidate by ID.
func (r *CandidateRepository) GetCandidate(ctx context.Context, id core.ID) (*core.Candidate, error) {
	var result *core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCandidate(tx, makeCandidateKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetCandidates retrieves multiple candidates by their IDs.
func (r *CandidateRepository) GetCandidates(ctx context.Context, ids ...core.ID) ([]*core.Candidate, error) {
	var result []*core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := readCandidate(tx, makeCandidateKey(id))
			if err != nil {
				return err
			}
			if c != nil {
				result = append(result, c)
			}
		}
		return nil
	}, false)
	return result, err
}

// ScanCandidates retrieves every stored candidate in ID order.
func (r *CandidateRepository) ScanCandidates(ctx context.Context) ([]*core.Candidate, error) {
	return r.GetCandidatesAfterID(ctx, 0, 0)
}

// GetCandidatesAfterID retrieves up to limit candidates with IDs greater
// than afterID. A non-positive limit returns all of them.
func (r *CandidateRepository) GetCandidatesAfterID(ctx context.Context, afterID core.ID, limit int) ([]*core.Candidate, error) {
	var results []*core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(candidatePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makeCandidateKey(afterID + 1)); iter.ValidForPrefix(opts.Prefix); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var c *core.Candidate
			err := iter.Item().Value(func(val []byte) error {
				var err error
				c, err = storage.UnmarshalCandidate(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, c)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
		return nil
	}, false)
	return results, err
}

// FindByFingerprint returns the candidate with the given content fingerprint.
// Returns nil, nil if no candidate matches.
func (r *CandidateRepository) FindByFingerprint(ctx context.Context, fingerprint core.ID) (*core.Candidate, error) {
	var result *core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeFingerprintKey(fingerprint))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		var id core.ID
		err = item.Value(func(val []byte) error {
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}
		result, err = readCandidate(tx, makeCandidateKey(id))
		return err
	}, false)
	return result, err
}

// CountCandidates returns the number of stored candidates.
func (r *CandidateRepository) CountCandidates(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(candidatePrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readCandidate reads a candidate from the transaction.
// Returns nil, nil if the key doesn't exist.
func readCandidate(tx *badger.Txn, key []byte) (*core.Candidate, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var c *core.Candidate
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		c, unmarshalErr = storage.UnmarshalCandidate(val)
		return unmarshalErr
	})
	return c, err
}
