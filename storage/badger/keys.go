package badger

import (
	"encoding/binary"

	"github.com/poiesic/hirex/core"
)

// Key prefixes for different data types
const (
	candidatePrefix            = "cand:"
	candidateFingerprintPrefix = "candfp:"
	candidateIDSeq             = "candseq"
)

// makeCandidateKey generates a key for a candidate by ID.
// Format: prefix + big-endian ID, so iteration follows ID order.
func makeCandidateKey(id core.ID) []byte {
	return appendID([]byte(candidatePrefix), id)
}

// makeFingerprintKey generates a key for the fingerprint index.
// Format: prefix + big-endian fingerprint
func makeFingerprintKey(fingerprint core.ID) []byte {
	return appendID([]byte(candidateFingerprintPrefix), fingerprint)
}

func appendID(prefix []byte, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(prefix, uint64(id))
}
