package opensearch

import (
	"crypto/md5" //nolint:gosec // content addressing, not security
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DocID derives a deterministic document ID from the document content:
// the md5 of its canonical (sorted-key) JSON encoding. Re-ingesting the
// same document overwrites instead of duplicating.
func DocID(doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	// Round-trip through a generic value so map keys serialize sorted
	// regardless of the input type.
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("canonicalize document: %w", err)
	}
	canon, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonicalize document: %w", err)
	}

	sum := md5.Sum(canon) //nolint:gosec
	return hex.EncodeToString(sum[:]), nil
}
