// Package refs provides deterministic reference keys for entities and join
// records.
package refs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// EntityRef returns the collection-qualified reference for an entity
// (e.g. "authors#6569...").
func EntityRef(collection, id string) string {
	return fmt.Sprintf("%s#%s", collection, id)
}

// SplitRef splits a collection-qualified reference into collection and id.
// The id portion may itself contain '#'.
func SplitRef(ref string) (collection, id string) {
	collection, id, _ = strings.Cut(ref, "#")
	return collection, id
}

// JoinID computes the deterministic identifier for the join record linking
// parentRef to childRef. Determinism is what makes link creation idempotent:
// adding the same link twice upserts the same record. Both refs are
// length-prefixed before hashing so no two distinct (parent, child) pairs
// share a hash input.
func JoinID(parentRef, childRef string) string {
	data := fmt.Sprintf("%d:%s%d:%s", len(parentRef), parentRef, len(childRef), childRef)
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:16]) // 128-bit hash as hex
}
