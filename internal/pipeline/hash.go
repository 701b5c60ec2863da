package pipeline

import "hash/fnv"

// IdentityHash returns the stable 64-bit document id for an identity string.
// FNV-1a is deterministic across runs and platforms, so repeated ingestion of
// the same entity always yields the same id.
func IdentityHash(identity string) int64 {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(identity))
	return int64(hasher.Sum64())
}
