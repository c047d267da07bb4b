package partition

import "hash/fnv"

// Count is the fixed number of lock stripes.
// Every post id maps to exactly one stripe, so writers for the same post
// always contend on the same lock while different posts rarely do.
const Count = 256

// For returns the stripe index for a post id.
// Stable and deterministic: same key always maps to the same stripe.
// Uses FNV-32a (stdlib, fast, well-distributed).
func For(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % Count)
}
