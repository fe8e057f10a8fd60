package layout

import "time"

// Stats reports the work done by the most recent Compute pass. Cache
// hits count every node in a skipped subtree, so Recomputed+CacheHits
// equals the number of live layout nodes reachable from the root.
type Stats struct {
	// Recomputed is the number of nodes whose flex pass ran.
	Recomputed int
	// CacheHits is the number of nodes reused from cache without
	// recursion.
	CacheHits int
	// Diagnostics is the number of degraded-layout conditions recorded
	// during the pass.
	Diagnostics int
	// Elapsed is the wall time of the pass.
	Elapsed time.Duration
}
