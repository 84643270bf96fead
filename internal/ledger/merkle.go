package ledger

// MerkleRoot reduces an ordered sequence of transaction payloads to a single
// commitment hash by repeated pairwise combination.
//
// An empty sequence commits to Sum(""). A single element commits to its own
// digest. Otherwise adjacent pairs (l, r) are combined as Sum(l+r); a level
// with an odd element count is padded with one empty string before pairing.
// The same combining rule applies at every level, so deeper levels pair the
// hex digests produced by the level below.
//
// The root is order-sensitive and a pure function of the input. The caller's
// slice is never mutated; padding happens on a working copy local to each
// level.
func MerkleRoot(transactions []string) string {
	if len(transactions) == 0 {
		return Sum("")
	}
	if len(transactions) == 1 {
		return Sum(transactions[0])
	}

	level := make([]string, len(transactions), len(transactions)+1)
	copy(level, transactions)
	if len(level)%2 != 0 {
		level = append(level, "")
	}

	next := make([]string, 0, len(level)/2)
	for i := 0; i < len(level); i += 2 {
		next = append(next, Sum(level[i]+level[i+1]))
	}

	return MerkleRoot(next)
}
