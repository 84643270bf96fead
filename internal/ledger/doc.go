// Package ledger implements the core of a minimal append-only ledger: a
// chain of proof-of-work sealed blocks, each committing to its ordered
// transaction payloads through a Merkle root and to its predecessor through
// a hash reference.
//
// The package exposes no process-wide state. A Chain is explicitly
// constructed from a Clock and a Sealer and owns its blocks exclusively;
// any modification after sealing breaks the hash chain and is surfaced by
// Validate.
package ledger
