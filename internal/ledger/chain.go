package ledger

import (
	"context"
	"fmt"
	"sync"
)

const (
	// GenesisPrevHash is the predecessor reference of the genesis block.
	GenesisPrevHash = "0"
	// GenesisPayload is the single transaction of the genesis block.
	GenesisPayload = "Genesis Block"
)

// Violation identifies which structural check a block failed during chain
// validation.
type Violation int

const (
	// HashMismatch: the stored hash does not match the recomputed one, so a
	// field was altered after sealing.
	HashMismatch Violation = iota
	// LinkageMismatch: the block's PrevHash does not reference the
	// predecessor's hash.
	LinkageMismatch
	// DifficultyNotMet: the stored hash lacks the required leading zeros.
	DifficultyNotMet
)

func (v Violation) String() string {
	switch v {
	case HashMismatch:
		return "hash mismatch"
	case LinkageMismatch:
		return "linkage mismatch"
	case DifficultyNotMet:
		return "difficulty not met"
	default:
		return "unknown violation"
	}
}

// ValidationError reports the first structural violation found while
// walking the chain.
type ValidationError struct {
	Index uint64
	Kind  Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block %d invalid: %s", e.Index, e.Kind)
}

// Chain is an append-only sequence of sealed blocks starting at a fixed
// genesis block. It owns its blocks exclusively; accessors hand out copies.
type Chain struct {
	mu     sync.RWMutex
	clock  Clock
	sealer *Sealer
	blocks []Block
}

// New creates a chain holding only the sealed genesis block.
func New(ctx context.Context, clock Clock, sealer *Sealer) (*Chain, error) {
	genesis, err := NewBlock(ctx, 0, []string{GenesisPayload}, GenesisPrevHash, clock, sealer)
	if err != nil {
		return nil, fmt.Errorf("failed to create genesis block: %w", err)
	}
	return &Chain{
		clock:  clock,
		sealer: sealer,
		blocks: []Block{*genesis},
	}, nil
}

// Len returns the number of blocks in the chain, genesis included.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Tip returns a copy of the most recently appended block.
func (c *Chain) Tip() Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// Block returns a copy of the block at the given position.
func (c *Chain) Block(i int) (Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.blocks) {
		return Block{}, fmt.Errorf("block index %d out of range", i)
	}
	return c.blocks[i], nil
}

// Blocks returns a copy of the whole chain.
func (c *Chain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Add links b to the current tip and appends it. Because the seal covers
// PrevHash, the block is re-sealed in full after re-linking; a caller may
// therefore hand in a block built against a provisional predecessor.
//
// Add does not re-validate the existing chain; integrity checking is the
// explicit job of Validate.
func (c *Chain) Add(ctx context.Context, b *Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b.PrevHash = c.blocks[len(c.blocks)-1].Hash
	if err := b.seal(ctx, c.sealer); err != nil {
		return fmt.Errorf("failed to re-seal block %d: %w", b.Index, err)
	}
	c.blocks = append(c.blocks, *b)
	return nil
}

// Validate walks the chain from index 1 and checks every block, in order,
// for hash integrity, predecessor linkage, and the difficulty predicate.
// It stops at the first violation and returns it as a *ValidationError;
// a nil return means the chain is intact. The genesis block is only
// checked implicitly, as the linkage target of block 1.
func (c *Chain) Validate(difficulty int) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := 1; i < len(c.blocks); i++ {
		current := &c.blocks[i]
		previous := &c.blocks[i-1]

		if current.Hash != current.ComputeHash() {
			return &ValidationError{Index: current.Index, Kind: HashMismatch}
		}
		if current.PrevHash != previous.Hash {
			return &ValidationError{Index: current.Index, Kind: LinkageMismatch}
		}
		if !current.MeetsDifficulty(difficulty) {
			return &ValidationError{Index: current.Index, Kind: DifficultyNotMet}
		}
	}
	return nil
}
