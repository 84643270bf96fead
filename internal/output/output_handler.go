package output

import (
	"context"

	"github.com/cairnlabs/cairn/internal/ledger"
)

// Handler receives every block the miner appends. Handlers are export
// sinks for inspection; the chain itself stays in memory.
type Handler interface {
	WriteBlock(ctx context.Context, block *ledger.Block) error
	Close() error
}
