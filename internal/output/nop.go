package output

import (
	"context"

	"github.com/cairnlabs/cairn/internal/ledger"
)

// NopHandler discards every block. Used when no export format is selected.
type NopHandler struct{}

func (NopHandler) WriteBlock(_ context.Context, _ *ledger.Block) error { return nil }

func (NopHandler) Close() error { return nil }
