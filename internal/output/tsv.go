package output

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/cairnlabs/cairn/internal/ledger"
)

type TSVHandler struct {
	blockFile   *os.File
	blockWriter *bufio.Writer
}

const blocksTSV = "blocks.tsv"

// NewTSVHandler writes one tab-separated line per block to
// outDir/blocks.tsv, headed by a column line.
func NewTSVHandler(outDir string) (*TSVHandler, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.WithMessage(err, "failed to create output directory")
	}

	blockFile, err := os.Create(filepath.Join(outDir, blocksTSV))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create blocks TSV file")
	}

	h := &TSVHandler{
		blockFile:   blockFile,
		blockWriter: bufio.NewWriter(blockFile),
	}
	if _, err := h.blockWriter.WriteString("index\ttimestamp\tprev_hash\tmerkle_root\tnonce\thash\ttransactions\n"); err != nil {
		blockFile.Close()
		return nil, errors.WithMessage(err, "failed to write TSV header")
	}
	return h, nil
}

func (h *TSVHandler) WriteBlock(_ context.Context, block *ledger.Block) error {
	line := fmt.Sprintf("%d\t%d\t%s\t%s\t%d\t%s\t%s\n",
		block.Index,
		block.Timestamp,
		block.PrevHash,
		block.MerkleRoot,
		block.Nonce,
		block.Hash,
		strings.Join(block.Transactions, "|"),
	)
	_, err := h.blockWriter.WriteString(line)
	return err
}

func (h *TSVHandler) Close() error {
	if err := h.blockWriter.Flush(); err != nil {
		slog.Error("failed to flush block writer", "error", err)
		return err
	}
	if err := h.blockFile.Close(); err != nil {
		slog.Error("failed to close block file", "error", err)
		return err
	}
	return nil
}
