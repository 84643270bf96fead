package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cairnlabs/cairn/internal/ledger"
)

type JSONHandler struct {
	blockDir string
}

// NewJSONHandler writes each block as an indented JSON file under
// outDir/block.
func NewJSONHandler(outDir string) (*JSONHandler, error) {
	blockDir := filepath.Join(outDir, "block")

	if err := os.MkdirAll(blockDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blocks directory: %w", err)
	}

	return &JSONHandler{blockDir: blockDir}, nil
}

func (h *JSONHandler) WriteBlock(_ context.Context, block *ledger.Block) error {
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal block %d: %w", block.Index, err)
	}

	fileName := fmt.Sprintf("block_%010d.json", block.Index)
	filePath := filepath.Join(h.blockDir, fileName)
	return os.WriteFile(filePath, data, 0644)
}

func (h *JSONHandler) Close() error {
	return nil
}
