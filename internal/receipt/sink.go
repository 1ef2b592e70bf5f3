package receipt

import (
	"os"
	"path/filepath"

	"github.com/aspectxlol/uprak-pos/internal/sale"
)

// Emitter persists a committed receipt and reports where it went.
type Emitter interface {
	Emit(r sale.Receipt) (string, error)
}

// FileSink writes one text file per receipt into Dir, named
// receipt_20060102_150405.txt like the original tool.
type FileSink struct {
	Dir string
}

func (s FileSink) Emit(r sale.Receipt) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "receipt_"+r.Timestamp.Format("20060102_150405")+".txt")
	if err := os.WriteFile(path, []byte(Render(r)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
