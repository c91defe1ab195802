package csvout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"klsetracker/internal/quote"
)

// Writer persists a record set as a timestamped CSV file. Dir defaults
// to the working directory.
type Writer struct {
	Dir string
}

// Write serializes set in insertion order and returns the file path.
// The filename carries the run timestamp so repeated runs never collide.
func (w *Writer) Write(set *quote.Set, now time.Time) (string, error) {
	if set.Len() == 0 {
		return "", errors.New("no records to save")
	}

	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("malaysian_stocks_%s.csv", now.Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	records := set.Records()
	if err := gocsv.MarshalFile(&records, f); err != nil {
		f.Close()
		return "", fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
