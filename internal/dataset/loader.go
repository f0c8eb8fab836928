package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/fundlens/fundlens/internal/logger"
)

// Load reads the two fixed CSV files from dir into an immutable Store.
//
// A missing file is tolerated: that table is simply unavailable and the
// store carries whichever tables could be read. A present-but-unreadable
// file fails the load. Both files are read concurrently; errgroup cancels
// the sibling on first error.
func Load(ctx context.Context, dir string) (*Store, error) {
	g, gctx := errgroup.WithContext(ctx)

	tables := make([]*Table, len(AllowedFiles))
	for i, name := range AllowedFiles {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := loadFile(dir, name)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := NewStore(tables...)
	for _, name := range AllowedFiles {
		if t, ok := store.Table(name); ok {
			logger.L().Info().
				Str("file", name).
				Int("rows", t.Rows()).
				Int("columns", len(t.ColumnNames())).
				Msg("dataset loaded")
		} else {
			logger.L().Warn().Str("file", name).Str("dir", dir).Msg("dataset file missing, table unavailable")
		}
	}
	return store, nil
}

// loadFile parses one CSV file into a Table. Returns (nil, nil) when the
// file does not exist.
func loadFile(dir, name string) (*Table, error) {
	path := filepath.Join(dir, name)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: file is empty", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: read row: %w", name, err)
		}
		rows = append(rows, rec)
	}

	return NewTable(name, header, rows)
}
