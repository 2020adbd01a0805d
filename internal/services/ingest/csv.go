package ingest

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var requiredColumns = []string{"Date(UTC)", "Pair", "Side", "Price", "Executed", "Amount"}

// CSVSource loads every *.csv file in a directory and combines their rows,
// the way exchange trade-history exports are usually dropped into a folder
// one file per period.
type CSVSource struct {
	Dir string
}

// NewCSVSource creates a source reading all CSV files under dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

// Rows reads and combines all CSV files. Files are parsed concurrently;
// the combined result preserves lexical file order so repeated runs see the
// same input order.
func (s *CSVSource) Rows(ctx context.Context) ([]Row, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read trade folder %s", s.Dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	perFile := make([][]Row, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := readCSVFile(filepath.Join(s.Dir, name), name)
			if err != nil {
				return err
			}
			perFile[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined []Row
	for _, rows := range perFile {
		combined = append(combined, rows...)
	}
	return combined, nil
}

func readCSVFile(path, name string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns, err := columnIndexes(records[0])
	if err != nil {
		return nil, errors.Wrapf(err, "header of %s", name)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		rows = append(rows, Row{
			Date:     record[columns["Date(UTC)"]],
			Pair:     record[columns["Pair"]],
			Side:     record[columns["Side"]],
			Price:    record[columns["Price"]],
			Executed: record[columns["Executed"]],
			Amount:   record[columns["Amount"]],
			Origin:   name,
			Line:     i + 2, // 1-based, after the header
		})
	}
	return rows, nil
}

func columnIndexes(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, errors.Errorf("missing required column %q", required)
		}
	}
	return columns, nil
}
