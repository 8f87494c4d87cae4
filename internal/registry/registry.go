package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"priceScope/internal/model"
)

// DefaultPath is where the asset list is read from when no path is configured.
const DefaultPath = "./CoinGecko_Token_API_List.csv"

type table struct {
	records []model.AssetRecord
	skipped []model.RowError
}

// Registry maps display names to spot source ids. The loaded table is
// immutable; Reload swaps in a new one without blocking readers.
type Registry struct {
	path   string
	logger *zap.Logger
	table  atomic.Pointer[table]
}

// Load reads the asset list at path.
func Load(path string, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		path = DefaultPath
	}

	r := &Registry{path: path, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// New builds a registry from records already in memory.
func New(records []model.AssetRecord) *Registry {
	r := &Registry{logger: zap.NewNop()}
	r.table.Store(&table{records: append([]model.AssetRecord(nil), records...)})
	return r
}

// Reload re-reads the asset list from disk. On failure the previous table
// stays in place.
func (r *Registry) Reload() error {
	if r.path == "" {
		return fmt.Errorf("%w: registry has no backing file", model.ErrRegistryLoad)
	}

	file, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", model.ErrRegistryLoad, r.path, err)
	}
	defer file.Close()

	records, skipped, err := Parse(file)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrRegistryLoad, r.path, err)
	}

	for _, rowErr := range skipped {
		r.logger.Warn("skip registry row", zap.Int("row", rowErr.Row), zap.Error(rowErr.Err))
	}
	r.logger.Debug("registry loaded",
		zap.String("path", r.path),
		zap.Int("records", len(records)),
		zap.Int("skipped", len(skipped)),
	)

	r.table.Store(&table{records: records, skipped: skipped})
	return nil
}

// Resolve returns the id of the first record whose name equals name exactly.
func (r *Registry) Resolve(name string) (string, error) {
	t := r.table.Load()
	if t != nil {
		for _, record := range t.records {
			if record.Name == name {
				return record.ID, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", model.ErrAssetNotFound, name)
}

// Records returns a copy of the loaded records.
func (r *Registry) Records() []model.AssetRecord {
	t := r.table.Load()
	if t == nil {
		return nil
	}
	return append([]model.AssetRecord(nil), t.records...)
}

// Skipped returns the rows dropped by the last load.
func (r *Registry) Skipped() []model.RowError {
	t := r.table.Load()
	if t == nil {
		return nil
	}
	return append([]model.RowError(nil), t.skipped...)
}

// Parse reads an Id,Symbol,Name table. Header names are matched
// case-insensitively and may appear in any order. Malformed rows are
// returned in skipped instead of failing the whole parse.
func Parse(in io.Reader) ([]model.AssetRecord, []model.RowError, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("empty asset list")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := headerColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var records []model.AssetRecord
	var skipped []model.RowError
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped = append(skipped, model.RowError{Row: parseErr.Line, Err: parseErr.Err})
				continue
			}
			return nil, nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		record, err := cols.record(row)
		if err != nil {
			skipped = append(skipped, model.RowError{Row: line, Err: err})
			continue
		}
		records = append(records, record)
	}

	return records, skipped, nil
}

type columns struct {
	id     int
	symbol int
	name   int
}

func headerColumns(header []string) (columns, error) {
	cols := columns{id: -1, symbol: -1, name: -1}
	for i, field := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(field, "\ufeff"))) {
		case "id":
			cols.id = i
		case "symbol":
			cols.symbol = i
		case "name":
			cols.name = i
		}
	}
	if cols.id < 0 || cols.symbol < 0 || cols.name < 0 {
		return columns{}, fmt.Errorf("header must contain Id, Symbol and Name, got %v", header)
	}
	return cols, nil
}

func (c columns) record(row []string) (model.AssetRecord, error) {
	needed := max(c.id, c.symbol, c.name) + 1
	if len(row) < needed {
		return model.AssetRecord{}, fmt.Errorf("expected at least %d fields, got %d", needed, len(row))
	}

	record := model.AssetRecord{
		ID:     strings.TrimSpace(row[c.id]),
		Symbol: strings.TrimSpace(row[c.symbol]),
		Name:   strings.TrimSpace(row[c.name]),
	}
	if record.ID == "" {
		return model.AssetRecord{}, fmt.Errorf("missing id")
	}
	if record.Name == "" {
		return model.AssetRecord{}, fmt.Errorf("missing name")
	}
	return record, nil
}
