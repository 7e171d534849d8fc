package controller

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mazta/hr-master/internal/hr/actor"
	"github.com/mazta/hr-master/internal/hr/db"
	e "github.com/mazta/hr-master/internal/hr/errors"
	"github.com/mazta/hr-master/internal/hr/events"
	"github.com/mazta/hr-master/internal/hr/serializer"
)

// BulkInsert parses an uploaded csv or xlsx file and inserts every row in
// one transaction. Any bad row fails the whole batch.
func (s *Service[T]) BulkInsert(ctx context.Context, filename string, file io.Reader, q Query) (int, error) {
	rows, err := parseTable(filename, file)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: file contains no rows", e.ErrInvalidInput)
	}

	who := actor.Ref(ctx)
	entities := make([]T, 0, len(rows))
	for i, row := range rows {
		entity := s.newFn()
		raw, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("%w: row %d: %v", e.ErrInvalidInput, i+1, err)
		}
		if err := json.Unmarshal(raw, entity); err != nil {
			return 0, fmt.Errorf("%w: row %d: %v", e.ErrInvalidInput, i+1, err)
		}
		if err := entity.Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		entity.Base().CreatedBy = who
		entity.Base().UpdatedBy = who
		entities = append(entities, entity)
	}

	err = s.store.Transaction(ctx, func(tx *db.Store[T]) error {
		for i, entity := range entities {
			if err := tx.Create(ctx, entity); err != nil {
				return fmt.Errorf("%w: row %d: %v", e.ErrInvalidInput, i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	ropts := s.renderOptions(q.Params)
	for _, entity := range entities {
		s.producer.Produce(s.name, events.ActionCreated, serializer.Render(entity, ropts))
	}
	return len(entities), nil
}

// parseTable reads the uploaded file into loosely typed rows keyed by the
// header of the first line.
func parseTable(filename string, file io.Reader) ([]map[string]any, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(file)
	case ".xlsx", ".xlsm":
		return parseXLSX(file)
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected csv or xlsx", filepath.Ext(filename))
	}
}

func parseCSV(file io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %v", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return tableRows(records[0], records[1:])
}

func parseXLSX(file io.Reader) ([]map[string]any, error) {
	book, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("malformed xlsx: %v", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %v", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return tableRows(records[0], records[1:])
}

func tableRows(header []string, records [][]string) ([]map[string]any, error) {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(keys))
		for i, cell := range record {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			row[keys[i]] = coerceCell(cell)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// coerceCell maps a textual cell onto the JSON type the entity decoder
// expects. Anything that is not a clean number or boolean stays a string.
func coerceCell(cell string) any {
	switch cell {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}
