package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sagadevanmi/nifty-stocks-etl/internal/model"
)

// Input formats accepted by the CLI.
const (
	formatText  = "text"
	formatJSON  = "json"
	formatJSONL = "jsonl"
	formatCSV   = "csv"
)

// decodeJSON decodes a JSON document. Arrays of objects become []map[string]any
// so Dispatch treats them as a record sequence.
func decodeJSON(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	arr, ok := v.([]any)
	if !ok {
		return v, nil
	}
	records := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		rec, ok := item.(map[string]any)
		if !ok {
			return arr, nil
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeJSONLines decodes one JSON document per non-empty line.
func decodeJSONLines(r io.Reader) ([]any, error) {
	var records []any
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var v any
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode line %d: %w", line, err)
		}
		records = append(records, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read json lines: %w", err)
	}
	return records, nil
}

// decodeCSV reads a CSV file with a header row into a string-typed table.
func decodeCSV(r io.Reader) (*model.Table, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	table := &model.Table{}
	for _, name := range rows[0] {
		table.Columns = append(table.Columns, model.Column{Name: name, Type: model.ColumnString})
	}
	for _, row := range rows[1:] {
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		table.Rows = append(table.Rows, values)
	}
	return table, nil
}
