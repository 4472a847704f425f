package writer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sagadevanmi/nifty-stocks-etl/internal/model"
	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	parquetwriter "github.com/xitongsys/parquet-go/writer"
)

// encodeJSONLines encodes each record on its own line, without a trailing newline.
func encodeJSONLines(records []any) ([]byte, error) {
	buf := &bytes.Buffer{}
	for i, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

// encodeTableJSONLines writes one JSON object per row, keys in column order.
func encodeTableJSONLines(t *model.Table) ([]byte, error) {
	names := make([][]byte, len(t.Columns))
	for i, c := range t.Columns {
		b, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		names[i] = b
	}

	buf := &bytes.Buffer{}
	for r, row := range t.Rows {
		if r > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteByte('{')
		for i, v := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", r, t.Columns[i].Name, err)
			}
			buf.Write(names[i])
			buf.WriteByte(':')
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// encodeTableParquet writes the table as a single SNAPPY-compressed Parquet file.
func encodeTableParquet(t *model.Table) ([]byte, error) {
	buf := &bytes.Buffer{}
	pfw := writerfile.NewWriterFile(buf)
	pw, err := parquetwriter.NewJSONWriter(parquetSchema(t.Columns), pfw, 4)
	if err != nil {
		return nil, fmt.Errorf("parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for r, rec := range t.Records() {
		for _, c := range t.Columns {
			rec[c.Name] = parquetValue(c.Type, rec[c.Name])
		}
		b, err := json.Marshal(rec)
		if err != nil {
			_ = pw.WriteStop()
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		if err := pw.Write(string(b)); err != nil {
			_ = pw.WriteStop()
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("parquet flush: %w", err)
	}
	if err := pfw.Close(); err != nil {
		return nil, fmt.Errorf("parquet close: %w", err)
	}
	return buf.Bytes(), nil
}

func parquetSchema(columns []model.Column) string {
	fields := make([]map[string]string, 0, len(columns))
	for _, c := range columns {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", c.Name, parquetType(c.Type)),
		})
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func parquetType(t model.ColumnType) string {
	switch t {
	case model.ColumnBool:
		return "type=BOOLEAN"
	case model.ColumnInt:
		return "type=INT64"
	case model.ColumnFloat:
		return "type=DOUBLE"
	default:
		return "type=BYTE_ARRAY, convertedtype=UTF8"
	}
}

// parquetValue renders string columns as text so they match the BYTE_ARRAY schema.
func parquetValue(t model.ColumnType, v any) any {
	if v == nil {
		return nil
	}
	switch t {
	case model.ColumnBool, model.ColumnInt, model.ColumnFloat:
		return v
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
