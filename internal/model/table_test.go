package model

import "testing"

func sampleTable() *Table {
	return &Table{
		Columns: []Column{{Name: "symbol"}, {Name: "close", Type: ColumnFloat}},
		Rows: [][]any{
			{"INFY", 1510.5},
			{"TCS", 3900.0},
			{"WIPRO", 470.25},
		},
	}
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   *Table
		wantErr bool
	}{
		{name: "valid", table: sampleTable()},
		{name: "no columns", table: &Table{}, wantErr: true},
		{name: "unnamed column", table: &Table{Columns: []Column{{Name: ""}}}, wantErr: true},
		{name: "duplicate column", table: &Table{Columns: []Column{{Name: "a"}, {Name: "a"}}}, wantErr: true},
		{name: "short row", table: &Table{Columns: []Column{{Name: "a"}, {Name: "b"}}, Rows: [][]any{{1}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTable_Records(t *testing.T) {
	recs := sampleTable().Records()
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[1]["symbol"] != "TCS" || recs[1]["close"] != 3900.0 {
		t.Fatalf("unexpected record: %v", recs[1])
	}
}

func TestTable_Chunks(t *testing.T) {
	tbl := sampleTable()

	if got := tbl.Chunks(0); len(got) != 1 || got[0] != tbl {
		t.Fatalf("Chunks(0) should return the table unchanged")
	}

	chunks := tbl.Chunks(2)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Len() != 2 || chunks[1].Len() != 1 {
		t.Fatalf("unexpected chunk sizes %d, %d", chunks[0].Len(), chunks[1].Len())
	}
	if chunks[1].Rows[0][0] != "WIPRO" {
		t.Fatalf("chunks lost row order: %v", chunks[1].Rows[0])
	}
}

func TestTableFormat(t *testing.T) {
	if FormatJSONLines.Extension() != "json" {
		t.Fatalf("jsonl extension = %s", FormatJSONLines.Extension())
	}
	if FormatParquet.Extension() != "parquet" {
		t.Fatalf("parquet extension = %s", FormatParquet.Extension())
	}
	if err := TableFormat("csv").Validate(); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
