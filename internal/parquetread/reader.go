package parquetread

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// BenchmarkRow mirrors the Parquet schema of a price-benchmark export: one
// row per procedure code with its observed charge distribution. Money fields
// are float64 dollars matching the Parquet representation; they get
// converted to integer cents on load.
type BenchmarkRow struct {
	Code          string   `parquet:"code"`
	Description   *string  `parquet:"description,optional"`
	Setting       *string  `parquet:"setting,optional"`
	MinCharge     *float64 `parquet:"min_charge,optional"`
	TypicalCharge *float64 `parquet:"typical_charge,optional"`
	MaxCharge     *float64 `parquet:"max_charge,optional"`
}

// Reader wraps a parquet GenericReader for streaming BenchmarkRow records.
type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[BenchmarkRow]
}

// Open opens a Parquet file and returns a streaming Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	r := parquet.NewGenericReader[BenchmarkRow](pf)
	return &Reader{file: f, reader: r}, nil
}

// NumRows returns the total number of rows in the Parquet file.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(rows) records into the provided slice.
// Returns the number of rows read and io.EOF when done.
func (r *Reader) Read(rows []BenchmarkRow) (int, error) {
	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read parquet rows: %w", err)
	}
	return n, err
}

// Schema returns the Parquet schema for validation.
func (r *Reader) Schema() *parquet.Schema {
	return r.reader.Schema()
}

// Close releases all resources.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
