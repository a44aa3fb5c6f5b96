package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ValidateSchema checks that the Parquet schema carries the code column and
// at least one charge column.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	if !columns["code"] {
		return fmt.Errorf("missing required column: code")
	}

	chargeCols := []string{"min_charge", "typical_charge", "max_charge"}
	hasCharge := false
	for _, col := range chargeCols {
		if columns[col] {
			hasCharge = true
			break
		}
	}
	if !hasCharge {
		return fmt.Errorf("no charge columns found; need at least one of: %s",
			strings.Join(chargeCols, ", "))
	}

	return nil
}
