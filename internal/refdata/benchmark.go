package refdata

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimaudit/internal/normalize"
	"github.com/gyeh/claimaudit/internal/parquetread"
)

const benchmarkBatchSize = 256

// MergePriceBenchmarks overlays the price-range table with rows from a
// price-benchmark Parquet export. Rows with no usable charge data are
// skipped; a missing typical charge falls back to the midpoint of min/max.
func MergePriceBenchmarks(t *Tables, path string, log zerolog.Logger) error {
	reader, err := parquetread.Open(path)
	if err != nil {
		return fmt.Errorf("open benchmarks: %w", err)
	}
	defer reader.Close()

	if err := parquetread.ValidateSchema(reader.Schema()); err != nil {
		return fmt.Errorf("benchmark schema: %w", err)
	}

	buf := make([]parquetread.BenchmarkRow, benchmarkBatchSize)
	var merged, skipped int64
	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			pr, ok := toPriceRange(&buf[i])
			if !ok {
				skipped++
				continue
			}
			base := normalize.BaseCode(buf[i].Code)
			if base == "" {
				skipped++
				continue
			}
			t.PriceRanges[base] = pr
			merged++
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read benchmarks: %w", readErr)
		}
	}

	log.Info().
		Str("path", path).
		Int64("merged", merged).
		Int64("skipped", skipped).
		Msg("price benchmarks merged")
	return nil
}

func toPriceRange(row *parquetread.BenchmarkRow) (PriceRange, bool) {
	min := normalize.DollarsToCents(row.MinCharge)
	typical := normalize.DollarsToCents(row.TypicalCharge)
	max := normalize.DollarsToCents(row.MaxCharge)

	if min == nil || max == nil || *min < 0 || *max < *min {
		return PriceRange{}, false
	}
	if typical == nil {
		mid := (*min + *max) / 2
		typical = &mid
	}
	if *typical < *min || *typical > *max {
		return PriceRange{}, false
	}
	return PriceRange{MinCents: *min, TypicalCents: *typical, MaxCents: *max}, true
}
