package refdata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/claimaudit/internal/sql"
)

// LoadFromDB overlays the builtin tables with rows from the ref schema.
// Codes present in the database replace their builtin entries; builtin
// entries without a database row survive, so a partially seeded database
// still yields a complete table set. The result is immutable after return.
func LoadFromDB(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) (*Tables, error) {
	t := Builtin()

	var version string
	if err := pool.QueryRow(ctx, embedsql.SelectRefVersion).Scan(&version); err == nil && version != "" {
		t.Version = version
	}

	rows, err := pool.Query(ctx, embedsql.SelectFrequencyLimits)
	if err != nil {
		return nil, fmt.Errorf("query frequency limits: %w", err)
	}
	for rows.Next() {
		var code, period string
		var maxCount int
		if err := rows.Scan(&code, &period, &maxCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan frequency limit: %w", err)
		}
		t.FrequencyLimits[code] = FrequencyLimit{Period: Period(period), MaxCount: maxCount}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read frequency limits: %w", err)
	}

	exclRows, err := pool.Query(ctx, embedsql.SelectExclusions)
	if err != nil {
		return nil, fmt.Errorf("query exclusions: %w", err)
	}
	// Rows arrive ordered by primary code; fold them into one Exclusion
	// per (primary, category).
	dbExcl := make(map[string]*Exclusion)
	var exclOrder []string
	for exclRows.Next() {
		var primary, excluded, category, rationale string
		if err := exclRows.Scan(&primary, &excluded, &category, &rationale); err != nil {
			exclRows.Close()
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		key := primary + "|" + category
		e, ok := dbExcl[key]
		if !ok {
			e = &Exclusion{Primary: primary, Category: ExclusionCategory(category), Rationale: rationale}
			dbExcl[key] = e
			exclOrder = append(exclOrder, key)
		}
		e.Excluded = append(e.Excluded, excluded)
	}
	exclRows.Close()
	if err := exclRows.Err(); err != nil {
		return nil, fmt.Errorf("read exclusions: %w", err)
	}
	if len(dbExcl) > 0 {
		t.Exclusions = t.Exclusions[:0]
		for _, key := range exclOrder {
			t.Exclusions = append(t.Exclusions, *dbExcl[key])
		}
	}

	bundleRows, err := pool.Query(ctx, embedsql.SelectBundles)
	if err != nil {
		return nil, fmt.Errorf("query bundles: %w", err)
	}
	dbBundles := make(map[string][]string)
	for bundleRows.Next() {
		var comprehensive, component string
		if err := bundleRows.Scan(&comprehensive, &component); err != nil {
			bundleRows.Close()
			return nil, fmt.Errorf("scan bundle: %w", err)
		}
		dbBundles[comprehensive] = append(dbBundles[comprehensive], component)
	}
	bundleRows.Close()
	if err := bundleRows.Err(); err != nil {
		return nil, fmt.Errorf("read bundles: %w", err)
	}
	for comprehensive, components := range dbBundles {
		t.Bundles[comprehensive] = components
	}

	famRows, err := pool.Query(ctx, embedsql.SelectCodeFamilies)
	if err != nil {
		return nil, fmt.Errorf("query code families: %w", err)
	}
	for famRows.Next() {
		var code, family string
		var level int
		var typical int64
		if err := famRows.Scan(&code, &family, &level, &typical); err != nil {
			famRows.Close()
			return nil, fmt.Errorf("scan code family: %w", err)
		}
		t.Families[code] = FamilyMember{Family: family, Level: level, TypicalCents: typical}
	}
	famRows.Close()
	if err := famRows.Err(); err != nil {
		return nil, fmt.Errorf("read code families: %w", err)
	}

	priceRows, err := pool.Query(ctx, embedsql.SelectPriceRanges)
	if err != nil {
		return nil, fmt.Errorf("query price ranges: %w", err)
	}
	for priceRows.Next() {
		var code string
		var min, typical, max int64
		if err := priceRows.Scan(&code, &min, &typical, &max); err != nil {
			priceRows.Close()
			return nil, fmt.Errorf("scan price range: %w", err)
		}
		t.PriceRanges[code] = PriceRange{MinCents: min, TypicalCents: typical, MaxCents: max}
	}
	priceRows.Close()
	if err := priceRows.Err(); err != nil {
		return nil, fmt.Errorf("read price ranges: %w", err)
	}

	unitRows, err := pool.Query(ctx, embedsql.SelectUnitLimits)
	if err != nil {
		return nil, fmt.Errorf("query unit limits: %w", err)
	}
	for unitRows.Next() {
		var code string
		var maxUnits int64
		if err := unitRows.Scan(&code, &maxUnits); err != nil {
			unitRows.Close()
			return nil, fmt.Errorf("scan unit limit: %w", err)
		}
		t.UnitLimits[code] = maxUnits
	}
	unitRows.Close()
	if err := unitRows.Err(); err != nil {
		return nil, fmt.Errorf("read unit limits: %w", err)
	}

	log.Info().
		Str("version", t.Version).
		Int("frequency_limits", len(t.FrequencyLimits)).
		Int("exclusions", len(t.Exclusions)).
		Int("bundles", len(t.Bundles)).
		Int("code_families", len(t.Families)).
		Int("price_ranges", len(t.PriceRanges)).
		Int("unit_limits", len(t.UnitLimits)).
		Msg("reference tables loaded from database")

	return t, nil
}

// Seed writes a table set into the ref schema via idempotent upserts. Used
// by the loadref command to publish the builtin tables.
func Seed(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, t *Tables) error {
	for code, fl := range t.FrequencyLimits {
		if _, err := pool.Exec(ctx, embedsql.UpsertFrequencyLimit, code, string(fl.Period), fl.MaxCount); err != nil {
			return fmt.Errorf("upsert frequency limit %s: %w", code, err)
		}
	}
	for _, e := range t.Exclusions {
		for _, excluded := range e.Excluded {
			if _, err := pool.Exec(ctx, embedsql.UpsertExclusion, e.Primary, excluded, string(e.Category), e.Rationale); err != nil {
				return fmt.Errorf("upsert exclusion %s/%s: %w", e.Primary, excluded, err)
			}
		}
	}
	for comprehensive, components := range t.Bundles {
		for _, component := range components {
			if _, err := pool.Exec(ctx, embedsql.UpsertBundle, comprehensive, component); err != nil {
				return fmt.Errorf("upsert bundle %s/%s: %w", comprehensive, component, err)
			}
		}
	}
	for code, m := range t.Families {
		if _, err := pool.Exec(ctx, embedsql.UpsertCodeFamily, code, m.Family, m.Level, m.TypicalCents); err != nil {
			return fmt.Errorf("upsert code family %s: %w", code, err)
		}
	}
	for code, p := range t.PriceRanges {
		if _, err := pool.Exec(ctx, embedsql.UpsertPriceRange, code, p.MinCents, p.TypicalCents, p.MaxCents); err != nil {
			return fmt.Errorf("upsert price range %s: %w", code, err)
		}
	}
	for code, maxUnits := range t.UnitLimits {
		if _, err := pool.Exec(ctx, embedsql.UpsertUnitLimit, code, maxUnits); err != nil {
			return fmt.Errorf("upsert unit limit %s: %w", code, err)
		}
	}
	if _, err := pool.Exec(ctx, embedsql.UpsertRefVersion, t.Version); err != nil {
		return fmt.Errorf("upsert ref version: %w", err)
	}

	log.Info().Str("version", t.Version).Msg("reference tables seeded")
	return nil
}
