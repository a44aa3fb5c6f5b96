package sql

import "embed"

// Migrations holds the embedded DDL for the ref schema.
//
//go:embed migrations
var Migrations embed.FS

//go:embed queries/select_frequency_limits.sql
var SelectFrequencyLimits string

//go:embed queries/select_exclusions.sql
var SelectExclusions string

//go:embed queries/select_bundles.sql
var SelectBundles string

//go:embed queries/select_code_families.sql
var SelectCodeFamilies string

//go:embed queries/select_price_ranges.sql
var SelectPriceRanges string

//go:embed queries/select_unit_limits.sql
var SelectUnitLimits string

//go:embed queries/select_ref_version.sql
var SelectRefVersion string

//go:embed queries/upsert_frequency_limit.sql
var UpsertFrequencyLimit string

//go:embed queries/upsert_exclusion.sql
var UpsertExclusion string

//go:embed queries/upsert_bundle.sql
var UpsertBundle string

//go:embed queries/upsert_code_family.sql
var UpsertCodeFamily string

//go:embed queries/upsert_price_range.sql
var UpsertPriceRange string

//go:embed queries/upsert_unit_limit.sql
var UpsertUnitLimit string

//go:embed queries/upsert_ref_version.sql
var UpsertRefVersion string
