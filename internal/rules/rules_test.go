package rules

import (
	"errors"
	"testing"
	"time"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

func onDay(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func lineItem(code string, day *time.Time, chargeCents int64) model.LineItem {
	return model.LineItem{Code: code, ServiceDate: day, Units: 1, ChargeCents: chargeCents}
}

func claimOf(items ...model.LineItem) *model.Context {
	return &model.Context{LineItems: items}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(Core(refdata.Builtin()))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != 19 {
		t.Errorf("core rule count = %d, want 19", reg.Len())
	}

	r, err := reg.Get(DuplicateChargesID)
	if err != nil {
		t.Fatalf("Get(%s): %v", DuplicateChargesID, err)
	}
	if r.Meta.Severity != model.SeverityHigh {
		t.Errorf("duplicate charges severity = %v, want high", r.Meta.Severity)
	}

	if _, err := reg.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope): want ErrNotFound, got %v", err)
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	core := Core(refdata.Builtin())
	if _, err := NewRegistry(core, core[:1]); err == nil {
		t.Error("expected error for a duplicate rule id")
	}
	if _, err := NewRegistry(); err == nil {
		t.Error("expected error for an empty registry")
	}
}

func TestRegistryList(t *testing.T) {
	core := Core(refdata.Builtin())
	reg, err := NewRegistry(core)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	metas := reg.List()
	if len(metas) != len(core) {
		t.Fatalf("List returned %d metas, want %d", len(metas), len(core))
	}
	for i, m := range metas {
		if m.ID != core[i].Meta.ID {
			t.Errorf("List[%d] = %s, want registration order (%s)", i, m.ID, core[i].Meta.ID)
		}
	}

	for _, m := range reg.ByCategory(model.CategoryCoding) {
		if m.Category != model.CategoryCoding {
			t.Errorf("ByCategory(coding) returned %s in %s", m.ID, m.Category)
		}
	}
	for _, m := range reg.BySeverity(model.SeverityHigh) {
		if m.Severity != model.SeverityHigh {
			t.Errorf("BySeverity(high) returned %s at %v", m.ID, m.Severity)
		}
	}
}

// Every rule must degrade, not panic, on a context with missing fields.
func TestRulesDegradeOnSparseContext(t *testing.T) {
	sparse := []*model.Context{
		claimOf(),
		claimOf(model.LineItem{Code: ""}),
		claimOf(model.LineItem{Code: "99213", ChargeCents: 115_00}), // no date
		{LineItems: []model.LineItem{lineItem("99213", onDay(2024, 1, 5), 115_00)}},
	}
	for _, r := range Core(refdata.Builtin()) {
		for _, c := range sparse {
			f := r.Detector.Detect(c)
			if f.RuleID != r.Meta.ID {
				t.Errorf("%s: finding carries rule id %q", r.Meta.ID, f.RuleID)
			}
		}
	}
}
