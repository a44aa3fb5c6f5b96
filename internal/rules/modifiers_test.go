package rules

import (
	"testing"

	"github.com/gyeh/claimaudit/internal/refdata"
)

func TestModifierMisuseDistinctService(t *testing.T) {
	day := onDay(2024, 1, 5)

	// Modifier 25 claims a separately identifiable E/M, but nothing else
	// was billed that day.
	alone := claimOf(lineItem("99213-25", day, 115_00))
	f := ModifierMisuse(refdata.Builtin()).Detector.Detect(alone)
	if !f.Triggered {
		t.Fatalf("modifier 25 with no other same-day service: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 115_00 {
		t.Errorf("savings = %v, want the modified item's charge (11500)", f.SavingsCents)
	}

	// With a distinct procedure that day, the modifier is supported.
	supported := claimOf(
		lineItem("99213-25", day, 115_00),
		lineItem("93000", day, 180_00),
	)
	f = ModifierMisuse(refdata.Builtin()).Detector.Detect(supported)
	if f.Triggered {
		t.Errorf("a distinct same-day procedure supports modifier 25: %s", f.Message)
	}
}

func TestModifierMisuseRepeatProcedure(t *testing.T) {
	day := onDay(2024, 1, 5)

	// Modifier 76 claims a repeat, but the code appears only once.
	alone := claimOf(
		lineItem("93000-76", day, 180_00),
		lineItem("99213", day, 115_00), // different code doesn't count
	)
	f := ModifierMisuse(refdata.Builtin()).Detector.Detect(alone)
	if !f.Triggered {
		t.Fatalf("modifier 76 without another instance of the code: %s", f.Message)
	}

	repeated := claimOf(
		lineItem("93000", day, 180_00),
		lineItem("93000-76", day, 180_00),
	)
	f = ModifierMisuse(refdata.Builtin()).Detector.Detect(repeated)
	if f.Triggered {
		t.Errorf("a same-day repeat supports modifier 76: %s", f.Message)
	}
}

func TestModifierMisuseUnknownModifier(t *testing.T) {
	c := claimOf(lineItem("99213-LT", onDay(2024, 1, 5), 115_00))
	f := ModifierMisuse(refdata.Builtin()).Detector.Detect(c)
	if f.Triggered {
		t.Errorf("modifiers outside the payment-affecting set are ignored: %s", f.Message)
	}
}
