package plan

import "testing"

func TestParseFactValueNormalizesBooleanSpellings(t *testing.T) {
	cases := []any{true, "True", "true", " TRUE "}
	want := BoolValue(true)
	for _, raw := range cases {
		got := ParseFactValue(raw)
		if !got.Equal(want) {
			t.Fatalf("ParseFactValue(%v) = %+v, want canonical true", raw, got)
		}
	}

	f := ParseFactValue("False")
	if f.Kind != FactBool || f.Bool {
		t.Fatalf("expected canonical false, got %+v", f)
	}
}

func TestParseFactValueNumbersAndText(t *testing.T) {
	if v := ParseFactValue("42"); v.Kind != FactNumber || v.Num != 42 {
		t.Fatalf("expected number 42, got %+v", v)
	}
	if v := ParseFactValue(3); v.Kind != FactNumber || v.Num != 3 {
		t.Fatalf("expected number 3, got %+v", v)
	}
	if v := ParseFactValue("kitchen"); v.Kind != FactText || v.Text != "kitchen" {
		t.Fatalf("expected text kitchen, got %+v", v)
	}
}

func TestFactValueEqualAcrossKinds(t *testing.T) {
	if BoolValue(true).Equal(TextValue("true")) {
		t.Fatal("bool and text must not compare equal")
	}
	if !ParseFactValue("True").Equal(ParseFactValue(true)) {
		t.Fatal("stringified and native booleans must normalize to the same value")
	}
}

func TestFactValueCanonicalIsStable(t *testing.T) {
	a := ParseFactValue("true").Canonical()
	b := ParseFactValue(true).Canonical()
	if a != b {
		t.Fatalf("canonical forms diverge: %q vs %q", a, b)
	}
	if ParseFactValue("1").Canonical() == ParseFactValue("true").Canonical() {
		t.Fatal("number 1 and boolean true must not share a canonical form")
	}
}
