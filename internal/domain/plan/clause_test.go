package plan

import (
	"errors"
	"testing"
)

func TestParseClause(t *testing.T) {
	c, err := ParseClause("at_kitchen=True")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Fact != "at_kitchen" || !c.Value.Equal(BoolValue(true)) {
		t.Fatalf("unexpected clause %+v", c)
	}
}

func TestParseClauseMalformed(t *testing.T) {
	for _, raw := range []string{"", "no_equals", "=value"} {
		_, err := ParseClause(raw)
		var malformed *MalformedClauseError
		if !errors.As(err, &malformed) {
			t.Fatalf("ParseClause(%q): expected MalformedClauseError, got %v", raw, err)
		}
	}
}

func TestParseClauseKeepsLiteralValues(t *testing.T) {
	c, err := ParseClause("holding=red_cup")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Value.Kind != FactText || c.Value.Text != "red_cup" {
		t.Fatalf("literal value should stay text, got %+v", c.Value)
	}
}

func TestHolds(t *testing.T) {
	state := NewState(map[string]any{"at_living_room": true, "door_open": "False"})

	clauses, err := ParseClauses([]string{"at_living_room=True", "door_open=False"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !Holds(clauses, state) {
		t.Fatal("clauses should hold against normalized state")
	}

	missing, _ := ParseClauses([]string{"at_kitchen=True"})
	if Holds(missing, state) {
		t.Fatal("missing fact must fail the clause")
	}

	if !Holds(nil, state) {
		t.Fatal("empty clause list is trivially satisfied")
	}
}
