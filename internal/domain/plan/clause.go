package plan

import (
	"fmt"
	"strings"
)

// Clause is one parsed "fact=value" condition. Lists of clauses are an
// implicit conjunction; equality is the only operator, negation is spelled
// as the literal value "False".
type Clause struct {
	Fact  string
	Value FactValue
}

type MalformedClauseError struct {
	Raw string
}

func (e *MalformedClauseError) Error() string {
	return fmt.Sprintf("malformed clause %q: want fact=value", e.Raw)
}

func ParseClause(raw string) (Clause, error) {
	fact, value, ok := strings.Cut(raw, "=")
	fact = strings.TrimSpace(fact)
	if !ok || fact == "" {
		return Clause{}, &MalformedClauseError{Raw: raw}
	}
	return Clause{Fact: fact, Value: parseFactLiteral(value)}, nil
}

func ParseClauses(raws []string) ([]Clause, error) {
	out := make([]Clause, 0, len(raws))
	for _, raw := range raws {
		c, err := ParseClause(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Holds reports whether every clause is satisfied by the state. A fact
// missing from the state fails the clause that names it.
func Holds(clauses []Clause, state State) bool {
	_, ok := firstUnmet(clauses, state)
	return !ok
}

func firstUnmet(clauses []Clause, state State) (Clause, bool) {
	for _, c := range clauses {
		actual, ok := state[c.Fact]
		if !ok || !actual.Equal(c.Value) {
			return c, true
		}
	}
	return Clause{}, false
}

func (c Clause) String() string {
	return c.Fact + "=" + c.Value.String()
}
