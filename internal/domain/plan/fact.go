package plan

import (
	"strconv"
	"strings"
)

type FactKind int

const (
	FactBool FactKind = iota
	FactNumber
	FactText
)

// FactValue is the canonical form of a world fact. Upstream producers emit
// booleans in several spellings (true, "True", "false"); every value is
// normalized here once, at the boundary, and never compared as a raw string
// afterwards.
type FactValue struct {
	Kind FactKind
	Bool bool
	Num  float64
	Text string
}

func BoolValue(b bool) FactValue {
	return FactValue{Kind: FactBool, Bool: b}
}

func NumberValue(n float64) FactValue {
	return FactValue{Kind: FactNumber, Num: n}
}

func TextValue(s string) FactValue {
	return FactValue{Kind: FactText, Text: s}
}

// ParseFactValue normalizes a raw literal. Boolean spellings collapse to
// FactBool, numeric literals to FactNumber, everything else stays text.
func ParseFactValue(raw any) FactValue {
	switch v := raw.(type) {
	case bool:
		return BoolValue(v)
	case float64:
		return NumberValue(v)
	case float32:
		return NumberValue(float64(v))
	case int:
		return NumberValue(float64(v))
	case int32:
		return NumberValue(float64(v))
	case int64:
		return NumberValue(float64(v))
	case FactValue:
		return v
	case string:
		return parseFactLiteral(v)
	default:
		return TextValue("")
	}
}

func parseFactLiteral(s string) FactValue {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return NumberValue(n)
	}
	return TextValue(s)
}

func (v FactValue) Equal(other FactValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case FactBool:
		return v.Bool == other.Bool
	case FactNumber:
		return v.Num == other.Num
	default:
		return v.Text == other.Text
	}
}

// Canonical returns a stable serialization used for fingerprints and
// visited-set keys. Two equal values always share one canonical form.
func (v FactValue) Canonical() string {
	switch v.Kind {
	case FactBool:
		if v.Bool {
			return "b:true"
		}
		return "b:false"
	case FactNumber:
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return "t:" + v.Text
	}
}

// String renders the value in clause grammar, where booleans are spelled
// "True" and "False" to match what upstream action producers emit.
func (v FactValue) String() string {
	switch v.Kind {
	case FactBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case FactNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return v.Text
	}
}
