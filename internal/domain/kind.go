package domain

import "fmt"

// Kind identifies which test pipeline produced a result
type Kind int

const (
	// KindComparison diffs the solution's output against a reference solution
	KindComparison Kind = iota
	// KindValidation checks the solution's output with a validator program
	KindValidation
	// KindBenchmark measures the solution against time and memory limits
	KindBenchmark
)

// String returns the kind's name for display and storage
func (k Kind) String() string {
	switch k {
	case KindComparison:
		return "comparison"
	case KindValidation:
		return "validation"
	case KindBenchmark:
		return "benchmark"
	default:
		panic(fmt.Sprintf("domain: unknown kind %d", int(k)))
	}
}

// ParseKind converts a stored kind name back to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "comparison":
		return KindComparison, nil
	case "validation":
		return KindValidation, nil
	case "benchmark":
		return KindBenchmark, nil
	}
	return 0, fmt.Errorf("unknown test kind %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
