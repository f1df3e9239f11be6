package lens

import (
	"fmt"
	"strings"
)

// Eqn selects the distortion equation.
type Eqn int

const (
	// Poly4 is scale = K0 + K1 r² + K2 r⁴ + K3 r⁶. Deprecated; kept to read legacy data.
	Poly4 Eqn = iota
	// RecipPoly4 is scale = 1 / (K0 + K1 r² + K2 r⁴ + K3 r⁶).
	RecipPoly4
	// CatmullRom10 is a spline through 1.0, K1 .. K10 evenly spaced in r² up to MaxR².
	CatmullRom10
)

var eqnNames = map[Eqn]string{
	Poly4:        "poly4",
	RecipPoly4:   "recippoly4",
	CatmullRom10: "catmullrom10",
}

func (e Eqn) String() string {
	if s, ok := eqnNames[e]; ok {
		return s
	}
	return fmt.Sprintf("Eqn(%d)", int(e))
}

// Valid reports whether e is a known equation.
func (e Eqn) Valid() bool {
	_, ok := eqnNames[e]
	return ok
}

// ParseEqn maps a name as produced by String back to the equation.
func ParseEqn(s string) (Eqn, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for e, name := range eqnNames {
		if name == key {
			return e, nil
		}
	}
	return 0, fmt.Errorf("lens: parse equation %q: %w", s, ErrUnsupportedDistortionKind)
}

func (e Eqn) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("lens: marshal %v: %w", e, ErrUnsupportedDistortionKind)
	}
	return []byte(e.String()), nil
}

func (e *Eqn) UnmarshalText(b []byte) error {
	v, err := ParseEqn(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
