package hmd

import "fmt"

// EyeCup identifies the lens and eye-cup insert in use. EyeCupNone is the
// zero value and means "not chosen".
type EyeCup int

const (
	EyeCupNone EyeCup = iota
	EyeCupDK1A
	EyeCupDK1B
	EyeCupDK1C
	EyeCupDK2A
	EyeCupDKHD2A
	EyeCupOrangeA
	EyeCupRedA
	EyeCupPinkA
	EyeCupBlueA
	EyeCupDelilah1A
	EyeCupDelilah2A
	EyeCupJamesA
	EyeCupSunMandalaA
	eyeCupCount
)

var eyeCupNames = [...]string{
	EyeCupNone:        "None",
	EyeCupDK1A:        "DK1 A",
	EyeCupDK1B:        "DK1 B",
	EyeCupDK1C:        "DK1 C",
	EyeCupDK2A:        "DK2 A",
	EyeCupDKHD2A:      "DKHD2 A",
	EyeCupOrangeA:     "Orange A",
	EyeCupRedA:        "Red A",
	EyeCupPinkA:       "Pink A",
	EyeCupBlueA:       "Blue A",
	EyeCupDelilah1A:   "Delilah 1 A",
	EyeCupDelilah2A:   "Delilah 2 A",
	EyeCupJamesA:      "James A",
	EyeCupSunMandalaA: "Sun Mandala A",
}

func (c EyeCup) String() string {
	if c.Valid() {
		return eyeCupNames[c]
	}
	return fmt.Sprintf("EyeCup(%d)", int(c))
}

// Valid reports whether c is one of the declared cups or EyeCupNone.
func (c EyeCup) Valid() bool {
	return c >= EyeCupNone && c < eyeCupCount
}

func (c EyeCup) isDK1() bool {
	return c == EyeCupDK1A || c == EyeCupDK1B || c == EyeCupDK1C
}

// EyeCupFromProfile maps the short code stored under the EyeCup profile
// key. Codes it does not know select the DK1 A cup.
func EyeCupFromProfile(code string) EyeCup {
	switch code {
	case "A":
		return EyeCupDK1A
	case "B":
		return EyeCupDK1B
	case "C":
		return EyeCupDK1C
	case "Orange A":
		return EyeCupOrangeA
	case "Red A":
		return EyeCupRedA
	case "Pink A":
		return EyeCupPinkA
	case "Blue A":
		return EyeCupBlueA
	}
	return EyeCupDK1A
}

// ParseEyeCup accepts a debug name such as "DK2 A" or a profile code.
// An empty string is EyeCupNone.
func ParseEyeCup(s string) (EyeCup, error) {
	switch s {
	case "":
		return EyeCupNone, nil
	case "A", "B", "C":
		return EyeCupFromProfile(s), nil
	}
	for i, name := range eyeCupNames {
		if name == s {
			return EyeCup(i), nil
		}
	}
	return EyeCupNone, fmt.Errorf("hmd: eye cup %q: %w", s, ErrUnknownEyeCup)
}
