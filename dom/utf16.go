package dom

import "unicode/utf16"

// Character data is stored as UTF-16 code units so that offsets and lengths
// match what scripts observe. These helpers convert at the Go string boundary.

// UTF16Length returns the length of a string in UTF-16 code units.
func UTF16Length(s string) int {
	n := 0
	for _, r := range s {
		n += unitLen(r)
	}
	return n
}

// UTF16Text is a string encoded once as UTF-16 code units, for callers that
// consume it in offset-addressed pieces.
type UTF16Text struct {
	units []uint16
}

// EncodeUTF16 encodes s for repeated offset-based access.
func EncodeUTF16(s string) UTF16Text {
	return UTF16Text{units: toUnits(s)}
}

// Len returns the length in code units.
func (t UTF16Text) Len() int {
	return len(t.units)
}

// toUnits converts a Go string to UTF-16 code units.
func toUnits(s string) []uint16 {
	if s == "" {
		return nil
	}
	return utf16.Encode([]rune(s))
}

// fromUnits converts UTF-16 code units back to a Go string. Unpaired
// surrogates decode to U+FFFD.
func fromUnits(units []uint16) string {
	if len(units) == 0 {
		return ""
	}
	return string(utf16.Decode(units))
}
