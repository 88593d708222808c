package dom

import (
	"unicode/utf16"

	"github.com/rivo/uniseg"
)

// graphemeBoundaryBefore returns the largest grapheme cluster boundary in
// units that is not greater than limit. Only limit+2 code units are examined:
// whether a break exists at limit depends on the code units before it and
// the one after, which may be half of a surrogate pair.
func graphemeBoundaryBefore(units []uint16, limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit >= len(units) {
		return len(units)
	}
	window := units[:min(len(units), limit+2)]
	g := uniseg.NewGraphemes(fromUnits(window))
	pos := 0
	for g.Next() {
		n := 0
		for _, r := range g.Runes() {
			n += unitLen(r)
		}
		if pos+n > limit {
			break
		}
		pos += n
	}
	return pos
}

// ClusterLen returns the length in code units of the grapheme cluster that
// starts at offset. Text is decoded in growing windows from offset.
func (t UTF16Text) ClusterLen(offset int) int {
	if offset < 0 || offset >= len(t.units) {
		return 0
	}
	rest := t.units[offset:]
	for size := 16; ; size *= 2 {
		window := rest[:min(size, len(rest))]
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(fromUnits(window), -1)
		n := UTF16Length(cluster)
		// The unit after the cluster must be whole for the break to count.
		if n+2 <= len(window) || len(window) == len(rest) {
			return n
		}
	}
}

// IsGraphemeBoundary reports whether offset (in UTF-16 code units) falls on
// a grapheme cluster boundary of s.
func IsGraphemeBoundary(s string, offset int) bool {
	units := toUnits(s)
	if offset <= 0 || offset >= len(units) {
		return offset == 0 || offset == len(units)
	}
	return graphemeBoundaryBefore(units, offset) == offset
}

func unitLen(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
