package svg

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is an item of an SVGPointList.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return formatNumber(p.X) + "," + formatNumber(p.Y)
}

// ParseNumbers parses a list of numbers separated by whitespace and/or a
// single comma, as used by the rotate and points attributes.
func ParseNumbers(s string) ([]float64, error) {
	var (
		nums      []float64
		sawComma  bool
		lastComma int
	)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isSpace(c):
			i++
		case c == ',':
			if sawComma || len(nums) == 0 {
				return nil, fmt.Errorf("svg: unexpected ',' at offset %d", i)
			}
			sawComma = true
			lastComma = i
			i++
		default:
			end := scanNumber(s, i)
			if end == i {
				return nil, fmt.Errorf("svg: expected number at offset %d", i)
			}
			f, err := strconv.ParseFloat(s[i:end], 64)
			if err != nil {
				return nil, fmt.Errorf("svg: invalid number %q: %w", s[i:end], err)
			}
			nums = append(nums, f)
			sawComma = false
			i = end
		}
	}
	if sawComma {
		return nil, fmt.Errorf("svg: trailing ',' at offset %d", lastComma)
	}
	return nums, nil
}

// scanNumber returns the end of the number starting at s[i], or i when there
// is none. Numbers follow the SVG grammar: optional sign, digits with an
// optional fraction, optional exponent.
func scanNumber(s string, i int) int {
	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	digits := 0
	for j < len(s) && isDigit(s[j]) {
		j++
		digits++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
	}
	if digits == 0 {
		return i
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

// FormatNumbers serializes numbers separated by single spaces.
func FormatNumbers(nums []float64) string {
	parts := make([]string, len(nums))
	for i, f := range nums {
		parts[i] = formatNumber(f)
	}
	return strings.Join(parts, " ")
}

// ParsePoints parses a points attribute. An odd number of coordinates is an
// error.
func ParsePoints(s string) ([]Point, error) {
	nums, err := ParseNumbers(s)
	if err != nil {
		return nil, err
	}
	if len(nums)%2 != 0 {
		return nil, fmt.Errorf("svg: odd number of coordinates (%d)", len(nums))
	}
	points := make([]Point, 0, len(nums)/2)
	for i := 0; i < len(nums); i += 2 {
		points = append(points, Point{X: nums[i], Y: nums[i+1]})
	}
	return points, nil
}

// FormatPoints serializes points as "x,y x,y".
func FormatPoints(points []Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// ParseStrings splits a string list on whitespace and commas.
func ParseStrings(s string) ([]string, error) {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
	}), nil
}

// FormatStrings joins strings with single spaces.
func FormatStrings(items []string) string {
	return strings.Join(items, " ")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
