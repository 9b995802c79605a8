package finance

import (
	"bytes"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Number is a JSON number that never fails to decode. Numbers and numeric strings
// are read the way a lenient form parser reads them (leading numeric prefix);
// anything else, including null, decodes as zero.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var err error
		if data, err = unquote(data); err != nil {
			*n = 0
			return nil
		}
	}
	*n = Number(ParseLenient(string(data)))
	return nil
}

func (n Number) Float() float64 {
	return float64(n)
}

// Int truncates toward zero. Values beyond the int32 range saturate so callers
// can reject them instead of overflowing.
func (n Number) Int() int {
	v := math.Trunc(float64(n))
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}

// ParseLenient returns the numeric prefix of raw, or 0 when there is none.
func ParseLenient(raw string) float64 {
	match := numericPrefix.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

func unquote(data []byte) ([]byte, error) {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
