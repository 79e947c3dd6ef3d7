package zon

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	headerLine = "zone"
	footerLine = "end"

	// fieldCount is the minimum number of fields in a record line.
	// Anything past the tenth field is ignored.
	fieldCount = 10

	coordPrecision = 3
	fieldSep       = ", "
)

// Field positions within a record line.
const (
	fieldName = iota
	fieldZoneType
	fieldX1
	fieldY1
	fieldZ1
	fieldX2
	fieldY2
	fieldZ2
	fieldFlag
	fieldParent
)

var coordFieldNames = [...]string{
	fieldX1: "x1",
	fieldY1: "y1",
	fieldZ1: "z1",
	fieldX2: "x2",
	fieldY2: "y2",
	fieldZ2: "z2",
}

var errNotFinite = errors.New("not a finite number")

// isSentinel reports whether a trimmed line is the header or the footer.
func isSentinel(line string) bool {
	return strings.EqualFold(line, headerLine) || strings.EqualFold(line, footerLine)
}

// splitFields splits a trimmed line on commas and trims every field.
func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// parseCoord parses a decimal coordinate and rejects NaN, infinities,
// hexadecimal floats and digit separators.
func parseCoord(s string) (float64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	if strings.ContainsAny(s, "xX_") {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// appendCoord formats v with three decimals and '.' as the separator,
// independent of locale.
func appendCoord(dst []byte, v float64) []byte {
	return strconv.AppendFloat(dst, v, 'f', coordPrecision, 64)
}

// FormatCoord formats a coordinate the way the writer does.
func FormatCoord(v float64) string {
	return string(appendCoord(nil, v))
}

// AppendLine appends the record line for b, without the trailing newline.
func AppendLine(dst []byte, b Bounded) []byte {
	dst = append(dst, b.Name...)
	dst = append(dst, fieldSep...)
	dst = append(dst, b.ZoneType...)
	for _, v := range [6]float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		dst = append(dst, fieldSep...)
		dst = appendCoord(dst, v)
	}
	dst = append(dst, fieldSep...)
	dst = append(dst, b.Flag...)
	dst = append(dst, fieldSep...)
	dst = append(dst, b.Parent...)
	return dst
}
