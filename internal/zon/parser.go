package zon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrorPolicy selects what the parser does with a malformed coordinate.
type ErrorPolicy uint8

const (
	// Abort stops at the first malformed coordinate and returns it.
	Abort ErrorPolicy = iota
	// SkipAndRecord drops the line, records a Diagnostic and continues.
	SkipAndRecord
)

func (p ErrorPolicy) String() string {
	switch p {
	case Abort:
		return "abort"
	case SkipAndRecord:
		return "skip"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", uint8(p))
	}
}

// ParseErrorPolicy converts a config value ("abort", "skip" or
// "skip_and_record", any case) to an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return Abort, nil
	case "skip", "skip_and_record":
		return SkipAndRecord, nil
	default:
		return Abort, fmt.Errorf("unknown error policy %q", s)
	}
}

// Options configures a Parser. The zero value aborts on malformed numbers
// and drops short lines without a trace.
type Options struct {
	OnError ErrorPolicy

	// ReportShortLines adds a KindShortLine diagnostic for every data line
	// with fewer than ten fields. Such lines still produce no record and no error.
	ReportShortLines bool
}

// ParseResult is the outcome of one parse call.
type ParseResult struct {
	Records     []Record
	Diagnostics []Diagnostic

	// Lines is the number of lines read, sentinels and blanks included.
	Lines int
}

// Parser converts zone file text into records. A Parser holds no state
// between calls and may be shared.
type Parser struct {
	opts Options
}

// NewParser returns a Parser with the given options.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse reads every line of r and returns records in file order.
//
// With Abort, the first malformed coordinate is returned as a
// *MalformedNumberError together with the records parsed before it.
// Read failures wrap ErrIO and are returned regardless of policy.
func (p *Parser) Parse(r io.Reader) (*ParseResult, error) {
	res := &ParseResult{}
	br := bufio.NewReader(r)

	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return res, ioErr("reading zone stream", readErr)
		}
		if raw != "" {
			res.Lines++
			if err := p.parseLine(res, res.Lines, raw); err != nil {
				return res, err
			}
		}
		if readErr != nil {
			return res, nil
		}
	}
}

func (p *Parser) parseLine(res *ParseResult, n int, raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" || isSentinel(line) {
		return nil
	}

	fields := splitFields(line)
	if len(fields) < fieldCount {
		slog.Debug("short zone line skipped", "line", n, "fields", len(fields))
		if p.opts.ReportShortLines {
			res.Diagnostics = append(res.Diagnostics,
				newDiagnostic(n, KindShortLine, &ShortLineWarning{Line: n, Fields: len(fields)}))
		}
		return nil
	}

	rec, err := recordFromFields(n, fields)
	if err != nil {
		if p.opts.OnError == Abort {
			return err
		}
		slog.Debug("malformed zone line skipped", "line", n, "error", err)
		res.Diagnostics = append(res.Diagnostics, newDiagnostic(n, KindMalformedNumber, err))
		return nil
	}

	res.Records = append(res.Records, rec)
	return nil
}

// recordFromFields maps the first ten fields of line n to a Record.
func recordFromFields(n int, fields []string) (Record, error) {
	var coords [6]float64
	for i := range coords {
		idx := fieldX1 + i
		v, err := parseCoord(fields[idx])
		if err != nil {
			return Record{}, &MalformedNumberError{
				Line:  n,
				Field: idx,
				Name:  coordFieldNames[idx],
				Value: fields[idx],
				Err:   err,
			}
		}
		coords[i] = v
	}

	return Record{
		Meta: Meta{
			Name:     fields[fieldName],
			ZoneType: fields[fieldZoneType],
			Flag:     fields[fieldFlag],
			Parent:   fields[fieldParent],
		},
		Corner1: r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]},
		Corner2: r3.Vec{X: coords[3], Y: coords[4], Z: coords[5]},
		Line:    n,
	}, nil
}

// Parse reads r with default options and returns only the records.
func Parse(r io.Reader) ([]Record, error) {
	res, err := NewParser(Options{}).Parse(r)
	return res.Records, err
}

// ParseFile opens path, parses it and closes it on every path.
func ParseFile(path string, opts Options) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return &ParseResult{}, ioErr("opening zone file", err)
	}
	defer f.Close()

	res, err := NewParser(opts).Parse(f)
	if err != nil {
		return res, fmt.Errorf("parsing %s: %w", path, err)
	}
	return res, nil
}
