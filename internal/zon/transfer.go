package zon

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// BoxHandle identifies a box created by a BoxFactory. Its meaning belongs
// to the factory.
type BoxHandle string

// BoxFactory creates one box in the host scene per imported record.
type BoxFactory interface {
	CreateBox(rec Record) (BoxHandle, error)
}

// BoxFactoryFunc adapts a function to BoxFactory.
type BoxFactoryFunc func(rec Record) (BoxHandle, error)

// CreateBox calls f(rec).
func (f BoxFactoryFunc) CreateBox(rec Record) (BoxHandle, error) { return f(rec) }

// BoxGeometry exposes the current world-space extent of a box.
type BoxGeometry interface {
	WorldMin() r3.Vec
	WorldMax() r3.Vec
}

// Source is a host object that can be exported. Objects that report no
// zone metadata are left out of the file.
type Source interface {
	BoxGeometry
	ZoneMeta() (Meta, bool)
}

// ImportReport summarises an import.
type ImportReport struct {
	Imported    int
	Handles     []BoxHandle
	Diagnostics []Diagnostic
}

// ExportReport summarises an export.
type ExportReport struct {
	Exported int
	Skipped  int
}

// Import parses r and calls f once per record, in file order.
//
// Parsing completes before the first CreateBox call: with the Abort policy
// a malformed line means no box is created at all. A factory error stops
// the import; boxes created before it are reported in Handles.
func Import(r io.Reader, f BoxFactory, opts Options) (ImportReport, error) {
	res, err := NewParser(opts).Parse(r)
	if err != nil {
		return ImportReport{Diagnostics: res.Diagnostics}, err
	}

	rep := ImportReport{
		Handles:     make([]BoxHandle, 0, len(res.Records)),
		Diagnostics: res.Diagnostics,
	}
	for _, rec := range res.Records {
		h, err := f.CreateBox(rec)
		if err != nil {
			return rep, fmt.Errorf("creating box %q (line %d): %w", rec.Name, rec.Line, err)
		}
		rep.Handles = append(rep.Handles, h)
		rep.Imported++
	}
	return rep, nil
}

// ImportFile opens path and imports it. The file is closed on every path.
func ImportFile(path string, f BoxFactory, opts Options) (ImportReport, error) {
	fh, err := os.Open(path)
	if err != nil {
		return ImportReport{}, ioErr("opening zone file", err)
	}
	defer fh.Close()

	rep, err := Import(fh, f, opts)
	if err != nil {
		return rep, fmt.Errorf("importing %s: %w", path, err)
	}
	slog.Info("imported zones", "path", path, "count", rep.Imported, "diagnostics", len(rep.Diagnostics))
	return rep, nil
}

// Collect turns sources into writer entries, recomputing each extent from
// the live geometry. Sources without zone metadata are counted as skipped.
func Collect(srcs []Source) (entries []Bounded, skipped int) {
	entries = make([]Bounded, 0, len(srcs))
	for _, s := range srcs {
		meta, ok := s.ZoneMeta()
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, BoundedFrom(meta, s))
	}
	return entries, skipped
}

// Export writes every zone-carrying source to w.
func Export(w io.Writer, srcs []Source) (ExportReport, error) {
	entries, skipped := Collect(srcs)
	n, err := Write(w, entries)
	return ExportReport{Exported: n, Skipped: skipped}, err
}

// ExportFile writes every zone-carrying source to path, replacing its contents.
func ExportFile(path string, srcs []Source) (ExportReport, error) {
	entries, skipped := Collect(srcs)
	n, err := WriteFile(path, entries)
	rep := ExportReport{Exported: n, Skipped: skipped}
	if err != nil {
		return rep, err
	}
	slog.Info("exported zones", "path", path, "count", rep.Exported, "skipped", rep.Skipped)
	return rep, nil
}
