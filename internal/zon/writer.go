package zon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Write emits a complete zone file to w: the header, one line per entry
// with the minimum corner first, and the footer. It returns the number of
// entry lines handed to w.
//
// A failure part-way leaves w with a truncated file; nothing is rolled back.
func Write(w io.Writer, entries []Bounded) (int, error) {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(headerLine + "\n"); err != nil {
		return 0, ioErr("writing header", err)
	}

	line := make([]byte, 0, 128)
	for i, e := range entries {
		// Повторная нормализация: вызывающая сторона могла передать углы в любом порядке.
		e.Min, e.Max = minMax(e.Min, e.Max)

		line = AppendLine(line[:0], e)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return i, ioErr(fmt.Sprintf("writing zone %q", e.Name), err)
		}
	}

	if _, err := bw.WriteString(footerLine + "\n"); err != nil {
		return len(entries), ioErr("writing footer", err)
	}
	if err := bw.Flush(); err != nil {
		return len(entries), ioErr("flushing zone stream", err)
	}
	return len(entries), nil
}

// WriteFile creates or truncates path and writes entries to it.
// The file is closed on every path; a close failure is reported.
func WriteFile(path string, entries []Bounded) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, ioErr("creating zone file", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, ioErr("closing zone file", cerr))
		}
	}()

	n, err = Write(f, entries)
	if err != nil {
		return n, fmt.Errorf("writing %s: %w", path, err)
	}
	return n, nil
}
