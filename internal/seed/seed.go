// Package seed reads initial sandpile configurations from text streams of
// "x y grains" records.
package seed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Record is one seed line.
type Record struct {
	X, Y   int
	Grains uint64
}

// Adder receives seeded grains. *sandpile.Grid satisfies it.
type Adder interface {
	AddGrain(x, y int, count uint64)
}

// ParseError reports a malformed record.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid record %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Read parses r line by line and hands every record to fn. Blank lines and
// lines starting with '#' are skipped. Reading stops at the first malformed
// record or the first error returned by fn.
func Read(r io.Reader, fn func(Record) error) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec, err := parseRecord(text)
		if err != nil {
			return &ParseError{Line: line, Text: text, Err: err}
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return sc.Err()
}

func parseRecord(text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return Record{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("y: %w", err)
	}
	grains, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("grains: %w", err)
	}
	return Record{X: x, Y: y, Grains: grains}, nil
}

// Into reads every record from r and adds it to dst. It returns the number
// of records applied.
func Into(r io.Reader, dst Adder) (int, error) {
	n := 0
	err := Read(r, func(rec Record) error {
		dst.AddGrain(rec.X, rec.Y, rec.Grains)
		n++
		return nil
	})
	return n, err
}

// LoadFile seeds dst from the file at path.
func LoadFile(path string, dst Adder) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	n, err := Into(f, dst)
	if err != nil {
		return n, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return n, nil
}

// Write emits records in the format Read accepts.
func Write(w io.Writer, recs []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range recs {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\n", rec.X, rec.Y, rec.Grains); err != nil {
			return err
		}
	}
	return bw.Flush()
}
