// Package trace reads and writes branch traces.
//
// A trace is plain text with one conditional branch per line: the branch PC
// in hexadecimal (with or without a 0x prefix) followed by its outcome, 1 for
// taken and 0 for not taken. Blank lines and lines starting with '#' are
// ignored. Files ending in .gz are decompressed transparently.
package trace

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/bpsim/predictor"
)

// Branch is one resolved conditional branch.
type Branch struct {
	PC      uint32
	Outcome predictor.Outcome
}

// Source yields branches in program order. Next returns io.EOF after the
// last branch.
type Source interface {
	Next() (Branch, error)
}

// Reader parses a text trace.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next branch, or io.EOF at the end of the trace.
func (r *Reader) Next() (Branch, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		b, err := ParseLine(text)
		if err != nil {
			return Branch{}, fmt.Errorf("trace line %d: %w", r.line, err)
		}
		return b, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Branch{}, fmt.Errorf("failed to read trace: %w", err)
	}
	return Branch{}, io.EOF
}

// ParseLine parses "<hex pc> <0|1>".
func ParseLine(text string) (Branch, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Branch{}, fmt.Errorf("expected \"<pc> <outcome>\", got %q", text)
	}

	pcText := strings.TrimPrefix(strings.TrimPrefix(fields[0], "0x"), "0X")
	pc, err := strconv.ParseUint(pcText, 16, 32)
	if err != nil {
		return Branch{}, fmt.Errorf("bad pc %q: %w", fields[0], err)
	}

	var outcome predictor.Outcome
	switch fields[1] {
	case "0":
		outcome = predictor.NotTaken
	case "1":
		outcome = predictor.Taken
	default:
		return Branch{}, fmt.Errorf("bad outcome %q, want 0 or 1", fields[1])
	}

	return Branch{PC: uint32(pc), Outcome: outcome}, nil
}

// File is a trace opened from disk or stdin.
type File struct {
	*Reader
	closers []io.Closer
}

// Close releases the underlying file and decompressor.
func (f *File) Close() error {
	var firstErr error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open opens a trace file. A path of "-" reads stdin; a .gz suffix enables
// gzip decompression.
func Open(path string) (*File, error) {
	f := &File{}

	var in io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace: %w", err)
		}
		f.closers = append(f.closers, file)
		in = file
	}

	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(in)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to decompress trace: %w", err)
		}
		f.closers = append(f.closers, zr)
		in = zr
	}

	f.Reader = NewReader(in)
	return f, nil
}

// ReadAll drains a Source into a slice.
func ReadAll(src Source) ([]Branch, error) {
	var branches []Branch
	for {
		b, err := src.Next()
		if err == io.EOF {
			return branches, nil
		}
		if err != nil {
			return branches, err
		}
		branches = append(branches, b)
	}
}

// Write writes branches in trace format.
func Write(w io.Writer, branches []Branch) error {
	bw := bufio.NewWriter(w)
	for _, b := range branches {
		if _, err := fmt.Fprintf(bw, "0x%x %d\n", b.PC, b.Outcome); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
	}
	return bw.Flush()
}

// SliceSource replays an in-memory trace.
type SliceSource struct {
	branches []Branch
	pos      int
}

// NewSliceSource creates a Source over branches.
func NewSliceSource(branches []Branch) *SliceSource {
	return &SliceSource{branches: branches}
}

// Next returns the next branch, or io.EOF.
func (s *SliceSource) Next() (Branch, error) {
	if s.pos >= len(s.branches) {
		return Branch{}, io.EOF
	}
	b := s.branches[s.pos]
	s.pos++
	return b, nil
}
