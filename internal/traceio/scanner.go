// Package traceio tokenizes the line-oriented trace format of §6 into
// driver.Reference values, streaming from an io.Reader rather than
// requiring the whole trace resident in memory.
package traceio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/archsim/cachesim/internal/driver"
)

// A WarningFunc is called once per malformed line, with the 1-based line
// number and the raw text, instead of aborting the scan (§7: "recovered
// locally... warn... skip the line; continue").
type WarningFunc func(lineNumber int, raw string, reason string)

// Scanner implements driver.Source over an io.Reader, one trace line ahead
// of the caller at a time.
type Scanner struct {
	scanner *bufio.Scanner
	warn    WarningFunc
	line    int
}

// NewScanner returns a Scanner reading from r. warn may be nil, in which
// case malformed lines are skipped silently.
func NewScanner(r io.Reader, warn WarningFunc) *Scanner {
	if warn == nil {
		warn = func(int, string, string) {}
	}
	return &Scanner{scanner: bufio.NewScanner(r), warn: warn}
}

// Next returns the next well-formed reference, skipping blank lines,
// comment lines, and malformed lines (each malformed line triggers warn).
// It returns (driver.Reference{}, false) once the underlying reader is
// exhausted.
func (s *Scanner) Next() (driver.Reference, bool) {
	for s.scanner.Scan() {
		s.line++
		raw := s.scanner.Text()
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		ref, err := parseLine(trimmed)
		if err != nil {
			s.warn(s.line, raw, err.Error())
			continue
		}
		return ref, true
	}
	return driver.Reference{}, false
}

func parseLine(line string) (driver.Reference, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return driver.Reference{}, fmt.Errorf("expected \"<op> <hex_address>\", got %q", line)
	}

	var op driver.Op
	switch fields[0] {
	case "r":
		op = driver.OpRead
	case "w":
		op = driver.OpWrite
	default:
		return driver.Reference{}, fmt.Errorf("unknown operation %q", fields[0])
	}

	hex := fields[1]
	if len(hex) == 0 || len(hex) > 8 {
		return driver.Reference{}, fmt.Errorf("address %q must be 1-8 hex digits", hex)
	}

	address, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return driver.Reference{}, fmt.Errorf("address %q is not valid hex", hex)
	}
	if address > 0xFFFFFFFF {
		return driver.Reference{}, fmt.Errorf("address %q overflows 32 bits", hex)
	}

	return driver.Reference{Op: op, Address: address}, nil
}
