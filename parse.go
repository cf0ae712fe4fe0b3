package hosttriple

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

const hostPrefix = "host: "

// Strategy selects how the host line is located in the output.
type Strategy int

const (
	// LineScan walks the output line by line.
	LineScan Strategy = iota
	// ByteScan searches the raw bytes for the prefix. Same results as
	// LineScan, fewer allocations on large outputs.
	ByteScan
)

func (s Strategy) String() string {
	switch s {
	case LineScan:
		return "lines"
	case ByteScan:
		return "bytes"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses "lines" or "bytes". An empty name is LineScan.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "lines":
		return LineScan, nil
	case "bytes":
		return ByteScan, nil
	default:
		return LineScan, fmt.Errorf("unknown strategy %q (want lines or bytes)", name)
	}
}

// Parse extracts the host triple from captured `rustc -vV` output.
//
// The whole buffer must be valid UTF-8; otherwise an InvalidEncoding
// error is returned before any scanning. The result is the text after
// "host: " on the first line carrying that prefix, up to "\n" or "\r\n"
// or the end of the buffer. A "\r" not followed by "\n" is kept.
func Parse(stdout []byte, s Strategy) (string, error) {
	if off := invalidUTF8Offset(stdout); off >= 0 {
		return "", &Error{Kind: InvalidEncoding, Err: &InvalidUTF8Error{Offset: off}}
	}

	var (
		host string
		ok   bool
	)
	switch s {
	case ByteScan:
		host, ok = scanBytes(stdout)
	default:
		host, ok = scanLines(string(stdout))
	}
	if !ok {
		return "", &Error{Kind: UnexpectedStructure}
	}
	return host, nil
}

// invalidUTF8Offset returns the offset of the first invalid sequence, or -1.
func invalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

func scanLines(out string) (string, bool) {
	for out != "" {
		line, rest, found := strings.Cut(out, "\n")
		if found {
			line = strings.TrimSuffix(line, "\r")
		}
		if host, ok := strings.CutPrefix(line, hostPrefix); ok {
			return host, true
		}
		out = rest
	}
	return "", false
}

var (
	hostPrefixBytes   = []byte(hostPrefix)
	hostPrefixNewline = []byte("\n" + hostPrefix)
)

func scanBytes(out []byte) (string, bool) {
	var start int
	if bytes.HasPrefix(out, hostPrefixBytes) {
		start = len(hostPrefixBytes)
	} else {
		i := bytes.Index(out, hostPrefixNewline)
		if i < 0 {
			return "", false
		}
		start = i + len(hostPrefixNewline)
	}

	rest := out[start:]
	if end := bytes.IndexByte(rest, '\n'); end >= 0 {
		rest = bytes.TrimSuffix(rest[:end], []byte{'\r'})
	}
	return string(rest), true
}
