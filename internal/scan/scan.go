package scan

import "bytes"

type Verdict uint8

const (
	// NoMatch means no byte of the data can belong to a delimiter, so the
	// whole buffer may be flushed.
	NoMatch Verdict = iota
	// Possible means the buffer's tail starting at Match.Begin may turn out
	// to be a delimiter once more data arrives. The tail must be retained.
	Possible
	// Found means a complete delimiter occupies [Match.Begin, Match.End).
	Found
)

type Match struct {
	// Begin is the index of the delimiter's leading CRLF (or of the retained
	// tail for Possible).
	Begin int
	// End is the index right past the delimiter, including its transport
	// padding and the trailing CRLF (or the closing dashes).
	End int
	// Final reports the terminal delimiter, suffixed with "--".
	Final bool
}

// Scanner locates `CRLF "--" boundary` delimiters in raw byte buffers. The
// search is byte-exact: boundary-like substrings in binary part content never
// match, as the delimiter is always anchored to the leading CRLF.
type Scanner struct {
	marker []byte
}

func New(boundary string) Scanner {
	return Scanner{marker: []byte("\r\n--" + boundary)}
}

// Find locates the first complete delimiter in data. When the data ends in
// the middle of what still may become one, Possible is reported instead, and
// the caller must keep the bytes starting at Match.Begin until more data
// arrives. NoMatch guarantees the buffer contains no delimiter prefix at all.
func (s Scanner) Find(data []byte) (Match, Verdict) {
	offset := 0

	for {
		idx := bytes.Index(data[offset:], s.marker)
		if idx == -1 {
			break
		}

		begin := offset + idx
		match, verdict, ok := s.classify(data, begin, begin+len(s.marker))
		if ok {
			return match, verdict
		}

		offset = begin + 1
	}

	if tail := partialSuffix(data, s.marker); tail != -1 {
		return Match{Begin: tail}, Possible
	}

	return Match{}, NoMatch
}

// FindOpening behaves as Find, but additionally accepts a bare `"--" boundary`
// at the zero offset, as the opening delimiter at the very start of a body
// carries no leading CRLF.
func (s Scanner) FindOpening(data []byte) (Match, Verdict) {
	delim := s.marker[2:]
	head := min(len(delim), len(data))

	if bytes.Equal(data[:head], delim[:head]) {
		if head < len(delim) {
			return Match{Begin: 0}, Possible
		}

		if match, verdict, ok := s.classify(data, 0, len(delim)); ok {
			return match, verdict
		}
	}

	return s.Find(data)
}

// classify inspects the bytes following the boundary in order to tell a part
// delimiter (optional padding, then CRLF) from the terminal one (double dash).
// Not-ok means the occurrence is a lookalike and the search must go on.
func (s Scanner) classify(data []byte, begin, pos int) (Match, Verdict, bool) {
	if pos == len(data) {
		return Match{Begin: begin}, Possible, true
	}

	if data[pos] == '-' {
		if pos+1 == len(data) {
			return Match{Begin: begin}, Possible, true
		}

		if data[pos+1] == '-' {
			return Match{Begin: begin, End: pos + 2, Final: true}, Found, true
		}

		return Match{}, NoMatch, false
	}

	// transport padding between the boundary and its line terminator is
	// legal per RFC 2046
	for pos < len(data) && (data[pos] == ' ' || data[pos] == '\t') {
		pos++
	}

	switch {
	case pos == len(data):
		return Match{Begin: begin}, Possible, true
	case data[pos] != '\r':
		return Match{}, NoMatch, false
	case pos+1 == len(data):
		return Match{Begin: begin}, Possible, true
	case data[pos+1] == '\n':
		return Match{Begin: begin, End: pos + 2}, Found, true
	default:
		return Match{}, NoMatch, false
	}
}

// partialSuffix returns the start of the longest data suffix which is a
// proper prefix of the marker, or -1 if there's none.
func partialSuffix(data, marker []byte) int {
	longest := min(len(marker)-1, len(data))

	for k := longest; k > 0; k-- {
		if bytes.Equal(data[len(data)-k:], marker[:k]) {
			return len(data) - k
		}
	}

	return -1
}
