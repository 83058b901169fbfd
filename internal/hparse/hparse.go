// Package hparse parses the CRLF-terminated header block opening each
// multipart part.
package hparse

import (
	"strings"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"

	"github.com/indigo-web/multipart/internal/strutil"
	"github.com/indigo-web/multipart/kv"
	"github.com/indigo-web/multipart/status"
)

// Parse fills the storage with headers from a block, which spans from right
// past the boundary line up to (excluding) the blank line. Header names keep
// their original casing, the storage takes care of case-insensitive lookups.
// Obsolete line folding (a continuation line led by a space or tab) extends
// the previous header's value, joined by a single space.
//
// The block may be reused by the caller afterwards: all the stored strings
// are copies.
func Parse(block []byte, into *kv.Storage) error {
	data := uf.B2S(block)

	for len(data) > 0 {
		line, rest, _ := strings.Cut(data, "\r\n")
		data = rest

		if len(line) == 0 {
			return status.ErrMalformedHeader
		}

		if line[0] == ' ' || line[0] == '\t' {
			if into.Empty() {
				return status.ErrMalformedHeader
			}

			into.Extend(" " + strutil.TrimWS(line))
			continue
		}

		colon := strings.IndexByte(line, ':')
		if colon < 1 {
			return status.ErrMalformedHeader
		}

		// RFC 7230 forbids whitespace between the field name and the colon
		if c := line[colon-1]; c == ' ' || c == '\t' {
			return status.ErrMalformedHeader
		}

		key := strings.Clone(line[:colon])
		value := strings.Clone(strutil.TrimWS(line[colon+1:]))
		into.Add(key, value)
	}

	return nil
}

// Disposition extracts the field name and the optional filename from the
// Content-Disposition header. The name parameter is obligatory for the
// form-data disposition type only; other types (e.g. attachment) may omit it.
func Disposition(headers *kv.Storage) (name, filename string, err error) {
	disp, found := headers.Get("Content-Disposition")
	if !found {
		return "", "", status.ErrNoDisposition
	}

	dtype, params := strutil.CutHeader(disp)

	for key, value := range strutil.WalkParams(params) {
		if len(key) == 0 {
			return "", "", status.ErrMalformedValue
		}

		switch {
		case strcomp.EqualFold(key, "name"):
			name = value
		case strcomp.EqualFold(key, "filename"):
			filename = value
		}
	}

	if len(name) == 0 && strcomp.EqualFold(strutil.TrimWS(dtype), "form-data") {
		return "", "", status.ErrMissingFieldName
	}

	return name, filename, nil
}

// ContentType extracts the part's media type along with the charset
// parameter, if the header is present at all.
func ContentType(headers *kv.Storage) (mime, charset string) {
	value, found := headers.Get("Content-Type")
	if !found {
		return "", ""
	}

	mime, params := strutil.CutHeader(value)
	mime = strutil.TrimWS(mime)

	for key, value := range strutil.WalkParams(params) {
		if strcomp.EqualFold(key, "charset") {
			return mime, value
		}
	}

	return mime, ""
}
