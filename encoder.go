package multipart

import (
	"bytes"
	"io"
	"iter"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"

	"github.com/indigo-web/multipart/kv"
	"github.com/indigo-web/multipart/mime"
)

// Field describes a single part to be encoded. The descriptor must stay
// unchanged for the duration of the encode.
type Field struct {
	Name     string
	Filename string
	// ContentType is emitted as the part's Content-Type header when non-empty.
	ContentType mime.MIME
	// Headers are extra headers to serialize along. May be nil.
	// Content-Disposition entries are skipped, as the header is always
	// generated; so is Content-Type whenever ContentType is set.
	Headers *kv.Storage
	// Body is pulled lazily and exactly once, so it may well be a single-pass
	// stream. Nil stands for an empty body.
	Body iter.Seq[[]byte]
	// Size is the body length in bytes when known in advance, -1 otherwise.
	// The field helpers fill it in; it only matters for ContentLength.
	Size int64
}

// Encode serializes the fields, in the given order, into a lazy sequence of
// byte chunks forming a valid multipart body. The sequence is single-pass
// and not restartable, as field bodies may themselves be single-pass. An
// empty field list still produces a valid, single-terminal-boundary body.
//
// The boundary is used verbatim; run ValidateBoundary beforehand if it comes
// from an untrusted place.
func Encode(boundary string, fields []Field) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, field := range fields {
			if !yield(field.prelude(boundary)) {
				return
			}

			if field.Body == nil {
				continue
			}

			for chunk := range field.Body {
				if !yield(chunk) {
					return
				}
			}
		}

		yield([]byte("\r\n--" + boundary + "--\r\n"))
	}
}

// ContentType renders the value for a Content-Type header advertising this
// body.
func ContentType(boundary string) string {
	return mime.Multipart + "; boundary=" + boundary
}

// ContentLength pre-computes the exact encoded body length. It fails if any
// field's body size isn't known in advance; such bodies are to be sent with
// chunked transfer encoding instead.
func ContentLength(boundary string, fields []Field) (n int64, ok bool) {
	n = int64(len(boundary)) + int64(len("\r\n----\r\n"))

	for _, field := range fields {
		if field.Size < 0 {
			return 0, false
		}

		n += int64(len(field.prelude(boundary))) + field.Size
	}

	return n, true
}

// prelude renders the delimiter plus the serialized header block, up to and
// including the blank line the body starts after.
func (f Field) prelude(boundary string) []byte {
	var b bytes.Buffer

	b.WriteString("\r\n--")
	b.WriteString(boundary)
	b.WriteString("\r\nContent-Disposition: form-data; name=\"")
	b.WriteString(escapeQuotes(f.Name))
	b.WriteByte('"')

	if len(f.Filename) > 0 {
		b.WriteString("; filename=\"")
		b.WriteString(escapeQuotes(f.Filename))
		b.WriteByte('"')
	}

	b.WriteString("\r\n")

	if len(f.ContentType) > 0 {
		b.WriteString("Content-Type: ")
		b.WriteString(f.ContentType)
		b.WriteString("\r\n")
	}

	if f.Headers != nil {
		for key, value := range f.Headers.Pairs() {
			if strcomp.EqualFold(key, "Content-Disposition") {
				continue
			}

			if len(f.ContentType) > 0 && strcomp.EqualFold(key, "Content-Type") {
				continue
			}

			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\r\n")
		}
	}

	b.WriteString("\r\n")

	return b.Bytes()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// StringField builds a plain text field.
func StringField(name, value string) Field {
	return Field{
		Name: name,
		Body: oneChunk(uf.S2B(value)),
		Size: int64(len(value)),
	}
}

// BytesField builds a field carrying raw bytes.
func BytesField(name string, value []byte) Field {
	return Field{
		Name: name,
		Body: oneChunk(value),
		Size: int64(len(value)),
	}
}

// FileField builds a file part with in-memory content.
func FileField(name, filename string, contentType mime.MIME, content []byte) Field {
	return Field{
		Name:        name,
		Filename:    filename,
		ContentType: contentType,
		Body:        oneChunk(content),
		Size:        int64(len(content)),
	}
}

// JSONField marshals the value and builds an application/json field of it.
func JSONField(name string, value any) (Field, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return Field{}, err
	}

	return Field{
		Name:        name,
		ContentType: mime.JSON,
		Body:        oneChunk(encoded),
		Size:        int64(len(encoded)),
	}, nil
}

// Reader adapts an io.Reader into a lazy body chunk sequence. The read
// buffer is reused, so each chunk is valid until the next one is pulled.
// Field.Size stays unknown; set it manually if the total is known upfront.
func Reader(r io.Reader) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		buff := make([]byte, 4096)

		for {
			n, err := r.Read(buff)
			if n > 0 {
				if !yield(buff[:n]) {
					return
				}
			}

			if err != nil {
				return
			}
		}
	}
}

func oneChunk(b []byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		if len(b) > 0 {
			yield(b)
		}
	}
}
