package multipart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indigo-web/multipart/config"
	"github.com/indigo-web/multipart/status"
)

const webkitBoundary = "----WebKitFormBoundary7MA4YWxkTrZu0gW"

const webkitBody = "------WebKitFormBoundary7MA4YWxkTrZu0gW\r\nContent-Disposition: form-data; " +
	"name=\"username\"\r\n\r\nAlice\r\n------WebKitFormBoundary7MA4YWxkTrZu0gW\r\nCo" +
	"ntent-Disposition: form-data; name=\"profile_pic\"; filename=\"profile.png\"\r\n" +
	"Content-Type: image/png\r\n\r\n[binary file content]\r\n------WebKitFormBoundary7MA4YWxkTrZu0gW--\r\n"

type decodedPart struct {
	Name, Filename, Type, Body string
}

// collector folds the event stream back into materialized parts, verifying
// the per-part event ordering along the way.
type collector struct {
	t      *testing.T
	parts  []decodedPart
	inPart bool
}

func (c *collector) feed(d *Decoder, piece string, chunkSize int) error {
	for begin := 0; begin < len(piece); begin += chunkSize {
		end := min(begin+chunkSize, len(piece))

		events, err := d.Feed([]byte(piece[begin:end]))
		if err != nil {
			return err
		}

		for _, event := range events {
			switch event.Kind {
			case PartStarted:
				require.False(c.t, c.inPart, "PartStarted before the previous part ended")
				c.inPart = true
				c.parts = append(c.parts, decodedPart{
					Name:     event.Part.Name,
					Filename: event.Part.Filename,
					Type:     event.Part.Type,
				})
			case BodyChunk:
				require.True(c.t, c.inPart, "BodyChunk outside of a part")
				require.NotEmpty(c.t, event.Data, "empty BodyChunk must not be emitted")
				c.parts[len(c.parts)-1].Body += string(event.Data)
			case PartEnded:
				require.True(c.t, c.inPart, "PartEnded without PartStarted")
				c.inPart = false
			}
		}
	}

	return nil
}

// drive feeds the whole body in chunks of the given size and finishes the
// decode.
func drive(t *testing.T, d *Decoder, body string, chunkSize int) ([]decodedPart, error) {
	c := collector{t: t}
	if err := c.feed(d, body, chunkSize); err != nil {
		return c.parts, err
	}

	err := d.Finish()
	if err == nil {
		require.False(t, c.inPart, "stream finished mid-part")
	}

	return c.parts, err
}

func newDecoder(t *testing.T, boundary string) *Decoder {
	d, err := NewDecoder(config.Default(), boundary)
	require.NoError(t, err)
	return d
}

func TestDecoder(t *testing.T) {
	webkitParts := []decodedPart{
		{Name: "username", Body: "Alice"},
		{Name: "profile_pic", Filename: "profile.png", Type: "image/png", Body: "[binary file content]"},
	}

	t.Run("real-world example", func(t *testing.T) {
		parts, err := drive(t, newDecoder(t, webkitBoundary), webkitBody, len(webkitBody))
		require.NoError(t, err)
		require.Equal(t, webkitParts, parts)
	})

	t.Run("chunk-size independence", func(t *testing.T) {
		for chunkSize := 1; chunkSize <= len(webkitBody); chunkSize++ {
			parts, err := drive(t, newDecoder(t, webkitBoundary), webkitBody, chunkSize)
			require.NoError(t, err, "chunk size %d", chunkSize)
			require.Equal(t, webkitParts, parts, "chunk size %d", chunkSize)
		}
	})

	t.Run("straddling boundary at every split point", func(t *testing.T) {
		for cut := 0; cut <= len(webkitBody); cut++ {
			d := newDecoder(t, webkitBoundary)
			c := collector{t: t}

			require.NoError(t, c.feed(d, webkitBody[:cut], len(webkitBody)), "cut at %d", cut)
			require.NoError(t, c.feed(d, webkitBody[cut:], len(webkitBody)), "cut at %d", cut)
			require.NoError(t, d.Finish(), "cut at %d", cut)
			require.Equal(t, webkitParts, c.parts, "cut at %d", cut)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		d := newDecoder(t, "X")
		events, err := d.Feed([]byte("--X--\r\n"))
		require.NoError(t, err)
		require.Empty(t, events)
		require.NoError(t, d.Finish())
	})

	t.Run("feed past the terminal boundary", func(t *testing.T) {
		d := newDecoder(t, "X")
		_, err := d.Feed([]byte("--X--\r\n"))
		require.NoError(t, err)
		_, err = d.Feed([]byte("more"))
		require.ErrorIs(t, err, status.ErrStateViolation)
		_, err = d.Feed([]byte("even more"))
		require.ErrorIs(t, err, status.ErrStateViolation)
	})

	t.Run("missing terminal boundary", func(t *testing.T) {
		d := newDecoder(t, "X")
		body := "--X\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\ncut off mid-bod"
		_, err := drive(t, d, body, len(body))
		require.ErrorIs(t, err, status.ErrUnexpectedEOF)
		// the failure is sticky
		_, err = d.Feed([]byte("y"))
		require.ErrorIs(t, err, status.ErrUnexpectedEOF)
	})

	t.Run("malformed header is sticky", func(t *testing.T) {
		d := newDecoder(t, "X")
		_, err := d.Feed([]byte("--X\r\nno colon here\r\n\r\nbody\r\n--X--\r\n"))
		require.ErrorIs(t, err, status.ErrMalformedHeader)
		_, err = d.Feed([]byte("--X--\r\n"))
		require.ErrorIs(t, err, status.ErrMalformedHeader)
		require.ErrorIs(t, d.Finish(), status.ErrMalformedHeader)
	})

	t.Run("escaped quote in filename", func(t *testing.T) {
		body := "--X\r\nContent-Disposition: form-data; name=\"file\"; filename=\"a\\\"b.txt\"\r\n\r\nhi\r\n--X--\r\n"
		parts, err := drive(t, newDecoder(t, "X"), body, len(body))
		require.NoError(t, err)
		require.Equal(t, []decodedPart{{Name: "file", Filename: `a"b.txt`, Body: "hi"}}, parts)
	})

	t.Run("preamble is skipped", func(t *testing.T) {
		body := "this is a preamble, ignored by MIME processors\r\n" +
			"--X\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n1\r\n--X--\r\n"
		parts, err := drive(t, newDecoder(t, "X"), body, 3)
		require.NoError(t, err)
		require.Equal(t, []decodedPart{{Name: "a", Body: "1"}}, parts)
	})

	t.Run("empty part body", func(t *testing.T) {
		body := "--X\r\nContent-Disposition: form-data; name=\"empty\"\r\n\r\n\r\n--X--\r\n"
		parts, err := drive(t, newDecoder(t, "X"), body, len(body))
		require.NoError(t, err)
		require.Equal(t, []decodedPart{{Name: "empty"}}, parts)
	})

	t.Run("boundary lookalike inside body", func(t *testing.T) {
		body := "--X\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n--X not a boundary\r\n--X--\r\n"
		parts, err := drive(t, newDecoder(t, "X"), body, 5)
		require.NoError(t, err)
		require.Equal(t, []decodedPart{{Name: "a", Body: "--X not a boundary"}}, parts)
	})

	t.Run("transport padding after boundary", func(t *testing.T) {
		body := "--X \t\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n1\r\n--X  \r\n" +
			"Content-Disposition: form-data; name=\"b\"\r\n\r\n2\r\n--X--\r\n"
		parts, err := drive(t, newDecoder(t, "X"), body, len(body))
		require.NoError(t, err)
		require.Equal(t, []decodedPart{{Name: "a", Body: "1"}, {Name: "b", Body: "2"}}, parts)
	})

	t.Run("endless transport padding", func(t *testing.T) {
		d := newDecoder(t, "X")
		_, err := d.Feed([]byte("--X\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\nbody\r\n--X"))
		require.NoError(t, err)

		// the candidate delimiter never resolves, so the decoder must give up
		// instead of retaining the padding indefinitely
		for i := 0; i < 200 && err == nil; i++ {
			_, err = d.Feed([]byte(" "))
		}

		require.ErrorIs(t, err, status.ErrPaddingTooLong)
	})

	t.Run("missing field name", func(t *testing.T) {
		body := "--X\r\nContent-Disposition: form-data; filename=\"a.txt\"\r\n\r\nhi\r\n--X--\r\n"
		_, err := drive(t, newDecoder(t, "X"), body, len(body))
		require.ErrorIs(t, err, status.ErrMissingFieldName)
	})

	t.Run("zero-length feed is a no-op", func(t *testing.T) {
		d := newDecoder(t, "X")
		events, err := d.Feed(nil)
		require.NoError(t, err)
		require.Empty(t, events)
	})

	t.Run("terminal boundary without trailing crlf", func(t *testing.T) {
		body := "--X\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n1\r\n--X--"
		parts, err := drive(t, newDecoder(t, "X"), body, len(body))
		require.NoError(t, err)
		require.Equal(t, []decodedPart{{Name: "a", Body: "1"}}, parts)
	})

	t.Run("headers too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Space = 16
		d, err := NewDecoder(cfg, "X")
		require.NoError(t, err)
		_, err = d.Feed([]byte("--X\r\nContent-Disposition: form-data; name=\"a\"; " + strings.Repeat("x", 64)))
		require.ErrorIs(t, err, status.ErrHeadersTooLarge)
	})

	t.Run("body too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 10
		d, err := NewDecoder(cfg, "X")
		require.NoError(t, err)
		_, err = d.Feed([]byte(webkitBody))
		require.ErrorIs(t, err, status.ErrBodyTooLarge)
	})
}

func TestNewDecoder(t *testing.T) {
	t.Run("empty boundary", func(t *testing.T) {
		_, err := NewDecoder(config.Default(), "")
		require.ErrorIs(t, err, status.ErrEmptyBoundary)
	})

	t.Run("boundary too long", func(t *testing.T) {
		_, err := NewDecoder(config.Default(), strings.Repeat("b", MaxBoundaryLength+1))
		require.ErrorIs(t, err, status.ErrBoundaryTooLong)
	})

	t.Run("boundary outside the alphabet", func(t *testing.T) {
		_, err := NewDecoder(config.Default(), "no\r\nnewlines")
		require.ErrorIs(t, err, status.ErrBoundaryChars)
	})
}

func BenchmarkDecoder(b *testing.B) {
	cfg := config.Default()
	body := []byte(webkitBody)

	b.ReportAllocs()
	b.SetBytes(int64(len(body)))

	for i := 0; i < b.N; i++ {
		d, err := NewDecoder(cfg, webkitBoundary)
		if err != nil {
			b.Fatal(err)
		}

		if _, err := d.Feed(body); err != nil {
			b.Fatal(err)
		}

		if err := d.Finish(); err != nil {
			b.Fatal(err)
		}
	}
}
