package multipart

import (
	"bytes"

	"github.com/indigo-web/multipart/config"
	"github.com/indigo-web/multipart/internal/hparse"
	"github.com/indigo-web/multipart/internal/scan"
	"github.com/indigo-web/multipart/kv"
	"github.com/indigo-web/multipart/status"
)

type decoderState uint8

const (
	ePreBoundary decoderState = iota + 1
	eHeaders
	eBody
	eDone
)

var (
	crlf     = []byte("\r\n")
	crlfcrlf = []byte("\r\n\r\n")
)

// maxTransportPadding bounds the SP/HT run tolerated between a boundary and
// its line terminator. RFC 2046 puts no limit on the padding, yet an endless
// run would keep the delimiter candidate unresolved and grow the retention
// buffer with it.
const maxTransportPadding = 64

// Decoder turns an arbitrarily-chunked multipart byte stream into a flat
// event sequence. It never blocks and performs no I/O: Feed is pure
// computation over the chunk given plus the retained state, so any waiting
// for input happens outside the decoder, on the caller's side.
//
// Between calls the decoder retains only bytes which may still turn out to
// be a boundary marker (plus a pending header block), therefore memory stays
// O(boundary length + chunk length) no matter how large the body is.
//
// The instance owns its state exclusively and must not be fed concurrently.
// Independent decoders don't share anything and may run in parallel freely.
type Decoder struct {
	cfg      *config.Config
	scanner  scan.Scanner
	stash    []byte
	spare    []byte
	events   []Event
	err      error
	received uint64
	maxTail  int
	state    decoderState
	anchored bool
}

func NewDecoder(cfg *config.Config, boundary string) (*Decoder, error) {
	if err := ValidateBoundary(boundary); err != nil {
		return nil, err
	}

	return &Decoder{
		cfg:     cfg,
		scanner: scan.New(boundary),
		stash:   make([]byte, 0, cfg.Buffer.Prealloc),
		spare:   make([]byte, 0, cfg.Buffer.Prealloc),
		// the longest legitimate unresolved tail is a complete delimiter
		// missing just its final line feed
		maxTail: len("\r\n--") + len(boundary) + maxTransportPadding + 1,
		state:   ePreBoundary,
	}, nil
}

// Feed consumes the next chunk of the body and returns all the events it
// resolved. Feeding an empty chunk is a no-op. Once the terminal boundary
// was seen, any further non-empty Feed fails with status.ErrStateViolation;
// after any failure the decoder is poisoned and keeps returning the original
// error, as corrupted input invalidates every following byte offset.
//
// The returned slice and the event payloads are reused and stay valid only
// until the next Feed call.
func (d *Decoder) Feed(chunk []byte) ([]Event, error) {
	if d.err != nil {
		return nil, d.err
	}

	if len(chunk) == 0 {
		return nil, nil
	}

	if d.state == eDone {
		d.err = status.ErrStateViolation
		return nil, d.err
	}

	d.received += uint64(len(chunk))
	if d.received > d.cfg.Body.MaxSize {
		return nil, d.fail(status.ErrBodyTooLarge)
	}

	data := chunk
	if len(d.stash) > 0 {
		data = append(d.stash, chunk...)
	}

	events, rest, err := d.run(d.events[:0], data)
	d.events = events
	if err != nil {
		return events, d.fail(err)
	}

	// the unresolved tail is copied aside instead of being kept in place:
	// the emitted events alias data, which must stay untouched until the
	// next call
	d.spare = append(d.spare[:0], rest...)
	d.stash, d.spare = d.spare, d.stash

	return events, nil
}

// Finish signals that the input stream is over. It succeeds only if the
// terminal boundary was seen; a body ending mid-part or without the terminal
// boundary at all yields status.ErrUnexpectedEOF.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}

	if d.state != eDone {
		d.err = status.ErrUnexpectedEOF
		return d.err
	}

	return nil
}

func (d *Decoder) run(events []Event, data []byte) ([]Event, []byte, error) {
	for {
		switch d.state {
		case ePreBoundary:
			var (
				match   scan.Match
				verdict scan.Verdict
			)

			if d.anchored {
				match, verdict = d.scanner.Find(data)
			} else {
				// the opening delimiter at the very start of the body has no
				// leading CRLF
				match, verdict = d.scanner.FindOpening(data)
			}

			switch verdict {
			case scan.Found:
				data = data[match.End:]
				if match.Final {
					// terminal boundary with zero parts: an empty body is legal
					d.state = eDone
					continue
				}

				d.state = eHeaders
			case scan.Possible:
				if len(data)-match.Begin > d.maxTail {
					return events, nil, status.ErrPaddingTooLong
				}

				if match.Begin > 0 {
					d.anchored = true
				}

				return events, data[match.Begin:], nil
			default:
				d.anchored = true
				return events, nil, nil
			}
		case eHeaders:
			block, rest, found := cutHeaderBlock(data)
			if !found {
				if len(data) > d.cfg.Headers.Space {
					return events, nil, status.ErrHeadersTooLarge
				}

				return events, data, nil
			}

			part, err := d.newPart(block)
			if err != nil {
				return events, nil, err
			}

			events = append(events, Event{Kind: PartStarted, Part: part})
			data = rest
			d.state = eBody
		case eBody:
			match, verdict := d.scanner.Find(data)
			switch verdict {
			case scan.Found:
				if match.Begin > 0 {
					events = append(events, Event{Kind: BodyChunk, Data: data[:match.Begin]})
				}

				events = append(events, Event{Kind: PartEnded})
				data = data[match.End:]

				if match.Final {
					d.state = eDone
				} else {
					d.state = eHeaders
				}
			case scan.Possible:
				if len(data)-match.Begin > d.maxTail {
					return events, nil, status.ErrPaddingTooLong
				}

				// the tail may be the delimiter's leading CRLF, which is a
				// line terminator of the format and not part of the body, so
				// it cannot be emitted until classified
				if match.Begin > 0 {
					events = append(events, Event{Kind: BodyChunk, Data: data[:match.Begin]})
				}

				return events, data[match.Begin:], nil
			default:
				if len(data) > 0 {
					events = append(events, Event{Kind: BodyChunk, Data: data})
				}

				return events, nil, nil
			}
		case eDone:
			// everything past the terminal boundary is the epilogue, which is
			// discarded silently
			return events, nil, nil
		}
	}
}

func (d *Decoder) newPart(block []byte) (*Part, error) {
	headers := kv.NewPrealloc(d.cfg.Headers.Prealloc)
	if err := hparse.Parse(block, headers); err != nil {
		return nil, err
	}

	if headers.Len() > d.cfg.Headers.Number {
		return nil, status.ErrHeadersTooLarge
	}

	name, filename, err := hparse.Disposition(headers)
	if err != nil {
		return nil, err
	}

	mime, charset := hparse.ContentType(headers)

	return &Part{
		Headers:  headers,
		Name:     name,
		Filename: filename,
		Type:     mime,
		Charset:  charset,
	}, nil
}

func (d *Decoder) fail(err error) error {
	d.err = err
	return err
}

// cutHeaderBlock cuts the header block off the blank line terminating it.
// A part with no headers at all degenerates to a single CRLF.
func cutHeaderBlock(data []byte) (block, rest []byte, found bool) {
	if bytes.HasPrefix(data, crlf) {
		return nil, data[2:], true
	}

	idx := bytes.Index(data, crlfcrlf)
	if idx == -1 {
		return nil, nil, false
	}

	return data[:idx], data[idx+4:], true
}
