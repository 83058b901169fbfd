package config

import (
	"math"

	"github.com/indigo-web/multipart/mime"
)

type (
	Headers struct {
		// Prealloc is the number of pre-allocated seats in each part's header
		// storage.
		Prealloc int
		// Number limits how many headers a single part may carry.
		Number int
		// Space limits the amount of memory occupied by a single part's header
		// block. An unterminated block longer than that fails the decode, as
		// otherwise a malicious stream could grow the retention buffer forever.
		Space int
	}

	Body struct {
		// MaxSize describes the maximal size of a body that can be processed.
		// In order to disable the setting, use the math.MaxUint64 value.
		MaxSize uint64
	}

	Buffer struct {
		// Prealloc is the initial capacity of the decoder's retention buffer.
		// It grows on demand up to Headers.Space, so the value only matters
		// for the first few feeds.
		Prealloc int
	}

	Form struct {
		// EntriesPrealloc is the number of preallocated seats for form.Form.
		EntriesPrealloc int
		// DefaultContentType sets the part MIME unless one is explicitly set.
		DefaultContentType mime.MIME
		// DefaultCoding sets the part content encoding unless one is
		// explicitly set, either via the Content-Type charset parameter or
		// the _charset_ field convention.
		DefaultCoding mime.Charset
	}
)

// Config holds settings used across the library, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to
// initialize the config manually, because most likely this will result in
// ambiguous errors.
type Config struct {
	Headers Headers
	Body    Body
	Buffer  Buffer
	Form    Form
}

// Default returns the default config. Those are initially well-balanced,
// however maximal defaults are pretty permitting.
func Default() *Config {
	return &Config{
		Headers: Headers{
			Prealloc: 4,
			Number:   100,
			Space:    4096,
		},
		Body: Body{
			MaxSize: math.MaxUint64,
		},
		Buffer: Buffer{
			Prealloc: 1024,
		},
		Form: Form{
			EntriesPrealloc:    8,
			DefaultContentType: mime.Plain,
			DefaultCoding:      mime.UTF8,
		},
	}
}
