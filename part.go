package multipart

import (
	"github.com/indigo-web/multipart/kv"
	"github.com/indigo-web/multipart/mime"
)

// Part is one decoded unit of a multipart body. The decoder hands the part
// over at PartStarted and keeps no reference to it afterwards, so the
// consumer may retain it for as long as needed.
type Part struct {
	// Headers hold the part's header block in insertion order with the
	// original casing; lookups are case-insensitive.
	Headers *kv.Storage
	// Name is the Content-Disposition name parameter. Always present.
	Name string
	// Filename is the Content-Disposition filename parameter, non-empty for
	// file parts only.
	Filename string
	// Type is the media type of the Content-Type header, if the part has one.
	Type mime.MIME
	// Charset is the charset parameter of the Content-Type header, if any.
	Charset mime.Charset
}

// IsFile tells a file upload from a plain field.
func (p *Part) IsFile() bool {
	return len(p.Filename) > 0
}
