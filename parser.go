package multipart

import (
	"iter"

	"github.com/indigo-web/multipart/config"
	"github.com/indigo-web/multipart/form"
	"github.com/indigo-web/multipart/status"
)

// Parse drives a fresh decoder over the chunk sequence and materializes the
// whole form in memory. It is the convenience layer for bodies known to be
// reasonably small; stream large uploads through a Decoder directly instead.
//
// A field named _charset_ sets the default charset for the entries following
// it, unless a part states its own via the Content-Type charset parameter.
func Parse(cfg *config.Config, boundary string, chunks iter.Seq[[]byte]) (form.Form, error) {
	d, err := NewDecoder(cfg, boundary)
	if err != nil {
		return nil, err
	}

	var (
		entries = make(form.Form, 0, cfg.Form.EntriesPrealloc)
		charset = cfg.Form.DefaultCoding
		current *Part
		value   []byte
	)

	for chunk := range chunks {
		events, err := d.Feed(chunk)
		if err != nil {
			return nil, err
		}

		for _, event := range events {
			switch event.Kind {
			case PartStarted:
				current = event.Part
				value = value[:0]
			case BodyChunk:
				value = append(value, event.Data...)
			case PartEnded:
				if current.Name == "_charset_" {
					if len(value) == 0 {
						return nil, status.ErrMalformedValue
					}

					charset = string(value)
					continue
				}

				entry := form.Data{
					Name:     current.Name,
					Filename: current.Filename,
					Type:     current.Type,
					Charset:  current.Charset,
					Value:    string(value),
				}

				if len(entry.Type) == 0 {
					entry.Type = cfg.Form.DefaultContentType
				}

				if len(entry.Charset) == 0 {
					entry.Charset = charset
				}

				entries = append(entries, entry)
			}
		}
	}

	if err := d.Finish(); err != nil {
		return nil, err
	}

	return entries, nil
}
