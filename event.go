package multipart

type EventKind uint8

const (
	// PartStarted introduces a fresh part: the headers are fully known, the
	// body is not available yet.
	PartStarted EventKind = iota + 1
	// BodyChunk carries the next piece of the current part's body.
	BodyChunk
	// PartEnded finalizes the current part. No more of its body chunks follow.
	PartEnded
)

// Event is a tagged variant over the closed kind set above. Consumers are
// expected to switch over Kind, so adding a kind breaks them loudly instead
// of silently.
//
// For a single part, events always arrive strictly as PartStarted, zero or
// more BodyChunk, PartEnded; events never cross a part boundary.
type Event struct {
	// Part is set for PartStarted and nil otherwise.
	Part *Part
	// Data is set for BodyChunk.
	//
	// WARNING: the slice points into the decoder's retention buffer and is
	// valid only until the next Feed call. Copy it if it must live longer.
	Data []byte
	Kind EventKind
}
