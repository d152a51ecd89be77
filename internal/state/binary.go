package state

import "github.com/rcornwell/mips32/internal/safe"

// Binary is a loaded program: two byte streams, each a sequence of
// Safe[uint8]. Text is copied verbatim into the text segment (preserving
// Uninitialised entries as holes); Data copies only Valid bytes into the
// data segment, leaving holes unmapped.
type Binary struct {
	Text []safe.Safe[uint8]
	Data []safe.Safe[uint8]
}
