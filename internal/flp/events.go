package flp

// Event IDs recognized out of the four size classes. Every
// other ID in its class is read and discarded.
const (
	// BYTE events: 0..=63, 1-byte payload.
	eventChanType byte = 21

	// WORD events: 64..=127, 2-byte LE payload.
	eventNewChan     byte = 64
	eventNewPattern  byte = 65
	eventTempoLegacy byte = 66

	// DWORD events: 128..=191, 4-byte LE payload.
	eventTempo byte = 156

	// TEXT/VAR events: 192..=255, varint-length-prefixed payload.
	eventChanName   byte = 192
	eventVersion    byte = 199
	eventPluginName byte = 201
)

const (
	classByteMax  = 63
	classWordMax  = 127
	classDwordMax = 191
)
