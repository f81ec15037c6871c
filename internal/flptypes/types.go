// Package flptypes holds the data types shared between the FLP parser, the
// store, and the matcher — kept separate from the parser package itself so
// the store can depend on the shapes without pulling in decode logic.
package flptypes

// ChannelInfo is one generator (instrument) slot captured from the channel
// event stream.
type ChannelInfo struct {
	Name        string
	PluginName  *string
	ChannelType byte
}

// FileMetadata is the parser's output for a single .flp buffer. Absent
// values (nil/pointer fields) are distinct from zero/empty.
type FileMetadata struct {
	BPM             *float64
	TimeSigNum      *uint8
	TimeSigDen      *uint8
	ChannelCount    uint16
	PatternCount    uint16
	MixerTrackCount uint16
	Generators      []ChannelInfo
	Effects         []string
	FLVersion       *string
	Warnings        []string
}
