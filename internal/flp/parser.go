// Package flp decodes the FL Studio project chunk format into
// flptypes.FileMetadata. Defects short of the two fatal cases never abort
// the decode — they stop the event loop at the defect and return whatever
// was already extracted, with a warning appended.
package flp

import (
	"fmt"

	"github.com/wallybrain/flpvault/internal/flptypes"
)

const magicHeader = "FLhd"
const magicData = "FLdt"

// pendingChannel accumulates the fields of one generator entry while its
// events are being read.
type pendingChannel struct {
	name       *string
	pluginName *string
	chanType   byte
	entered    bool // true once a channel was started: by a "new channel" (event 64) event, or implicitly by a type/name/plugin event
}

func (p *pendingChannel) shouldFlush() bool {
	return p.entered || p.name != nil
}

// flush appends the pending channel to generators iff shouldFlush reports
// true, then resets state. The condition is deliberately
// `entered || name != nil` rather than just `entered` — a stray
// name/plugin/type event with no preceding "new channel" event still
// produces a channel entry.
func (p *pendingChannel) flush(generators *[]flptypes.ChannelInfo) {
	if !p.shouldFlush() {
		return
	}
	name := ""
	if p.name != nil {
		name = *p.name
	}
	*generators = append(*generators, flptypes.ChannelInfo{
		Name:        name,
		PluginName:  p.pluginName,
		ChannelType: p.chanType,
	})
	p.name = nil
	p.pluginName = nil
	p.chanType = 0
	p.entered = false
}

// Parse decodes a complete .flp byte buffer. It returns a fatal ParseError
// only for InvalidMagic/TruncatedHeader; every other defect is recorded as
// a warning on the returned metadata.
func Parse(buf []byte) (*flptypes.FileMetadata, error) {
	if len(buf) < 4 || string(buf[:4]) != magicHeader {
		return nil, ErrInvalidMagic
	}

	c := newCursor(buf)
	c.pos = 4

	if _, ok := c.readU32(); !ok { // header_size, ignored
		return nil, ErrTruncatedHeader
	}
	if _, ok := c.readU16(); !ok { // format, ignored
		return nil, ErrTruncatedHeader
	}
	channelCount, ok := c.readU16()
	if !ok {
		return nil, ErrTruncatedHeader
	}
	if _, ok := c.readU16(); !ok { // ppq, ignored
		return nil, ErrTruncatedHeader
	}

	meta := &flptypes.FileMetadata{ChannelCount: channelCount}

	magic, ok := c.readBytes(4)
	if !ok || string(magic) != magicData {
		meta.Warnings = append(meta.Warnings, "FLdt chunk not found")
		return meta, nil
	}
	c.readU32() // data_size, ignored; absence is not fatal

	var legacyBPM, modernBPM *float64
	var pending pendingChannel

	for {
		id, ok := c.readByte()
		if !ok {
			break // end of stream
		}

		switch {
		case id <= classByteMax:
			v, ok := c.readByte()
			if !ok {
				meta.Warnings = append(meta.Warnings, truncationWarning("BYTE", id))
				goto done
			}
			if id == eventChanType {
				pending.chanType = v
				pending.entered = true
			}

		case id <= classWordMax:
			v, ok := c.readU16()
			if !ok {
				meta.Warnings = append(meta.Warnings, truncationWarning("WORD", id))
				goto done
			}
			switch id {
			case eventNewChan:
				pending.flush(&meta.Generators)
				pending.entered = true
			case eventNewPattern:
				meta.PatternCount++
			case eventTempoLegacy:
				bpm := float64(v)
				if !bpmInRange(bpm) {
					meta.Warnings = append(meta.Warnings, outOfRangeWarning("Legacy", bpm))
				} else {
					legacyBPM = &bpm
				}
			}

		case id <= classDwordMax:
			v, ok := c.readU32()
			if !ok {
				meta.Warnings = append(meta.Warnings, truncationWarning("DWORD", id))
				goto done
			}
			if id == eventTempo {
				bpm := float64(v) / 1000.0
				if !bpmInRange(bpm) {
					meta.Warnings = append(meta.Warnings, outOfRangeWarning("Modern", bpm))
				} else {
					modernBPM = &bpm
				}
			}

		default: // TEXT/VAR, 192..=255
			n, ok := c.readVarint()
			if !ok {
				meta.Warnings = append(meta.Warnings, truncationWarning("TEXT", id))
				goto done
			}
			payload, ok := c.readBytes(int(n))
			if !ok {
				meta.Warnings = append(meta.Warnings, truncationWarning("TEXT", id))
				goto done
			}
			text := decodeString(payload)
			switch id {
			case eventChanName:
				pending.name = &text
				pending.entered = true
			case eventVersion:
				meta.FLVersion = &text
			case eventPluginName:
				pending.pluginName = &text
				pending.entered = true
			}
		}
	}

done:
	pending.flush(&meta.Generators)

	if modernBPM != nil {
		meta.BPM = modernBPM
	} else if legacyBPM != nil {
		meta.BPM = legacyBPM
	} else {
		meta.Warnings = append(meta.Warnings, "No BPM event found in file")
	}

	return meta, nil
}

func bpmInRange(bpm float64) bool {
	return bpm >= 1.0 && bpm <= 999.0
}

func outOfRangeWarning(kind string, bpm float64) string {
	return fmt.Sprintf("%s BPM %v out of sane range (1-999) — ignoring", kind, bpm)
}

func truncationWarning(class string, id byte) string {
	return fmt.Sprintf("Truncated at %s event %d — partial data returned", class, id)
}
