package flp

import "encoding/binary"

// flpBuilder assembles a minimal valid .flp buffer for tests, one event at
// a time, mirroring the FLhd header and FLdt chunk layout that Parse reads.
type flpBuilder struct {
	buf []byte
}

func newFLPBuilder(channelCount, ppq uint16) *flpBuilder {
	b := &flpBuilder{}
	b.buf = append(b.buf, magicHeader...)
	b.buf = appendU32(b.buf, 6)
	b.buf = appendU16(b.buf, 0) // format
	b.buf = appendU16(b.buf, channelCount)
	b.buf = appendU16(b.buf, ppq)
	return b
}

// withData starts the FLdt chunk; events must be appended after this call.
func (b *flpBuilder) withData() *flpBuilder {
	b.buf = append(b.buf, magicData...)
	b.buf = appendU32(b.buf, 0) // data_size placeholder, unread by the parser
	return b
}

func (b *flpBuilder) byteEvent(id, value byte) *flpBuilder {
	b.buf = append(b.buf, id, value)
	return b
}

func (b *flpBuilder) wordEvent(id byte, value uint16) *flpBuilder {
	b.buf = append(b.buf, id)
	b.buf = appendU16(b.buf, value)
	return b
}

func (b *flpBuilder) dwordEvent(id byte, value uint32) *flpBuilder {
	b.buf = append(b.buf, id)
	b.buf = appendU32(b.buf, value)
	return b
}

func (b *flpBuilder) textEvent(id byte, text string) *flpBuilder {
	b.buf = append(b.buf, id)
	b.buf = appendVarint(b.buf, uint64(len(text)))
	b.buf = append(b.buf, text...)
	return b
}

func (b *flpBuilder) raw(bytes ...byte) *flpBuilder {
	b.buf = append(b.buf, bytes...)
	return b
}

func (b *flpBuilder) bytes() []byte {
	return b.buf
}

func appendU16(buf []byte, v uint16) []byte {
	tmp := make([]byte, 2)
	binary.LittleEndian.PutUint16(tmp, v)
	return append(buf, tmp...)
}

func appendU32(buf []byte, v uint32) []byte {
	tmp := make([]byte, 4)
	binary.LittleEndian.PutUint32(tmp, v)
	return append(buf, tmp...)
}

func appendVarint(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			buf = append(buf, b|0x80)
		} else {
			buf = append(buf, b)
			return buf
		}
	}
}
