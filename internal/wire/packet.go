// Package wire implements the RBN1 binary UDP packet format: up to 32
// redundant per-frame input frames plus an optional state-hash
// attachment for desync detection. The codec is transport-agnostic and
// opaque to the checksum's meaning — it carries a u32, nothing more.
package wire

import (
	"encoding/binary"

	"github.com/chrismaghuhn/rollback-playground/internal/errs"
	"github.com/chrismaghuhn/rollback-playground/internal/sim"
)

const (
	magic   = "RBN1"
	version = 1

	flagHasChecksum = 0x01
	flagReservedMask = 0xFE

	// MaxCount is the maximum number of redundant frames one packet may
	// carry.
	MaxCount = 32

	headerSizeNoChecksum = 15
	headerSizeChecksum   = 23

	// MaxSize is the largest encoded packet this format can produce:
	// a checksummed header plus MaxCount 2-byte button frames.
	MaxSize = headerSizeChecksum + MaxCount*2
)

// Packet is the decoded form of one RBN1 wire packet.
type Packet struct {
	StartFrame uint32
	AckFrame   uint32
	Buttons    []sim.Input // len in [1, MaxCount]

	HasChecksum   bool
	ChecksumFrame uint32
	Checksum      uint32
}

func headerSize(hasChecksum bool) int {
	if hasChecksum {
		return headerSizeChecksum
	}
	return headerSizeNoChecksum
}

// Encode writes pkt's header and payload into dst and returns the number
// of bytes written. Count must be in [1, MaxCount] and dst must be long
// enough; Encode never computes the checksum itself, only carries
// whatever the caller already placed in pkt.Checksum.
func Encode(pkt Packet, dst []byte) (int, error) {
	count := len(pkt.Buttons)
	if count < 1 || count > MaxCount {
		return 0, errs.Newf(errs.InvalidArgument, "packet count %d out of range [1, %d]", count, MaxCount)
	}

	hs := headerSize(pkt.HasChecksum)
	total := hs + count*2
	if len(dst) < total {
		return 0, errs.Newf(errs.InvalidArgument, "destination buffer too small: need %d, have %d", total, len(dst))
	}

	copy(dst[0:4], magic)
	dst[4] = version

	var flags byte
	if pkt.HasChecksum {
		flags |= flagHasChecksum
	}
	dst[5] = flags

	binary.LittleEndian.PutUint32(dst[6:10], pkt.StartFrame)
	dst[10] = byte(count)
	binary.LittleEndian.PutUint32(dst[11:15], pkt.AckFrame)

	offset := headerSizeNoChecksum
	if pkt.HasChecksum {
		binary.LittleEndian.PutUint32(dst[15:19], pkt.ChecksumFrame)
		binary.LittleEndian.PutUint32(dst[19:23], pkt.Checksum)
		offset = headerSizeChecksum
	}

	for i, in := range pkt.Buttons {
		binary.LittleEndian.PutUint16(dst[offset+i*2:], uint16(in))
	}

	return total, nil
}

// Decode validates src strictly in the documented order — length,
// magic, version, reserved flag bits, count range, then exact declared
// length — and returns (Packet, true) on success or (Packet{}, false) on
// the first violation. Stray or malformed packets on the wire are meant
// to be dropped silently rather than raised as errors.
func Decode(src []byte) (Packet, bool) {
	if len(src) < headerSizeNoChecksum {
		return Packet{}, false
	}
	if string(src[0:4]) != magic {
		return Packet{}, false
	}
	if src[4] != version {
		return Packet{}, false
	}

	flags := src[5]
	if flags&flagReservedMask != 0 {
		return Packet{}, false
	}
	hasChecksum := flags&flagHasChecksum != 0

	count := int(src[10])
	if count < 1 || count > MaxCount {
		return Packet{}, false
	}

	want := headerSize(hasChecksum) + count*2
	if len(src) != want {
		return Packet{}, false
	}

	pkt := Packet{
		StartFrame:  binary.LittleEndian.Uint32(src[6:10]),
		AckFrame:    binary.LittleEndian.Uint32(src[11:15]),
		HasChecksum: hasChecksum,
	}

	offset := headerSizeNoChecksum
	if hasChecksum {
		pkt.ChecksumFrame = binary.LittleEndian.Uint32(src[15:19])
		pkt.Checksum = binary.LittleEndian.Uint32(src[19:23])
		offset = headerSizeChecksum
	}

	pkt.Buttons = make([]sim.Input, count)
	for i := range pkt.Buttons {
		pkt.Buttons[i] = sim.Input(binary.LittleEndian.Uint16(src[offset+i*2:]))
	}

	return pkt, true
}

// Header is the fixed part of a decoded packet, without the per-frame
// button payload — returned by DecodeInto alongside a caller-owned
// buffer of inputs.
type Header struct {
	StartFrame    uint32
	AckFrame      uint32
	Count         int
	HasChecksum   bool
	ChecksumFrame uint32
	Checksum      uint32
}

// DecodeInto validates src exactly as Decode does, but writes decoded
// inputs into the caller-supplied buf (which must have length >= the
// packet's count) instead of allocating a new slice, and returns the
// header separately. This is the zero-allocation decode path for the
// receive hot loop.
func DecodeInto(src []byte, buf []sim.Input) (Header, bool) {
	if len(src) < headerSizeNoChecksum {
		return Header{}, false
	}
	if string(src[0:4]) != magic {
		return Header{}, false
	}
	if src[4] != version {
		return Header{}, false
	}

	flags := src[5]
	if flags&flagReservedMask != 0 {
		return Header{}, false
	}
	hasChecksum := flags&flagHasChecksum != 0

	count := int(src[10])
	if count < 1 || count > MaxCount {
		return Header{}, false
	}

	want := headerSize(hasChecksum) + count*2
	if len(src) != want {
		return Header{}, false
	}
	if len(buf) < count {
		return Header{}, false
	}

	h := Header{
		StartFrame:  binary.LittleEndian.Uint32(src[6:10]),
		AckFrame:    binary.LittleEndian.Uint32(src[11:15]),
		Count:       count,
		HasChecksum: hasChecksum,
	}

	offset := headerSizeNoChecksum
	if hasChecksum {
		h.ChecksumFrame = binary.LittleEndian.Uint32(src[15:19])
		h.Checksum = binary.LittleEndian.Uint32(src[19:23])
		offset = headerSizeChecksum
	}

	for i := 0; i < count; i++ {
		buf[i] = sim.Input(binary.LittleEndian.Uint16(src[offset+i*2:]))
	}

	return h, true
}
