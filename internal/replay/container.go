package replay

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/chrismaghuhn/rollback-playground/internal/errs"
	"github.com/chrismaghuhn/rollback-playground/internal/sim"
)

// RPLK v1 binary container layout: a 32-byte fixed header followed by a
// FrameCount*4-byte payload of (p1.buttons, p2.buttons) u16 pairs,
// little-endian throughout.
const (
	magic        = "RPLK"
	version      = 1
	headerSize   = 32
	bytesPerPair = 4
)

// Write emits the RPLK header and payload for r to w. Only a zero start
// frame is supported.
func Write(w io.Writer, r Replay) error {
	if r.StartFrame != 0 {
		return errs.New(errs.Unsupported, "non-zero replay start frame is unsupported")
	}

	payload := make([]byte, len(r.Inputs)*bytesPerPair)
	for i, pair := range r.Inputs {
		binary.LittleEndian.PutUint16(payload[i*bytesPerPair:], uint16(pair.P1))
		binary.LittleEndian.PutUint16(payload[i*bytesPerPair+2:], uint16(pair.P2))
	}

	header := make([]byte, headerSize)
	copy(header[0:4], magic)
	header[4] = version
	header[5] = 0 // flags, reserved
	binary.LittleEndian.PutUint16(header[6:8], headerSize)
	binary.LittleEndian.PutUint32(header[8:12], r.Seed)
	binary.LittleEndian.PutUint32(header[12:16], r.StartFrame)
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(r.Inputs)))
	binary.LittleEndian.PutUint32(header[20:24], crc32.ChecksumIEEE(payload))
	// bytes 24:32 (Reserved) are left zero.

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// Read validates and decodes an RPLK stream, failing with a typed error
// naming the first failing check: magic, version, header size, declared
// payload length, then CRC. An early EOF surfaces as errs.Truncated.
func Read(r io.Reader) (Replay, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return Replay{}, errs.Wrap(errs.Truncated, "short read of RPLK header", err)
	}

	if string(header[0:4]) != magic {
		return Replay{}, errs.New(errs.Corrupt, "bad RPLK magic")
	}
	if header[4] != version {
		return Replay{}, errs.Newf(errs.Unsupported, "unsupported RPLK version %d", header[4])
	}
	if got := binary.LittleEndian.Uint16(header[6:8]); got != headerSize {
		return Replay{}, errs.Newf(errs.Corrupt, "unexpected RPLK header size %d", got)
	}

	seed := binary.LittleEndian.Uint32(header[8:12])
	startFrame := binary.LittleEndian.Uint32(header[12:16])
	frameCount := binary.LittleEndian.Uint32(header[16:20])
	declaredCRC := binary.LittleEndian.Uint32(header[20:24])

	payload := make([]byte, int(frameCount)*bytesPerPair)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Replay{}, errs.Wrap(errs.Truncated, "short read of RPLK payload", err)
	}

	if crc32.ChecksumIEEE(payload) != declaredCRC {
		return Replay{}, errs.New(errs.Corrupt, "RPLK payload CRC mismatch")
	}

	inputs := make([]InputPair, frameCount)
	for i := range inputs {
		p1 := sim.Input(binary.LittleEndian.Uint16(payload[i*bytesPerPair:]))
		p2 := sim.Input(binary.LittleEndian.Uint16(payload[i*bytesPerPair+2:]))
		inputs[i] = InputPair{P1: p1, P2: p2}
	}

	return Replay{Seed: seed, StartFrame: startFrame, Inputs: inputs}, nil
}
