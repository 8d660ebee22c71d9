package sim

import (
	"hash"
	"hash/fnv"
)

// Hash returns the FNV-1a 32-bit fingerprint of s, computed field-by-field
// in the documented order: Frame, then each P1 field in declaration
// order, then P2, then the PRNG state. It never reads the in-memory
// layout of State or Player — padding and field order in the struct are
// implementation details the hash must not depend on, so every logical
// field is written explicitly.
func Hash(s State) uint32 {
	h := fnv.New32a()
	writeU32(h, s.Frame)
	writePlayer(h, s.P1)
	writePlayer(h, s.P2)
	writeU32(h, s.Rand.State())
	return h.Sum32()
}

func writePlayer(h hash.Hash32, p Player) {
	writeI32(h, p.X)
	writeI32(h, p.Y)
	writeI32(h, p.Vx)
	writeI32(h, p.Vy)
	writeI32(h, p.Facing)
	writeU32(h, uint32(p.Action)) // zero-extended byte
	writeI32(h, p.HitstunFrames)
	writeI32(h, p.HP)
	writeI32(h, p.AttackCooldownFrames)
	writeI32(h, p.AttackActiveFrames)
	writeU32(h, uint32(p.AttackHasHit)) // zero-extended byte
}

func writeU32(h hash.Hash32, v uint32) {
	h.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// writeI32 reinterprets a signed value bitwise as unsigned before mixing
// it in, per §4.3's "signed values are reinterpreted bitwise as unsigned".
func writeI32(h hash.Hash32, v int32) {
	writeU32(h, uint32(v))
}
