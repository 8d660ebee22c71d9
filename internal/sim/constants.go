// Package sim holds the deterministic simulation state and the pure step
// function that advances it. Everything here operates on plain integers —
// no floats, no clock, no allocator-dependent behavior.
package sim

// FS is world-unit-to-fixed-unit scale. One world unit equals FS fixed
// units.
const FS = 1000

// Arena bounds, in fixed units.
const (
	MinX = 0
	MaxX = 20000

	GroundY = 0
)

// Player AABB, in fixed units.
const (
	PlayerWidth  = 600
	PlayerHeight = 900
)

// Spawn positions, in fixed units.
const (
	P1StartX = 4000
	P2StartX = 16000
	StartY   = 0
)

// Movement and gravity, in fixed units per tick.
const (
	MoveSpeedPerTick    = 300
	GravityPerTick      = -40
	JumpVelocityPerTick = 500
)

// Attack hitbox and timing.
const (
	AttackHitboxWidth    = 700
	AttackHitboxHeight   = 700
	AttackActiveFrames   = 5
	AttackCooldownFrames = 30
	AttackDamage         = 25
	HitstunFrames        = 20
)

// DefaultHp is the HP a freshly constructed player starts with.
const DefaultHp = 100

// TicksPerSecond is the fixed simulation rate.
const TicksPerSecond = 60

// SentinelFrame marks a ring-buffer slot as never written. The frame
// counter is unsigned 32-bit and treats this value as unreachable in
// practice (wraparound would take ~828 days at 60 Hz).
const SentinelFrame = 0xFFFFFFFF
