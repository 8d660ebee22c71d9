// Package fixed provides the integer fixed-point scale and the
// deterministic pseudo-random generator the simulation runs on. Nothing
// in this package touches a float, a clock, or an allocator on its hot
// path.
package fixed

// Scale converts whole world units to fixed units: it is the number of
// fixed units per world unit.
const Scale = 1000

// ToFixed converts a world-unit quantity to fixed units.
func ToFixed(wu int32) int32 {
	return wu * Scale
}
