package world

import "github.com/cespare/xxhash/v2"

// Hash64 mixes a chunk coordinate, a local tile position and a world seed
// into a single 64-bit value. It is used both to drive deterministic value
// noise and to seed per-tile RNG rolls; every generator downstream of it
// must be reproducible from (coord, local, seed) alone.
func Hash64(chunkX, chunkY int32, localX, localY int, seed uint64) uint64 {
	h := seed
	h ^= uint64(chunkX) * 0x9E3779B97F4A7C15
	h ^= uint64(chunkY) * 0xC6A4A7935BD1E995
	h ^= uint64(localX) * 0x85EBCA6B
	h ^= uint64(localY) * 0xC2B2AE35
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return h
}

// hashCoord mixes two integer coordinates and a seed via xxhash, used where
// a coarser, cheaper hash than Hash64 is sufficient (corner/value noise
// lattice points).
func hashCoord(x, y int64, seed uint64) uint64 {
	var buf [24]byte
	putI64(buf[0:8], x)
	putI64(buf[8:16], y)
	putI64(buf[16:24], int64(seed))
	return xxhash.Sum64(buf[:])
}

func putI64(b []byte, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
}

// hashToUnit normalizes a 64-bit hash into [0, 1).
func hashToUnit(h uint64) float64 {
	return float64(h>>11) / float64(1<<53)
}

// smoothstep is the standard 3t^2 - 2t^3 ease curve.
func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// ValueNoise2D samples 2D value noise at (x, y) with lattice points hashed
// from seed. Bilinear interpolation with smoothstep easing between the four
// surrounding lattice corners.
func ValueNoise2D(x, y float64, seed uint64) float64 {
	x0, y0 := int64(floor(x)), int64(floor(y))
	x1, y1 := x0+1, y0+1

	tx := smoothstep(x - float64(x0))
	ty := smoothstep(y - float64(y0))

	v00 := hashToUnit(hashCoord(x0, y0, seed))
	v10 := hashToUnit(hashCoord(x1, y0, seed))
	v01 := hashToUnit(hashCoord(x0, y1, seed))
	v11 := hashToUnit(hashCoord(x1, y1, seed))

	top := lerp(v00, v10, tx)
	bottom := lerp(v01, v11, tx)
	return lerp(top, bottom, ty)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func floor(v float64) float64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return float64(i)
}

// FractalNoise2D sums octaves of ValueNoise2D at increasing frequency and
// decreasing amplitude (persistence), normalized to [0, 1].
func FractalNoise2D(x, y, scale float64, seed uint64, octaves int, persistence float64) float64 {
	var total, amplitude, frequency, maxAmplitude float64
	amplitude = 1
	frequency = scale
	for o := 0; o < octaves; o++ {
		total += ValueNoise2D(x*frequency, y*frequency, seed+uint64(o)) * amplitude
		maxAmplitude += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if maxAmplitude == 0 {
		return 0
	}
	return total / maxAmplitude
}

// BilinearInterpolate blends four corner values (NW, NE, SW, SE order) at
// fractional position (u, v) in [0, 1].
func BilinearInterpolate(nw, ne, sw, se float64, u, v float64) float64 {
	top := lerp(nw, ne, u)
	bottom := lerp(sw, se, u)
	return lerp(top, bottom, v)
}
