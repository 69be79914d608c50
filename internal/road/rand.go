package road

// Source yields uniform draws in [0,1).
type Source interface {
	Float64() float64
}

// splitmix64 is a fast, high-quality 64-bit mixer.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Rand is a tiny deterministic RNG (xorshift64*).
type Rand struct {
	s uint64
}

// NewRand seeds a Rand. The seed is mixed first so nearby seeds
// (level numbers, retries) give unrelated roads.
func NewRand(seed uint64) *Rand {
	s := splitmix64(seed)
	if s == 0 {
		s = 1
	}
	return &Rand{s: s}
}

func (r *Rand) NextU64() uint64 {
	x := r.s
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.s = x
	return x * 2685821657736338717
}

func (r *Rand) Float64() float64 {
	return float64(r.NextU64()>>11) * (1.0 / (1 << 53))
}

// MixSeed derives a per-round seed from a base seed and a round counter.
func MixSeed(seed uint64, level, attempt int) uint64 {
	h := seed
	h ^= uint64(uint32(level)) * 0x9E3779B185EBCA87
	h ^= uint64(uint32(attempt)) * 0xC2B2AE3D27D4EB4F
	return splitmix64(h)
}
