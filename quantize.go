package ltmsg

import "math"

// Quantization primitives shared by every compressed type. They work in
// float64 so the only float32 rounding happens at the API boundary.

const twoPi = 2 * math.Pi

// quantizeSigned maps v in [-r, r] onto 0..2^bits-1, clamping values outside
// the range. NaN encodes as 0.
func quantizeSigned(v, r float64, bits uint) uint64 {
	steps := float64(mask(bits))
	if math.IsNaN(v) {
		v = 0
	}
	v = max(-r, min(r, v))
	return uint64(math.Round((v + r) / (2 * r) * steps))
}

func dequantizeSigned(q uint64, r float64, bits uint) float64 {
	return float64(q)/float64(mask(bits))*2*r - r
}

// quantizeUnsigned maps v in [0, r] onto 0..2^bits-1.
func quantizeUnsigned(v, r float64, bits uint) uint64 {
	steps := float64(mask(bits))
	if math.IsNaN(v) {
		v = 0
	}
	v = max(0, min(r, v))
	return uint64(math.Round(v / r * steps))
}

func dequantizeUnsigned(q uint64, r float64, bits uint) float64 {
	return float64(q) / float64(mask(bits)) * r
}

// normalizeAngle folds a into [0, 2π).
func normalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

// quantizeAngle maps an angle onto 2^bits steps around the circle; 2π wraps
// to 0.
func quantizeAngle(a float64, bits uint) uint64 {
	steps := float64(uint64(1) << bits)
	return uint64(math.Round(normalizeAngle(a)/twoPi*steps)) & mask(bits)
}

func dequantizeAngle(q uint64, bits uint) float64 {
	return float64(q) / float64(uint64(1)<<bits) * twoPi
}

// AngleStep returns the resolution in radians of an angle quantized to bits.
func AngleStep(bits uint) float64 { return twoPi / float64(uint64(1)<<bits) }
