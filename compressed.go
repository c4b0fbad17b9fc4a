package ltmsg

import "math"

// Vector is a 3D vector in engine units.
type Vector struct {
	X, Y, Z float32
}

// Rotation is an orientation stored as a unit quaternion.
type Rotation struct {
	X, Y, Z, W float32
}

// IdentityRotation is the rotation that leaves every vector unchanged.
var IdentityRotation = Rotation{W: 1}

// YRotation returns the rotation of yaw radians about the vertical axis.
func YRotation(yaw float32) Rotation {
	s, c := math.Sincos(float64(yaw) / 2)
	return Rotation{Y: float32(s), W: float32(c)}
}

// Yaw returns the heading of q about the vertical axis, in [-π, π].
func (q Rotation) Yaw() float32 {
	x, y, z, w := float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)
	return float32(math.Atan2(2*(w*y+x*z), 1-2*(x*x+y*y)))
}

// Polar is a point in polar form: a radius and two angles in radians.
type Polar struct {
	Radius float32
	Theta  float32
	Phi    float32
}

// --- Writers ---

func (w *Writer) writeVector(v Vector, p Profile) {
	r := float64(p.Range)
	w.put(quantizeSigned(float64(v.X), r, p.Bits), p.Bits)
	w.put(quantizeSigned(float64(v.Y), r, p.Bits), p.Bits)
	w.put(quantizeSigned(float64(v.Z), r, p.Bits), p.Bits)
}

// WriteCompVector writes v with the Vector profile: three signed fixed-point
// components.
func (w *Writer) WriteCompVector(v Vector) { w.writeVector(v, w.opts.conf().Vector) }

// WriteCompPos writes a world position with the Position profile.
func (w *Writer) WriteCompPos(v Vector) { w.writeVector(v, w.opts.conf().Position) }

// WriteCompRotation writes q with the smallest-three encoding: 2 bits naming
// the largest component, which is dropped, followed by the other three over
// [-1/√2, 1/√2]. q is normalized first; a zero quaternion writes identity.
func (w *Writer) WriteCompRotation(q Rotation) {
	bits := w.opts.conf().RotationBits
	c := [4]float64{float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)}
	norm := math.Sqrt(c[0]*c[0] + c[1]*c[1] + c[2]*c[2] + c[3]*c[3])
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		c = [4]float64{0, 0, 0, 1}
		norm = 1
	}
	largest := 0
	for i := range c {
		c[i] /= norm
		if math.Abs(c[i]) > math.Abs(c[largest]) {
			largest = i
		}
	}
	// q and -q are the same rotation; make the dropped component positive.
	if c[largest] < 0 {
		for i := range c {
			c[i] = -c[i]
		}
	}
	w.put(uint64(largest), 2)
	for i := range c {
		if i != largest {
			w.put(quantizeSigned(c[i], math.Sqrt2/2, bits), bits)
		}
	}
}

// WriteYRotation writes only the yaw of q. Use it for objects known to rotate
// about the vertical axis alone.
func (w *Writer) WriteYRotation(q Rotation) { w.WriteYaw(q.Yaw()) }

// WriteYaw writes an angle in radians over [0, 2π).
func (w *Writer) WriteYaw(a float32) {
	bits := w.opts.conf().YawBits
	w.put(quantizeAngle(float64(a), bits), bits)
}

// WriteCompPolar writes the radius with the Radius profile and both angles
// like WriteYaw.
func (w *Writer) WriteCompPolar(p Polar) {
	cfg := w.opts.conf()
	w.put(quantizeUnsigned(float64(p.Radius), float64(cfg.Radius.Range), cfg.Radius.Bits), cfg.Radius.Bits)
	w.put(quantizeAngle(float64(p.Theta), cfg.YawBits), cfg.YawBits)
	w.put(quantizeAngle(float64(p.Phi), cfg.YawBits), cfg.YawBits)
}

// --- Readers ---
//
// Each reader checks the full width up front so a truncated value leaves the
// cursor untouched.

func (r *Reader) need(op string, n uint) error {
	if uint64(r.pos)+uint64(n) > uint64(r.size) {
		return r.outOfRange(op, n)
	}
	return nil
}

// next reads n bits that need has already checked.
func (r *Reader) next(n uint) uint64 {
	v := getBits(r.data, r.start+r.pos, n)
	r.pos += uint32(n)
	return v
}

func (r *Reader) readVector(p Profile) (Vector, error) {
	if err := r.need("vector", 3*p.Bits); err != nil {
		return Vector{}, err
	}
	rng := float64(p.Range)
	return Vector{
		X: float32(dequantizeSigned(r.next(p.Bits), rng, p.Bits)),
		Y: float32(dequantizeSigned(r.next(p.Bits), rng, p.Bits)),
		Z: float32(dequantizeSigned(r.next(p.Bits), rng, p.Bits)),
	}, nil
}

func (r *Reader) ReadCompVector() (Vector, error) { return r.readVector(r.opts.conf().Vector) }
func (r *Reader) ReadCompPos() (Vector, error)    { return r.readVector(r.opts.conf().Position) }

func (r *Reader) ReadCompRotation() (Rotation, error) {
	bits := r.opts.conf().RotationBits
	if err := r.need("rotation", 2+3*bits); err != nil {
		return Rotation{}, err
	}
	largest := int(r.next(2))
	var c [4]float64
	var sum float64
	for i := range c {
		if i == largest {
			continue
		}
		c[i] = dequantizeSigned(r.next(bits), math.Sqrt2/2, bits)
		sum += c[i] * c[i]
	}
	c[largest] = math.Sqrt(max(0, 1-sum))
	return Rotation{X: float32(c[0]), Y: float32(c[1]), Z: float32(c[2]), W: float32(c[3])}, nil
}

// ReadYaw reads an angle written by WriteYaw, in [0, 2π).
func (r *Reader) ReadYaw() (float32, error) {
	bits := r.opts.conf().YawBits
	if err := r.need("yaw", bits); err != nil {
		return 0, err
	}
	return float32(dequantizeAngle(r.next(bits), bits)), nil
}

// ReadYRotation reads a yaw written by WriteYRotation and returns the
// corresponding rotation about the vertical axis.
func (r *Reader) ReadYRotation() (Rotation, error) {
	a, err := r.ReadYaw()
	if err != nil {
		return Rotation{}, err
	}
	return YRotation(a), nil
}

func (r *Reader) ReadCompPolar() (Polar, error) {
	cfg := r.opts.conf()
	if err := r.need("polar", cfg.Radius.Bits+2*cfg.YawBits); err != nil {
		return Polar{}, err
	}
	return Polar{
		Radius: float32(dequantizeUnsigned(r.next(cfg.Radius.Bits), float64(cfg.Radius.Range), cfg.Radius.Bits)),
		Theta:  float32(dequantizeAngle(r.next(cfg.YawBits), cfg.YawBits)),
		Phi:    float32(dequantizeAngle(r.next(cfg.YawBits), cfg.YawBits)),
	}, nil
}

func (r *Reader) PeekCompVector() (Vector, error)     { return peek(r, (*Reader).ReadCompVector) }
func (r *Reader) PeekCompPos() (Vector, error)        { return peek(r, (*Reader).ReadCompPos) }
func (r *Reader) PeekCompRotation() (Rotation, error) { return peek(r, (*Reader).ReadCompRotation) }
func (r *Reader) PeekYRotation() (Rotation, error)    { return peek(r, (*Reader).ReadYRotation) }
func (r *Reader) PeekYaw() (float32, error)           { return peek(r, (*Reader).ReadYaw) }
func (r *Reader) PeekCompPolar() (Polar, error)       { return peek(r, (*Reader).ReadCompPolar) }
