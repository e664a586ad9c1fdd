package core

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// Position returns the point at parameter t along the ray
func (r Ray) Position(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Transform returns the ray with its origin transformed as a point and its
// direction transformed as a vector. The direction is not renormalized so
// that t values stay comparable across coordinate spaces.
func (r Ray) Transform(m Matrix) Ray {
	return Ray{
		Origin:    m.MulPoint(r.Origin),
		Direction: m.MulVector(r.Direction),
	}
}
