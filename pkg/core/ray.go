package core

// Face records which side of a surface a ray arrived from
type Face uint32

const (
	Front Face = iota
	Back
)

func (f Face) String() string {
	if f == Back {
		return "back"
	}
	return "front"
}

// Ray represents a ray with an origin and direction.
// The direction is not normalized; its magnitude carries through intersection math.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// GetFace returns Front when the ray travels against the outward normal
func (r Ray) GetFace(outwardNormal Vec3) Face {
	if r.Direction.Dot(outwardNormal) < 0 {
		return Front
	}
	return Back
}
