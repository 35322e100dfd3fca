package motion

import "github.com/go-gl/mathgl/mgl32"

// Transform is local space transformation of joint
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

type MirrorAxis uint8

const (
	MirrorX MirrorAxis = iota
	MirrorY
	MirrorZ
)

// Mirror reflects transform over plane perpendicular to axis
func (t Transform) Mirror(axis MirrorAxis) Transform {
	r := t
	r.Position[axis] = -r.Position[axis]
	for i := range r.Rotation.V {
		if MirrorAxis(i) != axis {
			r.Rotation.V[i] = -r.Rotation.V[i]
		}
	}
	return r
}

func (t Transform) ApproxEqual(o Transform, threshold float32) bool {
	return t.Position.ApproxEqualThreshold(o.Position, threshold) &&
		t.Scale.ApproxEqualThreshold(o.Scale, threshold) &&
		(t.Rotation.ApproxEqualThreshold(o.Rotation, threshold) ||
			t.Rotation.ApproxEqualThreshold(o.Rotation.Scale(-1), threshold))
}
