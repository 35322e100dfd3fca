package keytrack

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Blender is interpolation rule and distance metric of a track value type
type Blender[T any] interface {
	Blend(a, b T, f float32) T
	Distance(a, b T) float32
}

type FloatBlend struct{}

func (FloatBlend) Blend(a, b float32, f float32) float32 {
	return a + (b-a)*f
}

func (FloatBlend) Distance(a, b float32) float32 {
	return float32(math.Abs(float64(a - b)))
}

type Vec3Blend struct{}

func (Vec3Blend) Blend(a, b mgl32.Vec3, f float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a[0] + (b[0]-a[0])*f,
		a[1] + (b[1]-a[1])*f,
		a[2] + (b[2]-a[2])*f,
	}
}

func (Vec3Blend) Distance(a, b mgl32.Vec3) float32 {
	return a.Sub(b).Len()
}

// QuatBlend interpolates rotations with nlerp, not slerp.
// Playback depends on exactly this blend, do not replace it.
type QuatBlend struct{}

func (QuatBlend) Blend(a, b mgl32.Quat, f float32) mgl32.Quat {
	return Nlerp(a, b, f)
}

// Distance returns angle in radians between two rotations
func (QuatBlend) Distance(a, b mgl32.Quat) float32 {
	return AngleBetween(a, b)
}

// Nlerp takes shortest path between a and b
func Nlerp(a, b mgl32.Quat, f float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.Quat{
		W: a.W + (b.W-a.W)*f,
		V: Vec3Blend{}.Blend(a.V, b.V, f),
	}.Normalize()
}

func AngleBetween(a, b mgl32.Quat) float32 {
	a = a.Normalize()
	b = b.Normalize()
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}

	var diff, sum float64
	for i := 0; i < 4; i++ {
		ac, bc := float64(quatComponent(a, i)), float64(quatComponent(b, i))
		diff += (ac - bc) * (ac - bc)
		sum += (ac + bc) * (ac + bc)
	}
	return float32(4 * math.Atan2(math.Sqrt(diff), math.Sqrt(sum)))
}

func quatComponent(q mgl32.Quat, i int) float32 {
	if i == 3 {
		return q.W
	}
	return q.V[i]
}

const compressedQuatScale = 32767.0

// CompressedQuat is rotation stored as 16 bit signed normalized x, y, z, w
type CompressedQuat [4]int16

func CompressQuat(q mgl32.Quat) CompressedQuat {
	return CompressedQuat{
		compressComponent(q.V[0]),
		compressComponent(q.V[1]),
		compressComponent(q.V[2]),
		compressComponent(q.W),
	}
}

func compressComponent(v float32) int16 {
	return int16(math.Round(float64(mgl32.Clamp(v, -1, 1)) * compressedQuatScale))
}

// Decompress returns quaternion as stored, without normalization
func (c CompressedQuat) Decompress() mgl32.Quat {
	return mgl32.Quat{
		W: float32(c[3]) / compressedQuatScale,
		V: mgl32.Vec3{
			float32(c[0]) / compressedQuatScale,
			float32(c[1]) / compressedQuatScale,
			float32(c[2]) / compressedQuatScale,
		},
	}
}

func IdentityCompressedQuat() CompressedQuat {
	return CompressedQuat{0, 0, 0, int16(compressedQuatScale)}
}

// DecodeRotation is decoder used for rotation tracks
func DecodeRotation(c CompressedQuat) mgl32.Quat {
	return c.Decompress().Normalize()
}
