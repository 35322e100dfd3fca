package keytrack

import "github.com/go-gl/mathgl/mgl32"

func identity[T any](v T) T { return v }

// Sample returns value of track at time t.
// Track must be animated, caller handles static fallback.
func Sample[T any](tr *Track[T], t float32, b Blender[T]) T {
	return SampleDecoded(tr, t, identity[T], b)
}

// SampleDecoded samples track which stores values in representation S
// but blends them as V (compressed rotations)
func SampleDecoded[S, V any](tr *Track[S], t float32, decode func(S) V, b Blender[V]) V {
	ia, ib, f := tr.FindKey(t)
	if ia == ib {
		return decode(tr.Values[ia])
	}
	return b.Blend(decode(tr.Values[ia]), decode(tr.Values[ib]), f)
}

func SampleFloat(tr *Track[float32], t float32) float32 {
	return Sample[float32](tr, t, FloatBlend{})
}

func SampleVec3(tr *Track[mgl32.Vec3], t float32) mgl32.Vec3 {
	return Sample[mgl32.Vec3](tr, t, Vec3Blend{})
}

func SampleRotation(tr *Track[CompressedQuat], t float32) mgl32.Quat {
	return SampleDecoded[CompressedQuat, mgl32.Quat](tr, t, DecodeRotation, QuatBlend{})
}
