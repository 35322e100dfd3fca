package keytrack

import "github.com/go-gl/mathgl/mgl32"

const (
	// CollapseTolerance is distance under which one or two keys are
	// considered equal to static value and track is dropped
	CollapseTolerance = 0.001
	// RedundantTolerance used by cleanup pass after resampling
	RedundantTolerance = 1e-4
)

// Reduce removes keys whose value can be reinterpolated from neighbours
// with error lower than maxError. First and last keys are never removed.
// ref is static value of channel.
// Returns count of removed keys.
func Reduce[T any](tr *Track[T], ref T, maxError float32, b Blender[T]) int {
	return ReduceDecoded(tr, ref, maxError, identity[T], b)
}

func ReduceRotation(tr *Track[CompressedQuat], ref mgl32.Quat, maxError float32) int {
	return ReduceDecoded[CompressedQuat, mgl32.Quat](tr, ref, maxError, DecodeRotation, QuatBlend{})
}

func ReduceDecoded[S, V any](tr *Track[S], ref V, maxError float32, decode func(S) V, b Blender[V]) int {
	if removed := collapse(tr, ref, decode, b); removed != 0 || tr.NumKeys() < 3 {
		return removed
	}

	removed := 0
	work := tr.Clone()
	for i := 1; i < tr.NumKeys()-1; {
		t := tr.Times[i]
		original := decode(tr.Values[i])

		work.RemoveKey(i)
		if b.Distance(original, SampleDecoded(&work, t, decode, b)) < maxError {
			tr.RemoveKey(i)
			removed++
		} else {
			// restore whole working copy
			work.CopyFrom(tr)
			i++
		}
	}

	return removed + collapse(tr, ref, decode, b)
}

// collapse clears track of one or two keys which are indistinguishable from ref
func collapse[S, V any](tr *Track[S], ref V, decode func(S) V, b Blender[V]) int {
	switch tr.NumKeys() {
	case 1:
		if b.Distance(decode(tr.Values[0]), ref) <= CollapseTolerance {
			tr.Clear()
			return 1
		}
	case 2:
		v0, v1 := decode(tr.Values[0]), decode(tr.Values[1])
		if b.Distance(v0, v1) <= CollapseTolerance &&
			b.Distance(v0, ref) <= CollapseTolerance &&
			b.Distance(v1, ref) <= CollapseTolerance {
			tr.Clear()
			return 2
		}
	}
	return 0
}
