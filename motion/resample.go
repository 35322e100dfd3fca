package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/keymotion/keytrack"
)

const sampleRateEpsilon = 1e-4

// uniformTimes returns sample times k*spacing covering [0, duration]
func uniformTimes(duration, rate float32) []float32 {
	if duration <= 0 {
		return []float32{0}
	}

	numSamples := int(math.Floor(float64(duration*rate)+0.5)) + 1
	if numSamples < 2 {
		numSamples = 2
	}
	spacing := duration / float32(numSamples-1)

	times := make([]float32, numSamples)
	for k := range times {
		times[k] = float32(k) * spacing
	}
	// exact end, accumulated error must not shorten motion
	times[numSamples-1] = duration
	return times
}

func resampleVec3(src *keytrack.Track[mgl32.Vec3], times []float32) keytrack.Track[mgl32.Vec3] {
	var dst keytrack.Track[mgl32.Vec3]
	dst.Alloc(len(times))
	for i, t := range times {
		dst.Times[i] = t
		dst.Values[i] = keytrack.SampleVec3(src, t)
	}
	return dst
}

func resampleRotation(src *keytrack.Track[keytrack.CompressedQuat], times []float32) keytrack.Track[keytrack.CompressedQuat] {
	var dst keytrack.Track[keytrack.CompressedQuat]
	dst.Alloc(len(times))
	for i, t := range times {
		dst.Times[i] = t
		dst.Values[i] = keytrack.CompressQuat(keytrack.SampleRotation(src, t))
	}
	return dst
}

func resampleFloat(src *keytrack.Track[float32], times []float32) keytrack.Track[float32] {
	var dst keytrack.Track[float32]
	dst.Alloc(len(times))
	for i, t := range times {
		dst.Times[i] = t
		dst.Values[i] = keytrack.SampleFloat(src, t)
	}
	return dst
}

// Resample returns new motion with every animated track uniformly sampled at rate.
// Not animated channels stay not animated.
// Motion already at rate copied without resampling.
func (m *Motion) Resample(rate float32) *Motion {
	if mgl32.FloatEqualThreshold(m.SampleRate, rate, sampleRateEpsilon) {
		return m.Clone()
	}

	times := uniformTimes(m.Duration, rate)

	result := &Motion{
		Joints:       make([]*JointChannel, len(m.Joints)),
		Morphs:       make([]*ScalarChannel, len(m.Morphs)),
		Floats:       make([]*ScalarChannel, len(m.Floats)),
		SampleRate:   rate,
		Duration:     m.Duration,
		Additive:     m.Additive,
		ScaleEnabled: m.ScaleEnabled,
	}

	for i, src := range m.Joints {
		jc := *src
		jc.Position, jc.Rotation, jc.Scale = keytrack.Track[mgl32.Vec3]{}, keytrack.Track[keytrack.CompressedQuat]{}, keytrack.Track[mgl32.Vec3]{}
		if src.Position.IsAnimated() {
			jc.Position = resampleVec3(&src.Position, times)
		}
		if src.Rotation.IsAnimated() {
			jc.Rotation = resampleRotation(&src.Rotation, times)
		}
		if m.ScaleEnabled && src.Scale.IsAnimated() {
			jc.Scale = resampleVec3(&src.Scale, times)
		}
		result.Joints[i] = &jc
	}

	resampleScalars := func(dst, src []*ScalarChannel) {
		for i, sc := range src {
			c := &ScalarChannel{Name: sc.Name, StaticValue: sc.StaticValue}
			if sc.Track.IsAnimated() {
				c.Track = resampleFloat(&sc.Track, times)
			}
			dst[i] = c
		}
	}
	resampleScalars(result.Morphs, m.Morphs)
	resampleScalars(result.Floats, m.Floats)

	result.RemoveRedundantKeyframes(nil)
	return result
}
