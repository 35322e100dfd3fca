package motion_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/mogaika/keymotion/motion"
)

func TestMotionChannels(t *testing.T) {
	m := testMotion()

	assert.Equal(t, 1, m.FindJoint("LeftLeg"))
	assert.Equal(t, -1, m.FindJoint("Tail"))
	assert.Equal(t, 0, m.FindMorph("Smile"))
	assert.Equal(t, -1, m.FindMorph("Blink"))
	assert.Equal(t, 0, m.FindFloat("Footstep"))

	assert.Equal(t, 2, m.NumAnimatedTracks())
	assert.Equal(t, 4, m.NumKeys())

	m.Duration = 0
	m.UpdateDuration()
	assert.Equal(t, float32(1), m.Duration)
}

func TestMotionClone(t *testing.T) {
	m := testMotion()
	c := m.Clone()
	assert.Equal(t, m, c)

	c.Joints[0].Position.Values[1] = mgl32.Vec3{}
	c.Morphs[0].Name = "Frown"
	assert.Equal(t, mgl32.Vec3{2, 4, 1.5}, m.Joints[0].Position.Values[1])
	assert.Equal(t, "Smile", m.Morphs[0].Name)
}

func TestTransformMirror(t *testing.T) {
	tr := motion.Transform{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.QuatRotate(0.4, mgl32.Vec3{1, 1, 0}.Normalize()),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
	for _, axis := range []motion.MirrorAxis{motion.MirrorX, motion.MirrorY, motion.MirrorZ} {
		assert.True(t, tr.Mirror(axis).Mirror(axis).ApproxEqual(tr, 1e-6))
	}

	m := tr.Mirror(motion.MirrorY)
	assert.Equal(t, mgl32.Vec3{1, -2, 3}, m.Position)
	assert.Equal(t, tr.Rotation.W, m.Rotation.W)
	assert.Equal(t, -tr.Rotation.V[0], m.Rotation.V[0])
	assert.Equal(t, tr.Rotation.V[1], m.Rotation.V[1])
}

func TestScalarChannelStaticValue(t *testing.T) {
	m := motion.New()
	sc := m.AddMorph("Idle", 0.4)
	assert.Equal(t, float32(0.4), m.SampleMorph(3, 0))
	assert.Equal(t, float32(0), m.SampleMorph(3, 1))

	sc.Track.AddKey(0, 1)
	assert.Equal(t, float32(1), sc.Sample(3))
}
