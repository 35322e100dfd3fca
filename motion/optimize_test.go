package motion_test

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/motion"
	"github.com/mogaika/keymotion/utils"
)

// noisyLine fills track with 9 keys on straight line with small alternating noise
func noisyLine(tr *keytrack.Track[mgl32.Vec3], noise float32) {
	for k := 0; k <= 8; k++ {
		v := mgl32.Vec3{float32(k) * 0.5, 0, 0}
		if k != 0 && k != 8 {
			if k%2 == 0 {
				v[1] = noise
			} else {
				v[1] = -noise
			}
		}
		tr.AddKey(float32(k)*0.25, v)
	}
}

func TestOptimizeBoundedError(t *testing.T) {
	m := motion.New()
	m.Duration = 2
	a := m.AddJoint("Spine")
	b := m.AddJoint("Head")
	noisyLine(&a.Position, 1e-5)
	noisyLine(&b.Position, 1e-5)
	original := m.Clone()

	settings := motion.DefaultOptimizeSettings()
	settings.IgnoreJoints = []string{"Head"}
	report := m.Optimize(settings, utils.NewLogger(logrus.New()))

	assert.Equal(t, []float32{0, 2}, a.Position.Times)
	assert.Equal(t, 9, b.Position.NumKeys(), "ignored joint keeps not exactly redundant keys")
	assert.Equal(t, 18, report.KeysBefore)
	assert.Equal(t, 11, report.KeysAfter)
	assert.Equal(t, 7, report.RemovedPosition)
	assert.Equal(t, 7, report.Removed())

	for _, tm := range original.Joints[0].Position.Times {
		expected := original.SampleJoint(0, tm).Position
		got := m.SampleJoint(0, tm).Position
		assert.Less(t, got.Sub(expected).Len(), float32(1e-4), "at %v", tm)
	}
}

func TestOptimizeCollapsesToStatic(t *testing.T) {
	m := motion.New()
	m.Duration = 1
	jc := m.AddJoint("Root")
	jc.StaticPosition = mgl32.Vec3{1, 2, 3}
	jc.Position.AddKey(0, mgl32.Vec3{1, 2, 3.0005})

	rot := keytrack.CompressQuat(mgl32.QuatRotate(0.3, mgl32.Vec3{1, 0, 0}))
	jc.StaticRotation = rot
	for i := 0; i < 5; i++ {
		jc.Rotation.AddKey(float32(i)*0.25, rot)
	}

	morph := m.AddMorph("Jaw", 0.5)
	morph.Track.AddKey(0, 0.5)
	morph.Track.AddKey(1, 0.9)

	report := m.Optimize(motion.DefaultOptimizeSettings(), nil)
	assert.False(t, jc.Position.IsAnimated())
	assert.False(t, jc.Rotation.IsAnimated())
	assert.Equal(t, 2, morph.Track.NumKeys(), "two distinct keys are kept")
	assert.Equal(t, 1, report.RemovedPosition)
	assert.Equal(t, 5, report.RemovedRotation)
	assert.Equal(t, 0, report.RemovedMorph)

	got := m.SampleJoint(0, 0.5)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, got.Position)
	assert.Less(t, keytrack.AngleBetween(got.Rotation, keytrack.DecodeRotation(rot)), float32(1e-5))
}

func TestOptimizeScaleDisabled(t *testing.T) {
	m := motion.New()
	m.ScaleEnabled = false
	jc := m.AddJoint("Root")
	jc.Scale.AddKey(0, mgl32.Vec3{1, 1, 1})
	jc.Scale.AddKey(1, mgl32.Vec3{1, 1, 1})

	report := m.Optimize(motion.DefaultOptimizeSettings(), nil)
	assert.Equal(t, 2, jc.Scale.NumKeys(), "scale tracks untouched when scale disabled")
	assert.Equal(t, 0, report.Removed())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, m.SampleJoint(0, 0).Scale)
}

func TestRemoveRedundantKeyframes(t *testing.T) {
	m := motion.New()
	fc := m.AddFloat("Speed", 0)
	for i := 0; i <= 10; i++ {
		fc.Track.AddKey(float32(i)*0.125, float32(i)*0.25)
	}
	fc.Track.Values[5] += 0.01

	removed := m.RemoveRedundantKeyframes(nil)
	assert.Equal(t, 6, removed)
	assert.Equal(t, []float32{0, 0.5, 0.625, 0.75, 1.25}, fc.Track.Times)
}

func TestLoadOptimizeSettings(t *testing.T) {
	s, err := motion.LoadOptimizeSettings(strings.NewReader(`
max_position_error: 0.01
max_rotation_error: 0.002
ignore_joints: [Head, Jaw]
`))
	require.NoError(t, err)
	assert.Equal(t, float32(0.01), s.MaxPositionError)
	assert.Equal(t, float32(0.002), s.MaxRotationError)
	assert.Equal(t, float32(0.0001), s.MaxScaleError)
	assert.Equal(t, []string{"Head", "Jaw"}, s.IgnoreJoints)

	s, err = motion.LoadOptimizeSettings(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, motion.DefaultOptimizeSettings(), s)

	_, err = motion.LoadOptimizeSettings(strings.NewReader("max_morph_error: -1\n"))
	assert.Error(t, err)

	_, err = motion.LoadOptimizeSettings(strings.NewReader("max_morph_error: [1\n"))
	assert.Error(t, err)
}
