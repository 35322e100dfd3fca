package gltfmotion

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/motion"
	"github.com/mogaika/keymotion/utils/gltfutils"
)

func walkMotion() *motion.Motion {
	m := motion.New()
	m.ScaleEnabled = true

	hip := m.AddJoint("Hip")
	hip.SetBindTransform(motion.Transform{
		Position: mgl32.Vec3{0, 1, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	})
	hip.Position.AddKey(0, mgl32.Vec3{0, 1, 0})
	hip.Position.AddKey(0.5, mgl32.Vec3{0.25, 1.1, 0})
	hip.Position.AddKey(1, mgl32.Vec3{0.5, 1, 0})
	hip.Rotation.AddKey(0, keytrack.CompressQuat(mgl32.QuatIdent()))
	hip.Rotation.AddKey(1, keytrack.CompressQuat(mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})))
	hip.Scale.AddKey(0, mgl32.Vec3{1, 1, 1})
	hip.Scale.AddKey(1, mgl32.Vec3{1, 0.5, 1})

	arm := m.AddJoint("Arm")
	arm.SetBindTransform(motion.Transform{
		Position: mgl32.Vec3{0.3, 0.4, 0},
		Rotation: mgl32.QuatRotate(0.5, mgl32.Vec3{0, 0, 1}),
		Scale:    mgl32.Vec3{1, 1, 1},
	})
	arm.Rotation.AddKey(0, keytrack.CompressQuat(mgl32.QuatRotate(0.5, mgl32.Vec3{0, 0, 1})))
	arm.Rotation.AddKey(1, keytrack.CompressQuat(mgl32.QuatRotate(-0.5, mgl32.Vec3{0, 0, 1})))

	m.AddMorph("Smile", 0)
	m.UpdateDuration()
	return m
}

func TestExportImport(t *testing.T) {
	m := walkMotion()
	doc, err := Export(m, "walk")
	require.NoError(t, err)
	require.Len(t, doc.Animations, 1)
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Animations[0].Channels, 4)

	var buf bytes.Buffer
	require.NoError(t, gltfutils.ExportBinary(&buf, doc))

	var decoded gltf.Document
	require.NoError(t, gltf.NewDecoder(&buf).Decode(&decoded))

	got, err := Import(&decoded, 0, ImportOptions{SampleRate: 60})
	require.NoError(t, err)
	require.NoError(t, got.Verify())

	assert.Equal(t, float32(60), got.SampleRate)
	assert.Equal(t, float32(1), got.Duration)
	require.Len(t, got.Joints, 2)
	assert.Empty(t, got.Morphs, "morph channels are not exported")

	for i, jc := range got.Joints {
		src := m.Joints[i]
		assert.Equal(t, src.Name, jc.Name)
		assert.Equal(t, src.Position, jc.Position)
		assert.Equal(t, src.Rotation, jc.Rotation)
		assert.Equal(t, src.Scale, jc.Scale)
		assert.True(t, src.BindTransform().ApproxEqual(jc.BindTransform(), 1e-4))
	}

	arm := got.Joints[1]
	assert.Equal(t, mgl32.Vec3{0.3, 0.4, 0}, arm.StaticPosition, "not animated channel takes node value")
	assert.Equal(t, arm.Rotation.Values[0], arm.StaticRotation)
}

type testDoc struct {
	doc  *gltf.Document
	anim *gltf.Animation
}

func newTestDoc() *testDoc {
	d := &testDoc{doc: gltf.NewDocument(), anim: &gltf.Animation{Name: "test"}}
	d.doc.Animations = append(d.doc.Animations, d.anim)
	return d
}

func (d *testDoc) node(n *gltf.Node) uint32 {
	d.doc.Nodes = append(d.doc.Nodes, n)
	return uint32(len(d.doc.Nodes) - 1)
}

func (d *testDoc) channel(node uint32, path gltf.TRSProperty, interpolation gltf.Interpolation, times []float32, values interface{}) {
	d.anim.Samplers = append(d.anim.Samplers, &gltf.AnimationSampler{
		Input:         gltf.Index(modeler.WriteAccessor(d.doc, gltf.TargetNone, times)),
		Output:        gltf.Index(modeler.WriteAccessor(d.doc, gltf.TargetNone, values)),
		Interpolation: interpolation,
	})
	d.anim.Channels = append(d.anim.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(d.anim.Samplers) - 1)),
		Target:  gltf.ChannelTarget{Node: gltf.Index(node), Path: path},
	})
}

func TestImportInterpolationModes(t *testing.T) {
	d := newTestDoc()
	stepNode := d.node(&gltf.Node{Name: "Step"})
	cubicNode := d.node(&gltf.Node{Name: "Cubic", Translation: [3]float32{0, 0, 7}})
	d.node(&gltf.Node{Name: "Unused"})

	d.channel(stepNode, gltf.TRSTranslation, gltf.InterpolationStep,
		[]float32{0, 1, 2}, [][3]float32{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}})
	d.channel(cubicNode, gltf.TRSRotation, gltf.InterpolationCubicSpline,
		[]float32{0, 2}, [][4]float32{
			{9, 9, 9, 9}, {0, 0, 0, 1}, {9, 9, 9, 9},
			{9, 9, 9, 9}, {0, 1, 0, 0}, {9, 9, 9, 9},
		})

	m, err := Import(d.doc, 0, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, m.Joints, 2)
	assert.Equal(t, float32(2), m.Duration)
	assert.Equal(t, float32(30), m.SampleRate)

	step := m.Joints[0]
	assert.Equal(t, []float32{0, 1, 1, 2, 2}, step.Position.Times)
	for _, c := range []struct {
		t float32
		x float32
	}{{0, 1}, {0.5, 1}, {0.99, 1}, {1, 2}, {1.5, 2}, {2, 3}} {
		assert.Equal(t, c.x, m.SampleJoint(0, c.t).Position[0], "at %v", c.t)
	}

	cubic := m.Joints[1]
	assert.Equal(t, []keytrack.CompressedQuat{{0, 0, 0, 32767}, {0, 32767, 0, 0}}, cubic.Rotation.Values)
	assert.Equal(t, mgl32.Vec3{0, 0, 7}, cubic.StaticPosition)
	assert.False(t, cubic.Position.IsAnimated())
}

func TestImportWeightsAndNames(t *testing.T) {
	d := newTestDoc()
	face := d.node(&gltf.Node{Weights: []float32{0.5, 0.5}})
	twin := d.node(&gltf.Node{Name: "Twin"})
	twin2 := d.node(&gltf.Node{Name: "Twin"})

	d.channel(face, gltf.TRSWeights, gltf.InterpolationLinear,
		[]float32{0, 1}, []float32{0, 1, 0.5, 0.25})
	d.channel(twin, gltf.TRSScale, gltf.InterpolationLinear,
		[]float32{0, 1}, [][3]float32{{1, 1, 1}, {2, 2, 2}})
	d.channel(twin2, gltf.TRSRotation, gltf.InterpolationLinear,
		[]float32{0, 1}, [][4]int16{{0, 0, 0, 32767}, {32767, 0, 0, 0}})

	m, err := Import(d.doc, 0, ImportOptions{})
	require.NoError(t, err)

	require.Len(t, m.Morphs, 2)
	prefix := m.Morphs[0].Name[:len(m.Morphs[0].Name)-2]
	assert.NotEmpty(t, prefix, "unnamed node gets generated name")
	assert.Equal(t, prefix+".0", m.Morphs[0].Name)
	assert.Equal(t, prefix+".1", m.Morphs[1].Name)
	assert.Equal(t, []float32{0, 0.5}, m.Morphs[0].Track.Values)
	assert.Equal(t, []float32{1, 0.25}, m.Morphs[1].Track.Values)
	assert.Equal(t, float32(1), m.Morphs[1].StaticValue)

	require.Len(t, m.Joints, 2)
	assert.Equal(t, "Twin", m.Joints[0].Name)
	assert.NotEqual(t, "Twin", m.Joints[1].Name, "duplicate names must be made unique")
	assert.NotEqual(t, prefix, m.Joints[1].Name)
	assert.Equal(t, keytrack.CompressedQuat{32767, 0, 0, 0}, m.Joints[1].Rotation.Values[1])
}

func TestImportErrors(t *testing.T) {
	d := newTestDoc()
	n := d.node(&gltf.Node{Name: "Bad"})

	_, err := Import(d.doc, 1, ImportOptions{})
	assert.Error(t, err)

	d.channel(n, gltf.TRSTranslation, gltf.InterpolationLinear,
		[]float32{0, 1, 2}, [][3]float32{{}, {}})
	_, err = Import(d.doc, 0, ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad")

	d = newTestDoc()
	n = d.node(&gltf.Node{Name: "Vec2"})
	d.channel(n, gltf.TRSTranslation, gltf.InterpolationLinear,
		[]float32{0, 1}, [][2]float32{{}, {}})
	_, err = Import(d.doc, 0, ImportOptions{})
	assert.Error(t, err)
}

func TestNodeTransformMatrix(t *testing.T) {
	expected := motion.Transform{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0}),
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	n := &gltf.Node{Matrix: expected.Mat4()}
	assert.True(t, nodeTransform(n).ApproxEqual(expected, 1e-5))

	assert.Equal(t, motion.IdentityTransform(), nodeTransform(&gltf.Node{}))
}
