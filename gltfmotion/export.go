package gltfmotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/motion"
	"github.com/mogaika/keymotion/utils"
	"github.com/mogaika/keymotion/utils/gltfutils"
)

type exporter struct {
	doc  *gltf.Document
	anim *gltf.Animation
}

func (e *exporter) writeTimes(times []float32) uint32 {
	index := modeler.WriteAccessor(e.doc, gltf.TargetNone, times)
	// input accessor must carry bounds
	acr := e.doc.Accessors[index]
	acr.Min = []float32{times[0]}
	acr.Max = []float32{times[len(times)-1]}
	return index
}

func (e *exporter) addChannel(node uint32, path gltf.TRSProperty, input, output uint32) {
	e.anim.Samplers = append(e.anim.Samplers, &gltf.AnimationSampler{
		Input:         gltf.Index(input),
		Output:        gltf.Index(output),
		Interpolation: gltf.InterpolationLinear,
	})
	e.anim.Channels = append(e.anim.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(e.anim.Samplers) - 1)),
		Target: gltf.ChannelTarget{
			Node: gltf.Index(node),
			Path: path,
		},
	})
}

func (e *exporter) addVec3Track(node uint32, path gltf.TRSProperty, tr *keytrack.Track[mgl32.Vec3]) {
	if !tr.IsAnimated() {
		return
	}
	input := e.writeTimes(tr.Times)
	output := modeler.WriteAccessor(e.doc, gltf.TargetNone, utils.Vec3Array(tr.Values))
	e.addChannel(node, path, input, output)
}

func (e *exporter) addRotationTrack(node uint32, tr *keytrack.Track[keytrack.CompressedQuat]) {
	if !tr.IsAnimated() {
		return
	}
	values := make([][4]int16, len(tr.Values))
	for i, q := range tr.Values {
		values[i] = q
	}
	input := e.writeTimes(tr.Times)
	output := modeler.WriteAccessor(e.doc, gltf.TargetNone, values)
	e.doc.Accessors[output].Normalized = true
	e.addChannel(node, gltf.TRSRotation, input, output)
}

// Export builds document with node per joint channel placed in bind pose
// and single animation with linear samplers.
// Morph and float channels have no mesh to target and are not exported.
func Export(m *motion.Motion, name string) (*gltf.Document, error) {
	e := &exporter{
		doc:  gltfutils.NewDocument(),
		anim: &gltf.Animation{Name: name},
	}

	for _, jc := range m.Joints {
		if len(jc.Position.Times) != len(jc.Position.Values) ||
			len(jc.Rotation.Times) != len(jc.Rotation.Values) ||
			len(jc.Scale.Times) != len(jc.Scale.Values) {
			return nil, errors.Errorf("Joint %q has tracks with inconsistent key arrays", jc.Name)
		}

		bind := jc.BindTransform()
		node := uint32(len(e.doc.Nodes))
		e.doc.Nodes = append(e.doc.Nodes, &gltf.Node{
			Name:        jc.Name,
			Translation: bind.Position,
			Rotation:    bind.Rotation.V.Vec4(bind.Rotation.W),
			Scale:       bind.Scale,
		})

		e.addVec3Track(node, gltf.TRSTranslation, &jc.Position)
		e.addRotationTrack(node, &jc.Rotation)
		if m.ScaleEnabled {
			e.addVec3Track(node, gltf.TRSScale, &jc.Scale)
		}
	}

	if len(e.anim.Channels) != 0 {
		e.doc.Animations = append(e.doc.Animations, e.anim)
	}
	return e.doc, nil
}
