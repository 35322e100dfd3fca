// Package gltfmotion converts motions from and to gltf animations
package gltfmotion

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/motion"
	"github.com/mogaika/keymotion/utils"
)

type ImportOptions struct {
	// authoring rate of imported motion, motion default when zero
	SampleRate float32
	Logger     *utils.Logger
}

type nodeChannels struct {
	translation, rotation, scale, weights *gltf.Channel
}

type samplerData struct {
	times         []float32
	output        interface{}
	interpolation gltf.Interpolation
}

func readSampler(doc *gltf.Document, anim *gltf.Animation, ch *gltf.Channel) (*samplerData, error) {
	if ch.Sampler == nil || int(*ch.Sampler) >= len(anim.Samplers) {
		return nil, errors.Errorf("Invalid sampler index %v", ch.Sampler)
	}
	s := anim.Samplers[*ch.Sampler]

	input, err := readAccessor(doc, s.Input)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read sampler input")
	}
	times, ok := input.([]float32)
	if !ok {
		return nil, errors.Errorf("Sampler input must be float scalars, got %T", input)
	}
	output, err := readAccessor(doc, s.Output)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read sampler output")
	}
	return &samplerData{times: times, output: output, interpolation: s.Interpolation}, nil
}

// fillTrack appends sampler keys to track.
// Cubic spline keeps only value element of each key,
// step keys duplicated so linear playback holds value until next key.
func fillTrack[T any](tr *keytrack.Track[T], times []float32, values []T, interpolation gltf.Interpolation) error {
	stride, offset := 1, 0
	if interpolation == gltf.InterpolationCubicSpline {
		stride, offset = 3, 1
	}
	if len(values) != len(times)*stride {
		return errors.Errorf("Sampler has %d keys and %d values", len(times), len(values))
	}

	for i, t := range times {
		if interpolation == gltf.InterpolationStep && i > 0 {
			tr.AddKey(t, tr.Values[tr.NumKeys()-1])
		}
		tr.AddKey(t, values[i*stride+offset])
	}
	return nil
}

func importVec3(doc *gltf.Document, anim *gltf.Animation, ch *gltf.Channel, tr *keytrack.Track[mgl32.Vec3]) error {
	sd, err := readSampler(doc, anim, ch)
	if err != nil {
		return err
	}
	values, err := toVec3s(sd.output)
	if err != nil {
		return err
	}
	return fillTrack(tr, sd.times, values, sd.interpolation)
}

func importRotation(doc *gltf.Document, anim *gltf.Animation, ch *gltf.Channel, tr *keytrack.Track[keytrack.CompressedQuat]) error {
	sd, err := readSampler(doc, anim, ch)
	if err != nil {
		return err
	}
	values, err := toRotations(sd.output)
	if err != nil {
		return err
	}
	return fillTrack(tr, sd.times, values, sd.interpolation)
}

func defaultWeights(doc *gltf.Document, n *gltf.Node) []float32 {
	if len(n.Weights) != 0 {
		return n.Weights
	}
	if n.Mesh != nil && int(*n.Mesh) < len(doc.Meshes) {
		return doc.Meshes[*n.Mesh].Weights
	}
	return nil
}

func importWeights(m *motion.Motion, doc *gltf.Document, anim *gltf.Animation, ch *gltf.Channel, n *gltf.Node, name string) error {
	sd, err := readSampler(doc, anim, ch)
	if err != nil {
		return err
	}
	weights, err := toFloats(sd.output)
	if err != nil {
		return err
	}

	keyValues := len(sd.times)
	if sd.interpolation == gltf.InterpolationCubicSpline {
		keyValues *= 3
	}
	if keyValues == 0 || len(weights)%keyValues != 0 {
		return errors.Errorf("Weights count %d does not match %d keys", len(weights), len(sd.times))
	}
	numTargets := len(weights) / keyValues
	defaults := defaultWeights(doc, n)

	for target := 0; target < numTargets; target++ {
		var static float32
		if target < len(defaults) {
			static = defaults[target]
		}
		sc := m.AddMorph(fmt.Sprintf("%s.%d", name, target), static)

		values := make([]float32, keyValues)
		for i := range values {
			values[i] = weights[i*numTargets+target]
		}
		if err := fillTrack(&sc.Track, sd.times, values, sd.interpolation); err != nil {
			return errors.Wrapf(err, "Morph target %d", target)
		}
		if sc.Track.IsAnimated() {
			sc.StaticValue = sc.Track.Values[0]
		}
	}
	return nil
}

// Import converts gltf animation into motion.
// Every node targeted by animation becomes joint channel, ordered by node index.
func Import(doc *gltf.Document, animIndex int, opts ImportOptions) (*motion.Motion, error) {
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, errors.Errorf("Animation %d not found, document has %d", animIndex, len(doc.Animations))
	}
	anim := doc.Animations[animIndex]
	_l := opts.Logger.WithField("animation", anim.Name)

	byNode := make(map[uint32]*nodeChannels)
	for iChannel, ch := range anim.Channels {
		if ch.Target.Node == nil || int(*ch.Target.Node) >= len(doc.Nodes) {
			_l.Printf("channel %d has no valid target node, skipped", iChannel)
			continue
		}
		nc, ok := byNode[*ch.Target.Node]
		if !ok {
			nc = &nodeChannels{}
			byNode[*ch.Target.Node] = nc
		}
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			nc.translation = ch
		case gltf.TRSRotation:
			nc.rotation = ch
		case gltf.TRSScale:
			nc.scale = ch
		case gltf.TRSWeights:
			nc.weights = ch
		default:
			_l.Printf("channel %d has unsupported path %v, skipped", iChannel, ch.Target.Path)
		}
	}

	nodes := make([]uint32, 0, len(byNode))
	for iNode := range byNode {
		nodes = append(nodes, iNode)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	var rng utils.RandomNameGenerator
	for _, n := range doc.Nodes {
		if n.Name != "" {
			rng.Reserve(n.Name)
		}
	}

	m := motion.New()
	if opts.SampleRate > 0 {
		m.SampleRate = opts.SampleRate
	}

	used := make(map[string]bool)
	for _, iNode := range nodes {
		node := doc.Nodes[iNode]
		nc := byNode[iNode]

		name := node.Name
		if name == "" || used[name] {
			name = rng.RandomName()
			_l.Printf("node %d %q renamed to %q", iNode, node.Name, name)
		}
		used[name] = true

		if nc.translation != nil || nc.rotation != nil || nc.scale != nil {
			bind := nodeTransform(node)
			jc := m.AddJoint(name)
			jc.SetBindTransform(bind)
			jc.SetStaticTransform(bind)

			if nc.translation != nil {
				if err := importVec3(doc, anim, nc.translation, &jc.Position); err != nil {
					return nil, errors.Wrapf(err, "Node %q translation", name)
				}
			}
			if nc.rotation != nil {
				if err := importRotation(doc, anim, nc.rotation, &jc.Rotation); err != nil {
					return nil, errors.Wrapf(err, "Node %q rotation", name)
				}
			}
			if nc.scale != nil && m.ScaleEnabled {
				if err := importVec3(doc, anim, nc.scale, &jc.Scale); err != nil {
					return nil, errors.Wrapf(err, "Node %q scale", name)
				}
			}

			if jc.Position.IsAnimated() {
				jc.StaticPosition = jc.Position.Values[0]
			}
			if jc.Rotation.IsAnimated() {
				jc.StaticRotation = jc.Rotation.Values[0]
			}
			if jc.Scale.IsAnimated() {
				jc.StaticScale = jc.Scale.Values[0]
			}
		}

		if nc.weights != nil {
			if err := importWeights(m, doc, anim, nc.weights, node, name); err != nil {
				return nil, errors.Wrapf(err, "Node %q weights", name)
			}
		}
	}

	m.UpdateDuration()
	_l.Printf("imported %d joints, %d morphs, %d keys, duration %v",
		len(m.Joints), len(m.Morphs), m.NumKeys(), m.Duration)
	return m, nil
}
