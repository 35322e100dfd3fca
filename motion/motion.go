package motion

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/keymotion/config"
	"github.com/mogaika/keymotion/keytrack"
)

// JointChannel holds animation of single joint.
// Joints bound to skeleton by Name, because joint layout differs per skeleton.
type JointChannel struct {
	Name string

	Position keytrack.Track[mgl32.Vec3]
	Rotation keytrack.Track[keytrack.CompressedQuat]
	Scale    keytrack.Track[mgl32.Vec3]

	// first frame values, used when track not animated
	StaticPosition mgl32.Vec3
	StaticRotation keytrack.CompressedQuat
	StaticScale    mgl32.Vec3

	BindPosition mgl32.Vec3
	BindRotation keytrack.CompressedQuat
	BindScale    mgl32.Vec3
}

func NewJointChannel(name string) *JointChannel {
	return &JointChannel{
		Name:           name,
		StaticRotation: keytrack.IdentityCompressedQuat(),
		StaticScale:    mgl32.Vec3{1, 1, 1},
		BindRotation:   keytrack.IdentityCompressedQuat(),
		BindScale:      mgl32.Vec3{1, 1, 1},
	}
}

func (jc *JointChannel) SetStaticTransform(t Transform) {
	jc.StaticPosition = t.Position
	jc.StaticRotation = keytrack.CompressQuat(t.Rotation)
	jc.StaticScale = t.Scale
}

func (jc *JointChannel) SetBindTransform(t Transform) {
	jc.BindPosition = t.Position
	jc.BindRotation = keytrack.CompressQuat(t.Rotation)
	jc.BindScale = t.Scale
}

func (jc *JointChannel) StaticTransform() Transform {
	return Transform{
		Position: jc.StaticPosition,
		Rotation: keytrack.DecodeRotation(jc.StaticRotation),
		Scale:    jc.StaticScale,
	}
}

func (jc *JointChannel) BindTransform() Transform {
	return Transform{
		Position: jc.BindPosition,
		Rotation: keytrack.DecodeRotation(jc.BindRotation),
		Scale:    jc.BindScale,
	}
}

func (jc *JointChannel) clone() *JointChannel {
	c := *jc
	c.Position = jc.Position.Clone()
	c.Rotation = jc.Rotation.Clone()
	c.Scale = jc.Scale.Clone()
	return &c
}

// ScalarChannel is morph target weight or generic float signal
type ScalarChannel struct {
	Name        string
	StaticValue float32
	Track       keytrack.Track[float32]
}

func (sc *ScalarChannel) Sample(t float32) float32 {
	if !sc.Track.IsAnimated() {
		return sc.StaticValue
	}
	return keytrack.SampleFloat(&sc.Track, t)
}

func (sc *ScalarChannel) clone() *ScalarChannel {
	c := *sc
	c.Track = sc.Track.Clone()
	return &c
}

// Motion is set of keyframed channels.
// Motion must not be modified while it is sampled.
type Motion struct {
	Joints []*JointChannel
	Morphs []*ScalarChannel
	Floats []*ScalarChannel

	// authoring rate, tracks are not required to be uniform
	SampleRate float32
	Duration   float32
	// motion holds deltas which applied on top of other pose
	Additive bool
	// scale channels are ignored completely when disabled
	ScaleEnabled bool
}

func New() *Motion {
	return &Motion{
		SampleRate:   30,
		ScaleEnabled: config.ScaleEnabled(),
	}
}

func (m *Motion) AddJoint(name string) *JointChannel {
	jc := NewJointChannel(name)
	m.Joints = append(m.Joints, jc)
	return jc
}

func (m *Motion) AddMorph(name string, staticValue float32) *ScalarChannel {
	sc := &ScalarChannel{Name: name, StaticValue: staticValue}
	m.Morphs = append(m.Morphs, sc)
	return sc
}

func (m *Motion) AddFloat(name string, staticValue float32) *ScalarChannel {
	sc := &ScalarChannel{Name: name, StaticValue: staticValue}
	m.Floats = append(m.Floats, sc)
	return sc
}

// FindJoint returns index of joint channel or -1
func (m *Motion) FindJoint(name string) int {
	for i, jc := range m.Joints {
		if jc.Name == name {
			return i
		}
	}
	return -1
}

func findScalar(channels []*ScalarChannel, name string) int {
	for i, sc := range channels {
		if sc.Name == name {
			return i
		}
	}
	return -1
}

func (m *Motion) FindMorph(name string) int {
	return findScalar(m.Morphs, name)
}

func (m *Motion) FindFloat(name string) int {
	return findScalar(m.Floats, name)
}

// forEachTrackEnd calls cb with start and end time of every animated track
func (m *Motion) forEachTrackEnd(cb func(start, end float32)) {
	for _, jc := range m.Joints {
		if jc.Position.IsAnimated() {
			cb(jc.Position.StartTime(), jc.Position.EndTime())
		}
		if jc.Rotation.IsAnimated() {
			cb(jc.Rotation.StartTime(), jc.Rotation.EndTime())
		}
		if m.ScaleEnabled && jc.Scale.IsAnimated() {
			cb(jc.Scale.StartTime(), jc.Scale.EndTime())
		}
	}
	for _, channels := range [][]*ScalarChannel{m.Morphs, m.Floats} {
		for _, sc := range channels {
			if sc.Track.IsAnimated() {
				cb(sc.Track.StartTime(), sc.Track.EndTime())
			}
		}
	}
}

// UpdateDuration sets duration to maximal end time over all tracks
func (m *Motion) UpdateDuration() {
	m.Duration = 0
	m.forEachTrackEnd(func(start, end float32) {
		if end > m.Duration {
			m.Duration = end
		}
	})
}

func (m *Motion) NumAnimatedTracks() int {
	count := 0
	m.forEachTrackEnd(func(start, end float32) { count++ })
	return count
}

func (m *Motion) NumKeys() int {
	count := 0
	for _, jc := range m.Joints {
		count += jc.Position.NumKeys() + jc.Rotation.NumKeys()
		if m.ScaleEnabled {
			count += jc.Scale.NumKeys()
		}
	}
	for _, sc := range m.Morphs {
		count += sc.Track.NumKeys()
	}
	for _, sc := range m.Floats {
		count += sc.Track.NumKeys()
	}
	return count
}

// Clone returns deep copy, no tracks shared between motions
func (m *Motion) Clone() *Motion {
	c := *m
	c.Joints = make([]*JointChannel, len(m.Joints))
	for i, jc := range m.Joints {
		c.Joints[i] = jc.clone()
	}
	c.Morphs = make([]*ScalarChannel, len(m.Morphs))
	for i, sc := range m.Morphs {
		c.Morphs[i] = sc.clone()
	}
	c.Floats = make([]*ScalarChannel, len(m.Floats))
	for i, sc := range m.Floats {
		c.Floats[i] = sc.clone()
	}
	return &c
}

// SampleJoint returns local transform of joint channel at time t.
// Not animated tracks take static value.
func (m *Motion) SampleJoint(joint int, t float32) Transform {
	jc := m.Joints[joint]

	result := Transform{
		Position: jc.StaticPosition,
		Scale:    mgl32.Vec3{1, 1, 1},
	}
	if jc.Position.IsAnimated() {
		result.Position = keytrack.SampleVec3(&jc.Position, t)
	}
	if jc.Rotation.IsAnimated() {
		result.Rotation = keytrack.SampleRotation(&jc.Rotation, t)
	} else {
		result.Rotation = keytrack.DecodeRotation(jc.StaticRotation)
	}
	if m.ScaleEnabled {
		if jc.Scale.IsAnimated() {
			result.Scale = keytrack.SampleVec3(&jc.Scale, t)
		} else {
			result.Scale = jc.StaticScale
		}
	}
	return result
}

// SampleMorph returns morph weight, or 0 for unknown index
func (m *Motion) SampleMorph(t float32, morph int) float32 {
	if morph < 0 || morph >= len(m.Morphs) {
		return 0
	}
	return m.Morphs[morph].Sample(t)
}

func (m *Motion) SampleFloat(t float32, channel int) float32 {
	if channel < 0 || channel >= len(m.Floats) {
		return 0
	}
	return m.Floats[channel].Sample(t)
}
