package motion

type SampleFlags uint8

const (
	SampleRetarget SampleFlags = 1 << iota
	SampleMirror
	// keep motion extraction joint in place
	SampleInPlace
)

// Sampler plays motion on skeleton.
// Single motion may be sampled by many samplers at once.
type Sampler struct {
	Motion   *Motion
	Skeleton Skeleton
	Link     *Link
	Hooks    Hooks
}

func NewSampler(m *Motion, sk Skeleton) *Sampler {
	return &Sampler{
		Motion:   m,
		Skeleton: sk,
		Link:     NewLink(m, sk),
		Hooks:    DefaultHooks{},
	}
}

func (s *Sampler) SampleJointTransform(joint int, t float32, flags SampleFlags) Transform {
	source := joint
	var mirror MirrorInfo
	if flags&SampleMirror != 0 {
		mirror = s.Skeleton.MirrorInfo(joint)
		if mirror.Paired {
			source = mirror.SourceJoint
		}
	}

	motionJoint := s.Link.MotionJoint(source)
	if motionJoint < 0 {
		// no data must mean no delta for additive motion
		if s.Motion.Additive {
			return IdentityTransform()
		}
		return s.Skeleton.BindPose(joint)
	}

	result := s.Motion.SampleJoint(motionJoint, t)

	if flags&SampleRetarget != 0 && !s.Motion.Additive {
		result = s.Hooks.Retarget(result,
			s.Motion.Joints[motionJoint].BindTransform(), s.Skeleton.BindPose(source))
	}
	if flags&SampleInPlace != 0 && source == s.Skeleton.MotionExtractionJoint() {
		result = s.Hooks.InPlace(result, s.Skeleton.BindPose(source))
	}
	if flags&SampleMirror != 0 {
		result = s.Hooks.Mirror(result, mirror)
	}
	return result
}

// SampleFullPose writes local transforms of every enabled joint,
// then morph weights and float channels into pose
func (s *Sampler) SampleFullPose(t float32, flags SampleFlags, pose Pose) {
	for joint := 0; joint < s.Skeleton.NumJoints(); joint++ {
		if s.Skeleton.IsJointEnabled(joint) {
			pose.SetLocalSpaceTransform(joint, s.SampleJointTransform(joint, t, flags))
		}
	}
	pose.InvalidateModelSpaceTransforms()

	for morph, motionMorph := range s.Link.Morphs {
		if motionMorph >= 0 {
			pose.SetMorphWeight(morph, s.Motion.SampleMorph(t, motionMorph))
		} else if s.Motion.Additive {
			pose.SetMorphWeight(morph, 0)
		}
	}

	if fp, ok := pose.(FloatPose); ok {
		for i := range s.Motion.Floats {
			fp.SetFloatValue(i, s.Motion.SampleFloat(t, i))
		}
	}
}

func (s *Sampler) SampleMorph(t float32, morph int) float32 {
	return s.Motion.SampleMorph(t, morph)
}

func (s *Sampler) SampleFloat(t float32, channel int) float32 {
	return s.Motion.SampleFloat(t, channel)
}
