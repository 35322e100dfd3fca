package motion

// MirrorInfo describes how joint is mirrored
type MirrorInfo struct {
	// joint which data mirrored into this joint when Paired,
	// otherwise joint mirrors itself
	SourceJoint int
	Paired      bool
	Axis        MirrorAxis
}

// Skeleton is actor which motion is played on.
// Motion never modifies skeleton.
type Skeleton interface {
	NumJoints() int
	JointName(joint int) string
	IsJointEnabled(joint int) bool
	BindPose(joint int) Transform
	MirrorInfo(joint int) MirrorInfo
	// joint which root motion extracted from, -1 if none
	MotionExtractionJoint() int

	NumMorphTargets() int
	MorphTargetName(morph int) string
}

// Pose is output buffer of sampling
type Pose interface {
	SetLocalSpaceTransform(joint int, t Transform)
	SetMorphWeight(morph int, weight float32)
	// called after local transforms changed, model space cache must be rebuilt
	InvalidateModelSpaceTransforms()
}

// FloatPose is pose which also receives float channels, by motion float index
type FloatPose interface {
	Pose
	SetFloatValue(channel int, value float32)
}

// Link maps skeleton joints and morph targets to motion channels by name.
// -1 means motion has no data for it.
type Link struct {
	Joints []int
	Morphs []int
}

func NewLink(m *Motion, sk Skeleton) *Link {
	l := &Link{
		Joints: make([]int, sk.NumJoints()),
		Morphs: make([]int, sk.NumMorphTargets()),
	}
	for i := range l.Joints {
		l.Joints[i] = m.FindJoint(sk.JointName(i))
	}
	for i := range l.Morphs {
		l.Morphs[i] = m.FindMorph(sk.MorphTargetName(i))
	}
	return l
}

func (l *Link) MotionJoint(skeletonJoint int) int {
	if skeletonJoint < 0 || skeletonJoint >= len(l.Joints) {
		return -1
	}
	return l.Joints[skeletonJoint]
}
