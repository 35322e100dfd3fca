// Package skeleton is joint hierarchy which motions are played on
package skeleton

import (
	"github.com/pkg/errors"

	"github.com/mogaika/keymotion/motion"
)

type Joint struct {
	Name string
	// index of parent joint, -1 for root
	Parent   int
	BindPose motion.Transform
	Mirror   motion.MirrorInfo
	Disabled bool
}

type Skeleton struct {
	Joints           []Joint
	MotionExtraction int
	MorphTargets     []string
}

var _ motion.Skeleton = (*Skeleton)(nil)

// New validates hierarchy, parent must go before its children
func New(joints []Joint, morphTargets []string) (*Skeleton, error) {
	for i, j := range joints {
		if j.Parent >= i {
			return nil, errors.Errorf("Joint %d %q has parent %d which is not before it", i, j.Name, j.Parent)
		}
		if j.Mirror.Paired && (j.Mirror.SourceJoint < 0 || j.Mirror.SourceJoint >= len(joints)) {
			return nil, errors.Errorf("Joint %d %q mirrors unknown joint %d", i, j.Name, j.Mirror.SourceJoint)
		}
	}
	return &Skeleton{
		Joints:           joints,
		MotionExtraction: -1,
		MorphTargets:     morphTargets,
	}, nil
}

func (s *Skeleton) FindJoint(name string) int {
	for i := range s.Joints {
		if s.Joints[i].Name == name {
			return i
		}
	}
	return -1
}

func (s *Skeleton) NumJoints() int { return len(s.Joints) }
func (s *Skeleton) JointName(joint int) string { return s.Joints[joint].Name }
func (s *Skeleton) IsJointEnabled(joint int) bool { return !s.Joints[joint].Disabled }
func (s *Skeleton) BindPose(joint int) motion.Transform { return s.Joints[joint].BindPose }
func (s *Skeleton) MirrorInfo(joint int) motion.MirrorInfo { return s.Joints[joint].Mirror }
func (s *Skeleton) MotionExtractionJoint() int { return s.MotionExtraction }
func (s *Skeleton) NumMorphTargets() int { return len(s.MorphTargets) }
func (s *Skeleton) MorphTargetName(morph int) string { return s.MorphTargets[morph] }
