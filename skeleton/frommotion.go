package skeleton

import (
	"strings"

	"github.com/mogaika/keymotion/motion"
)

var mirrorPairs = [][2]string{
	{"Left", "Right"},
	{"left", "right"},
	{"L_", "R_"},
	{"l_", "r_"},
}

// mirrorName returns name of opposite side joint, or empty string
func mirrorName(name string) string {
	for _, pair := range mirrorPairs {
		if strings.Contains(name, pair[0]) {
			return strings.Replace(name, pair[0], pair[1], 1)
		}
		if strings.Contains(name, pair[1]) {
			return strings.Replace(name, pair[1], pair[0], 1)
		}
	}
	return ""
}

// FromMotion builds flat skeleton out of motion bind pose.
// Joints named by Left/Right convention mirrored into each other over axis,
// first joint used for motion extraction.
func FromMotion(m *motion.Motion, axis motion.MirrorAxis) *Skeleton {
	s := &Skeleton{
		Joints:           make([]Joint, len(m.Joints)),
		MotionExtraction: -1,
		MorphTargets:     make([]string, len(m.Morphs)),
	}
	for i, jc := range m.Joints {
		s.Joints[i] = Joint{
			Name:     jc.Name,
			Parent:   -1,
			BindPose: jc.BindTransform(),
			Mirror:   motion.MirrorInfo{Axis: axis},
		}
	}
	for i := range s.Joints {
		if other := mirrorName(s.Joints[i].Name); other != "" {
			if source := s.FindJoint(other); source >= 0 {
				s.Joints[i].Mirror.SourceJoint = source
				s.Joints[i].Mirror.Paired = true
			}
		}
	}
	for i, sc := range m.Morphs {
		s.MorphTargets[i] = sc.Name
	}
	if len(s.Joints) != 0 {
		s.MotionExtraction = 0
	}
	return s
}
