package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/keymotion/motion"
)

// Pose is sampling output for one skeleton instance
type Pose struct {
	skeleton *Skeleton

	Local   []motion.Transform
	Morphs  []float32
	Floats  map[int]float32
	model   []mgl32.Mat4
	modelOk bool
}

var _ motion.FloatPose = (*Pose)(nil)

// NewPose returns pose in bind state
func NewPose(s *Skeleton) *Pose {
	p := &Pose{
		skeleton: s,
		Local:    make([]motion.Transform, len(s.Joints)),
		Morphs:   make([]float32, len(s.MorphTargets)),
		Floats:   make(map[int]float32),
		model:    make([]mgl32.Mat4, len(s.Joints)),
	}
	for i := range s.Joints {
		p.Local[i] = s.Joints[i].BindPose
	}
	return p
}

func (p *Pose) SetLocalSpaceTransform(joint int, t motion.Transform) {
	p.Local[joint] = t
	p.modelOk = false
}

func (p *Pose) SetMorphWeight(morph int, weight float32) {
	p.Morphs[morph] = weight
}

func (p *Pose) SetFloatValue(channel int, value float32) {
	p.Floats[channel] = value
}

func (p *Pose) InvalidateModelSpaceTransforms() {
	p.modelOk = false
}

func (p *Pose) updateModelSpace() {
	for i, j := range p.skeleton.Joints {
		local := p.Local[i].Mat4()
		if j.Parent < 0 {
			p.model[i] = local
		} else {
			p.model[i] = p.model[j.Parent].Mul4(local)
		}
	}
	p.modelOk = true
}

// ModelSpaceMatrix returns joint matrix relative to skeleton root
func (p *Pose) ModelSpaceMatrix(joint int) mgl32.Mat4 {
	if !p.modelOk {
		p.updateModelSpace()
	}
	return p.model[joint]
}

// ModelSpacePosition returns joint origin relative to skeleton root
func (p *Pose) ModelSpacePosition(joint int) mgl32.Vec3 {
	return p.ModelSpaceMatrix(joint).Col(3).Vec3()
}
