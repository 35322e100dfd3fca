package motion

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/utils"
)

// tolerance used for ignored channels, keeps only exactly redundant keys
const ignoredChannelTolerance = 1e-7

type OptimizeSettings struct {
	MaxPositionError float32 `yaml:"max_position_error"`
	// radians
	MaxRotationError float32 `yaml:"max_rotation_error"`
	MaxScaleError    float32 `yaml:"max_scale_error"`
	MaxMorphError    float32 `yaml:"max_morph_error"`
	MaxFloatError    float32 `yaml:"max_float_error"`

	IgnoreJoints []string `yaml:"ignore_joints,omitempty"`
	IgnoreMorphs []string `yaml:"ignore_morphs,omitempty"`
	IgnoreFloats []string `yaml:"ignore_floats,omitempty"`
}

func DefaultOptimizeSettings() OptimizeSettings {
	return OptimizeSettings{
		MaxPositionError: 0.0001,
		MaxRotationError: 0.0001,
		MaxScaleError:    0.0001,
		MaxMorphError:    0.0001,
		MaxFloatError:    0.0001,
	}
}

// LoadOptimizeSettings reads yaml settings, missing fields keep default values
func LoadOptimizeSettings(r io.Reader) (OptimizeSettings, error) {
	s := DefaultOptimizeSettings()
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
		return s, errors.Wrapf(err, "Failed to decode optimize settings")
	}
	for _, e := range []float32{s.MaxPositionError, s.MaxRotationError, s.MaxScaleError, s.MaxMorphError, s.MaxFloatError} {
		if e < 0 {
			return s, errors.Errorf("Negative error tolerance %v", e)
		}
	}
	return s, nil
}

func (s *OptimizeSettings) tolerance(maxError float32, ignore []string, name string) float32 {
	for _, ignored := range ignore {
		if ignored == name {
			return ignoredChannelTolerance
		}
	}
	return maxError
}

// uniformSettings returns settings where every channel class uses same tolerance
func uniformSettings(maxError float32) OptimizeSettings {
	return OptimizeSettings{
		MaxPositionError: maxError,
		MaxRotationError: maxError,
		MaxScaleError:    maxError,
		MaxMorphError:    maxError,
		MaxFloatError:    maxError,
	}
}

type OptimizeReport struct {
	KeysBefore int
	KeysAfter  int

	RemovedPosition int
	RemovedRotation int
	RemovedScale    int
	RemovedMorph    int
	RemovedFloat    int
}

func (r *OptimizeReport) Removed() int {
	return r.RemovedPosition + r.RemovedRotation + r.RemovedScale + r.RemovedMorph + r.RemovedFloat
}

// Optimize removes keys which do not change curve more than tolerance of channel class.
// Ignored channels stay animated but lose only exactly redundant keys.
func (m *Motion) Optimize(s OptimizeSettings, _l *utils.Logger) OptimizeReport {
	report := OptimizeReport{KeysBefore: m.NumKeys()}

	for _, jc := range m.Joints {
		posErr := s.tolerance(s.MaxPositionError, s.IgnoreJoints, jc.Name)
		rotErr := s.tolerance(s.MaxRotationError, s.IgnoreJoints, jc.Name)
		scaleErr := s.tolerance(s.MaxScaleError, s.IgnoreJoints, jc.Name)

		pos := keytrack.Reduce[mgl32.Vec3](&jc.Position, jc.StaticPosition, posErr, keytrack.Vec3Blend{})
		rot := keytrack.ReduceRotation(&jc.Rotation, keytrack.DecodeRotation(jc.StaticRotation), rotErr)
		scale := 0
		if m.ScaleEnabled {
			scale = keytrack.Reduce[mgl32.Vec3](&jc.Scale, jc.StaticScale, scaleErr, keytrack.Vec3Blend{})
		}

		report.RemovedPosition += pos
		report.RemovedRotation += rot
		report.RemovedScale += scale
		_l.Printf("joint %q: removed %d position, %d rotation, %d scale keys", jc.Name, pos, rot, scale)
	}

	for _, sc := range m.Morphs {
		removed := keytrack.Reduce[float32](&sc.Track, sc.StaticValue,
			s.tolerance(s.MaxMorphError, s.IgnoreMorphs, sc.Name), keytrack.FloatBlend{})
		report.RemovedMorph += removed
		_l.Printf("morph %q: removed %d keys", sc.Name, removed)
	}

	for _, sc := range m.Floats {
		removed := keytrack.Reduce[float32](&sc.Track, sc.StaticValue,
			s.tolerance(s.MaxFloatError, s.IgnoreFloats, sc.Name), keytrack.FloatBlend{})
		report.RemovedFloat += removed
		_l.Printf("float %q: removed %d keys", sc.Name, removed)
	}

	report.KeysAfter = m.NumKeys()
	return report
}

// RemoveRedundantKeyframes is cleanup pass with fixed conservative tolerance, used after resampling
func (m *Motion) RemoveRedundantKeyframes(_l *utils.Logger) int {
	report := m.Optimize(uniformSettings(keytrack.RedundantTolerance), _l)
	return report.Removed()
}
