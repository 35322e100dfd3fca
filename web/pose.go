package web

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/keymotion/motion"
	"github.com/mogaika/keymotion/skeleton"
	"github.com/mogaika/keymotion/utils"
)

type jsonTransform struct {
	Position [3]float32 `json:"position"`
	// x, y, z, w
	Rotation [4]float32 `json:"rotation"`
	// degrees
	Euler [3]float32 `json:"euler"`
	Scale [3]float32 `json:"scale"`
}

func newJsonTransform(t motion.Transform) jsonTransform {
	return jsonTransform{
		Position: t.Position,
		Rotation: t.Rotation.V.Vec4(t.Rotation.W),
		Euler:    utils.RadiansToDegreeV3(utils.QuatToEuler(t.Rotation)),
		Scale:    t.Scale,
	}
}

type jsonJointPose struct {
	Name  string        `json:"name"`
	Local jsonTransform `json:"local"`
	Model [3]float32    `json:"model"`
}

type jsonPose struct {
	Time   float32            `json:"time"`
	Joints []jsonJointPose    `json:"joints"`
	Morphs map[string]float32 `json:"morphs"`
	Floats map[string]float32 `json:"floats"`
}

// frames per second limit of playback and resampling
const maxSampleRate = 1000

type playOptions struct {
	flags motion.SampleFlags
	axis  motion.MirrorAxis
	// frames per second, motion sample rate when zero
	rate float32
	loop bool
}

func parsePlayOptions(r *http.Request) (playOptions, error) {
	var opts playOptions
	q := r.URL.Query()

	flags, err := parseFlagList(q.Get("flags"))
	if err != nil {
		return opts, err
	}
	opts.flags = flags

	switch q.Get("axis") {
	case "", "x":
		opts.axis = motion.MirrorX
	case "y":
		opts.axis = motion.MirrorY
	case "z":
		opts.axis = motion.MirrorZ
	default:
		return opts, errors.Errorf("Unknown mirror axis %q", q.Get("axis"))
	}

	if rate := q.Get("rate"); rate != "" {
		v, err := strconv.ParseFloat(rate, 32)
		if err != nil || !(v > 0 && v <= maxSampleRate) {
			return opts, errors.Errorf("Invalid rate %q", rate)
		}
		opts.rate = float32(v)
	}
	opts.loop = q.Get("loop") == "1" || q.Get("loop") == "true"
	return opts, nil
}

// poseSampler plays motion on skeleton built from motion bind pose
type poseSampler struct {
	skeleton *skeleton.Skeleton
	sampler  *motion.Sampler
	pose     *skeleton.Pose
	flags    motion.SampleFlags
}

func newPoseSampler(m *motion.Motion, opts playOptions) *poseSampler {
	sk := skeleton.FromMotion(m, opts.axis)
	return &poseSampler{
		skeleton: sk,
		sampler:  motion.NewSampler(m, sk),
		pose:     skeleton.NewPose(sk),
		flags:    opts.flags,
	}
}

func (ps *poseSampler) sample(t float32) *jsonPose {
	ps.sampler.SampleFullPose(t, ps.flags, ps.pose)

	m := ps.sampler.Motion
	result := &jsonPose{
		Time:   t,
		Joints: make([]jsonJointPose, len(ps.skeleton.Joints)),
		Morphs: make(map[string]float32, len(ps.skeleton.MorphTargets)),
		Floats: make(map[string]float32, len(m.Floats)),
	}
	for i, j := range ps.skeleton.Joints {
		result.Joints[i] = jsonJointPose{
			Name:  j.Name,
			Local: newJsonTransform(ps.pose.Local[i]),
			Model: ps.pose.ModelSpacePosition(i),
		}
	}
	for i, name := range ps.skeleton.MorphTargets {
		result.Morphs[name] = ps.pose.Morphs[i]
	}
	for i, sc := range m.Floats {
		result.Floats[sc.Name] = ps.pose.Floats[i]
	}
	return result
}

func requestLogger(r *http.Request) logrus.FieldLogger {
	return logrus.WithFields(logrus.Fields{
		"remote": r.RemoteAddr,
		"path":   r.URL.Path,
	})
}
