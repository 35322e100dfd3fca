package web

import (
	"bytes"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/keymotion/codec"
	"github.com/mogaika/keymotion/gltfmotion"
	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/motion"
	"github.com/mogaika/keymotion/utils"
	"github.com/mogaika/keymotion/utils/gltfutils"
	"github.com/mogaika/keymotion/webutils"
)

type jsonTrack struct {
	Keys  int     `json:"keys"`
	Start float32 `json:"start"`
	End   float32 `json:"end"`
}

func newJsonTrack[T any](tr *keytrack.Track[T]) jsonTrack {
	return jsonTrack{Keys: tr.NumKeys(), Start: tr.StartTime(), End: tr.EndTime()}
}

type jsonJoint struct {
	Name     string        `json:"name"`
	Static   jsonTransform `json:"static"`
	Bind     jsonTransform `json:"bind"`
	Position jsonTrack     `json:"position"`
	Rotation jsonTrack     `json:"rotation"`
	Scale    *jsonTrack    `json:"scale,omitempty"`
}

type jsonScalar struct {
	Name        string    `json:"name"`
	StaticValue float32   `json:"static_value"`
	Track       jsonTrack `json:"track"`
}

type jsonMotion struct {
	Name         string       `json:"name"`
	SampleRate   float32      `json:"sample_rate"`
	Duration     float32      `json:"duration"`
	Additive     bool         `json:"additive"`
	ScaleEnabled bool         `json:"scale_enabled"`
	Keys         int          `json:"keys"`
	Joints       []jsonJoint  `json:"joints"`
	Morphs       []jsonScalar `json:"morphs"`
	Floats       []jsonScalar `json:"floats"`
	Issues       []string     `json:"issues,omitempty"`
}

func newJsonScalars(channels []*motion.ScalarChannel) []jsonScalar {
	result := make([]jsonScalar, len(channels))
	for i, sc := range channels {
		result[i] = jsonScalar{Name: sc.Name, StaticValue: sc.StaticValue, Track: newJsonTrack(&sc.Track)}
	}
	return result
}

func newJsonMotion(name string, m *motion.Motion) *jsonMotion {
	jm := &jsonMotion{
		Name:         name,
		SampleRate:   m.SampleRate,
		Duration:     m.Duration,
		Additive:     m.Additive,
		ScaleEnabled: m.ScaleEnabled,
		Keys:         m.NumKeys(),
		Joints:       make([]jsonJoint, len(m.Joints)),
		Morphs:       newJsonScalars(m.Morphs),
		Floats:       newJsonScalars(m.Floats),
	}
	for i, jc := range m.Joints {
		jm.Joints[i] = jsonJoint{
			Name:     jc.Name,
			Static:   newJsonTransform(jc.StaticTransform()),
			Bind:     newJsonTransform(jc.BindTransform()),
			Position: newJsonTrack(&jc.Position),
			Rotation: newJsonTrack(&jc.Rotation),
		}
		if m.ScaleEnabled {
			scale := newJsonTrack(&jc.Scale)
			jm.Joints[i].Scale = &scale
		}
	}

	var ie *motion.IntegrityError
	if err := m.Verify(); errors.As(err, &ie) {
		for _, issue := range ie.Issues {
			jm.Issues = append(jm.Issues, issue.String())
		}
	}
	return jm
}

func getMotion(w http.ResponseWriter, r *http.Request) (string, *motion.Motion, bool) {
	file := mux.Vars(r)["file"]
	m, err := ServerLibrary.Get(file)
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, err)
		return file, nil, false
	}
	return file, m, true
}

func HandlerAjaxMotions(w http.ResponseWriter, r *http.Request) {
	if files, err := ServerLibrary.List(); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, files)
	}
}

func HandlerAjaxMotion(w http.ResponseWriter, r *http.Request) {
	if file, m, ok := getMotion(w, r); ok {
		webutils.WriteJson(w, newJsonMotion(file, m))
	}
}

func HandlerAjaxMotionSample(w http.ResponseWriter, r *http.Request) {
	_, m, ok := getMotion(w, r)
	if !ok {
		return
	}

	t, err := strconv.ParseFloat(mux.Vars(r)["time"], 32)
	if err != nil {
		webutils.WriteBadRequest(w, errors.Wrapf(err, "Invalid time"))
		return
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		webutils.WriteBadRequest(w, errors.Errorf("Invalid time %v", t))
		return
	}
	opts, err := parsePlayOptions(r)
	if err != nil {
		webutils.WriteBadRequest(w, err)
		return
	}

	webutils.WriteJson(w, newPoseSampler(m, opts).sample(float32(t)))
}

func HandlerActionMotionOptimize(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	settings, err := motion.LoadOptimizeSettings(r.Body)
	if err != nil {
		webutils.WriteBadRequest(w, err)
		return
	}

	var report motion.OptimizeReport
	_l := utils.NewLogger(requestLogger(r))
	if _, err := ServerLibrary.Update(file, func(m *motion.Motion) error {
		report = m.Optimize(settings, _l)
		return nil
	}); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, report)
}

func HandlerActionMotionResample(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	rate, err := strconv.ParseFloat(mux.Vars(r)["rate"], 32)
	if err != nil || !(rate > 0 && rate <= maxSampleRate) {
		webutils.WriteBadRequest(w, errors.Errorf("Invalid sample rate %q", mux.Vars(r)["rate"]))
		return
	}

	m, err := ServerLibrary.Update(file, func(m *motion.Motion) error {
		*m = *m.Resample(float32(rate))
		return nil
	})
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, newJsonMotion(file, m))
}

func HandlerDumpMotion(w http.ResponseWriter, r *http.Request) {
	file, m, ok := getMotion(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := codec.Write(&buf, m, ServerLibrary.ByteOrder()); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, file+".motion")
}

func HandlerDumpMotionGlb(w http.ResponseWriter, r *http.Request) {
	file, m, ok := getMotion(w, r)
	if !ok {
		return
	}
	doc, err := gltfmotion.Export(m, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, doc); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to encode glb"))
		return
	}
	webutils.WriteFileHeaders(w, file+".glb", "model/gltf-binary")
	webutils.WriteResult(w, buf.Bytes())
}

func HandlerDumpMotionSpew(w http.ResponseWriter, r *http.Request) {
	if _, m, ok := getMotion(w, r); ok {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		webutils.WriteResult(w, []byte(utils.SDump(m)))
	}
}

// parseFlagList parses comma separated list of retarget, mirror, inplace
func parseFlagList(list string) (motion.SampleFlags, error) {
	var flags motion.SampleFlags
	for _, f := range strings.Split(list, ",") {
		switch strings.TrimSpace(f) {
		case "":
		case "retarget":
			flags |= motion.SampleRetarget
		case "mirror":
			flags |= motion.SampleMirror
		case "inplace":
			flags |= motion.SampleInPlace
		default:
			return 0, errors.Errorf("Unknown sample flag %q", f)
		}
	}
	return flags, nil
}
