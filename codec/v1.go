package codec

import (
	"github.com/pkg/errors"

	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/motion"
)

const (
	v1FlagAdditive = 1 << iota
	v1FlagScale
)

// keys beyond this grow track while being read
const keysPrealloc = 4096

// readTrack reads n keys of time and value, track stays nil when n is zero
func readTrack[T any](r *reader, tr *keytrack.Track[T], n int, value func() T) {
	if n == 0 || r.err != nil {
		return
	}
	size := n
	if size > keysPrealloc {
		size = keysPrealloc
	}
	tr.Times = make([]float32, 0, size)
	tr.Values = make([]T, 0, size)
	for i := 0; i < n; i++ {
		t := r.F32()
		v := value()
		if r.err != nil {
			return
		}
		tr.AddKey(t, v)
	}
}

type v1 struct{}

func (v1) readHeader(r *reader) header {
	var h header
	h.numJoints = r.Count("joints", maxChannels)
	h.numMorphs = r.Count("morphs", maxChannels)
	h.numFloats = r.Count("floats", maxChannels)
	h.sampleRate = r.F32()
	h.duration = r.F32()
	flags := r.U32()
	h.additive = flags&v1FlagAdditive != 0
	h.scale = flags&v1FlagScale != 0
	if flags&^(v1FlagAdditive|v1FlagScale) != 0 {
		r.fail(errors.Errorf("Unknown header flags 0x%x", flags))
	}
	return h
}

func (v1) writeHeader(w *writer, h header) {
	w.Count("joints", h.numJoints, maxChannels)
	w.Count("morphs", h.numMorphs, maxChannels)
	w.Count("floats", h.numFloats, maxChannels)
	w.F32(h.sampleRate)
	w.F32(h.duration)
	var flags uint32
	if h.additive {
		flags |= v1FlagAdditive
	}
	if h.scale {
		flags |= v1FlagScale
	}
	w.U32(flags)
}

func (v1) readJoint(r *reader, jc *motion.JointChannel, scale bool) {
	jc.StaticRotation = r.Quat()
	jc.BindRotation = r.Quat()
	jc.StaticPosition = r.Vec3()
	if scale {
		jc.StaticScale = r.Vec3()
	}
	jc.BindPosition = r.Vec3()
	if scale {
		jc.BindScale = r.Vec3()
	}

	numPosition := r.Count("position keys", maxKeys)
	numRotation := r.Count("rotation keys", maxKeys)
	numScale := 0
	if scale {
		numScale = r.Count("scale keys", maxKeys)
	}
	jc.Name = r.Name()
	if r.err != nil {
		return
	}

	// static only tracks stay without storage
	readTrack(r, &jc.Position, numPosition, r.Vec3)
	readTrack(r, &jc.Rotation, numRotation, r.Quat)
	readTrack(r, &jc.Scale, numScale, r.Vec3)
}

func (v1) writeJoint(w *writer, jc *motion.JointChannel, scale bool) {
	w.TrackLength("position", len(jc.Position.Times), len(jc.Position.Values))
	w.TrackLength("rotation", len(jc.Rotation.Times), len(jc.Rotation.Values))
	if scale {
		w.TrackLength("scale", len(jc.Scale.Times), len(jc.Scale.Values))
	}
	if w.err != nil {
		return
	}

	w.Quat(jc.StaticRotation)
	w.Quat(jc.BindRotation)
	w.Vec3(jc.StaticPosition)
	if scale {
		w.Vec3(jc.StaticScale)
	}
	w.Vec3(jc.BindPosition)
	if scale {
		w.Vec3(jc.BindScale)
	}

	w.Count("position keys", jc.Position.NumKeys(), maxKeys)
	w.Count("rotation keys", jc.Rotation.NumKeys(), maxKeys)
	if scale {
		w.Count("scale keys", jc.Scale.NumKeys(), maxKeys)
	}
	w.Name(jc.Name)

	for i, t := range jc.Position.Times {
		w.F32(t)
		w.Vec3(jc.Position.Values[i])
	}
	for i, t := range jc.Rotation.Times {
		w.F32(t)
		w.Quat(jc.Rotation.Values[i])
	}
	if scale {
		for i, t := range jc.Scale.Times {
			w.F32(t)
			w.Vec3(jc.Scale.Values[i])
		}
	}
}

func (v1) readScalar(r *reader, sc *motion.ScalarChannel) {
	sc.StaticValue = r.F32()
	numKeys := r.Count("keys", maxKeys)
	sc.Name = r.Name()
	if r.err != nil {
		return
	}
	readTrack(r, &sc.Track, numKeys, r.F32)
}

func (v1) writeScalar(w *writer, sc *motion.ScalarChannel) {
	w.TrackLength("value", len(sc.Track.Times), len(sc.Track.Values))
	if w.err != nil {
		return
	}
	w.F32(sc.StaticValue)
	w.Count("keys", sc.Track.NumKeys(), maxKeys)
	w.Name(sc.Name)
	for i, t := range sc.Track.Times {
		w.F32(t)
		w.F32(sc.Track.Values[i])
	}
}
