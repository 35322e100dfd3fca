// Package codec reads and writes motions in versioned binary format.
// Format does not describe its byte order or version, both are agreed out of band.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/keymotion/config"
	"github.com/mogaika/keymotion/motion"
)

const CurrentVersion = 1

type UnsupportedVersionError struct {
	Version uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported motion format version %d", e.Version)
}

type header struct {
	numJoints, numMorphs, numFloats int
	sampleRate, duration             float32
	additive, scale                  bool
}

// versionCodec is layout of single format version
type versionCodec interface {
	readHeader(r *reader) header
	readJoint(r *reader, jc *motion.JointChannel, scale bool)
	readScalar(r *reader, sc *motion.ScalarChannel)

	writeHeader(w *writer, h header)
	writeJoint(w *writer, jc *motion.JointChannel, scale bool)
	writeScalar(w *writer, sc *motion.ScalarChannel)
}

var versions = map[uint32]versionCodec{
	1: v1{},
}

func codecForVersion(version uint32) (versionCodec, error) {
	if c, ok := versions[version]; ok {
		return c, nil
	}
	return nil, &UnsupportedVersionError{Version: version}
}

func Read(r io.Reader, order binary.ByteOrder, version uint32) (*motion.Motion, error) {
	m := motion.New()
	if err := ReadInto(r, m, order, version); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadInto replaces content of m with motion read from r.
// Stored scale channels are dropped when scale is disabled in config.
// On error m is partially filled and must not be used.
func ReadInto(r io.Reader, m *motion.Motion, order binary.ByteOrder, version uint32) error {
	c, err := codecForVersion(version)
	if err != nil {
		return err
	}

	rd := newReader(r, order)
	h := c.readHeader(rd)
	if rd.err != nil {
		return errors.Wrapf(rd.err, "Failed to read header")
	}

	m.SampleRate = h.sampleRate
	m.Duration = h.duration
	m.Additive = h.additive
	m.ScaleEnabled = h.scale && config.ScaleEnabled()
	m.Joints = make([]*motion.JointChannel, h.numJoints)
	m.Morphs = make([]*motion.ScalarChannel, h.numMorphs)
	m.Floats = make([]*motion.ScalarChannel, h.numFloats)

	for i := range m.Joints {
		m.Joints[i] = motion.NewJointChannel("")
		c.readJoint(rd, m.Joints[i], h.scale)
		if rd.err != nil {
			return errors.Wrapf(rd.err, "Failed to read joint %d", i)
		}
		if !m.ScaleEnabled {
			dropScale(m.Joints[i])
		}
	}
	for i := range m.Morphs {
		m.Morphs[i] = &motion.ScalarChannel{}
		c.readScalar(rd, m.Morphs[i])
		if rd.err != nil {
			return errors.Wrapf(rd.err, "Failed to read morph %d", i)
		}
	}
	for i := range m.Floats {
		m.Floats[i] = &motion.ScalarChannel{}
		c.readScalar(rd, m.Floats[i])
		if rd.err != nil {
			return errors.Wrapf(rd.err, "Failed to read float %d", i)
		}
	}
	return nil
}

func dropScale(jc *motion.JointChannel) {
	jc.Scale.Clear()
	jc.StaticScale = mgl32.Vec3{1, 1, 1}
	jc.BindScale = mgl32.Vec3{1, 1, 1}
}

func Write(w io.Writer, m *motion.Motion, order binary.ByteOrder) error {
	return WriteVersion(w, m, order, CurrentVersion)
}

func WriteVersion(w io.Writer, m *motion.Motion, order binary.ByteOrder, version uint32) error {
	c, err := codecForVersion(version)
	if err != nil {
		return err
	}

	wr := newWriter(w, order)
	c.writeHeader(wr, header{
		numJoints:  len(m.Joints),
		numMorphs:  len(m.Morphs),
		numFloats:  len(m.Floats),
		sampleRate: m.SampleRate,
		duration:   m.Duration,
		additive:   m.Additive,
		scale:      m.ScaleEnabled,
	})
	if wr.err != nil {
		return errors.Wrapf(wr.err, "Failed to write header")
	}

	for i, jc := range m.Joints {
		c.writeJoint(wr, jc, m.ScaleEnabled)
		if wr.err != nil {
			return errors.Wrapf(wr.err, "Failed to write joint %d %q", i, jc.Name)
		}
	}
	for i, sc := range m.Morphs {
		c.writeScalar(wr, sc)
		if wr.err != nil {
			return errors.Wrapf(wr.err, "Failed to write morph %d %q", i, sc.Name)
		}
	}
	for i, sc := range m.Floats {
		c.writeScalar(wr, sc)
		if wr.err != nil {
			return errors.Wrapf(wr.err, "Failed to write float %d %q", i, sc.Name)
		}
	}
	return nil
}
