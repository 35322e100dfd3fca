package codec

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/utils"
)

const (
	maxNameLength = 0xffff
	maxKeys       = 1 << 24
	maxChannels   = 1 << 16
)

// reader is sequential stream reader with explicit byte order.
// First error is sticky, every following read returns zero value.
type reader struct {
	source io.Reader
	order  binary.ByteOrder
	offset int64
	err    error
	buf    [8]byte
}

func newReader(source io.Reader, order binary.ByteOrder) *reader {
	return &reader{source: source, order: order}
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) read(p []byte) bool {
	if r.err != nil {
		return false
	}
	n, err := io.ReadFull(r.source, p)
	r.offset += int64(n)
	if err != nil {
		r.fail(errors.Wrapf(err, "Short read of %d bytes at 0x%x", len(p), r.offset-int64(n)))
		return false
	}
	return true
}

func (r *reader) U32() uint32 {
	if !r.read(r.buf[:4]) {
		return 0
	}
	return r.order.Uint32(r.buf[:4])
}

func (r *reader) I16() int16 {
	if !r.read(r.buf[:2]) {
		return 0
	}
	return int16(r.order.Uint16(r.buf[:2]))
}

func (r *reader) F32() float32 { return math.Float32frombits(r.U32()) }

func (r *reader) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{r.F32(), r.F32(), r.F32()}
}

func (r *reader) Quat() keytrack.CompressedQuat {
	return keytrack.CompressedQuat{r.I16(), r.I16(), r.I16(), r.I16()}
}

// Count reads element count and checks it against limit
func (r *reader) Count(what string, limit int) int {
	at := r.offset
	n := r.U32()
	if n > uint32(limit) {
		r.fail(errors.Errorf("%s count %d at 0x%x exceeds limit %d", what, n, at, limit))
		return 0
	}
	return int(n)
}

func (r *reader) Name() string {
	length := r.Count("name length", maxNameLength)
	if length == 0 || r.err != nil {
		return ""
	}
	raw := make([]byte, length)
	if !r.read(raw) {
		return ""
	}
	name, err := utils.BytesToString(raw)
	if err != nil {
		r.fail(err)
	}
	return name
}

// writer mirrors reader, first error is sticky
type writer struct {
	target io.Writer
	order  binary.ByteOrder
	offset int64
	err    error
	buf    [8]byte
}

func newWriter(target io.Writer, order binary.ByteOrder) *writer {
	return &writer{target: target, order: order}
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *writer) write(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.target.Write(p)
	w.offset += int64(n)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.fail(errors.Wrapf(err, "Failed to write %d bytes at 0x%x", len(p), w.offset-int64(n)))
	}
}

func (w *writer) U32(v uint32) {
	w.order.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

func (w *writer) I16(v int16) {
	w.order.PutUint16(w.buf[:2], uint16(v))
	w.write(w.buf[:2])
}

func (w *writer) F32(v float32) { w.U32(math.Float32bits(v)) }

func (w *writer) Vec3(v mgl32.Vec3) {
	for _, c := range v {
		w.F32(c)
	}
}

func (w *writer) Quat(q keytrack.CompressedQuat) {
	for _, c := range q {
		w.I16(c)
	}
}

func (w *writer) Count(what string, n int, limit int) {
	if n > limit {
		w.fail(errors.Errorf("%s count %d exceeds limit %d", what, n, limit))
		return
	}
	w.U32(uint32(n))
}

func (w *writer) Name(name string) {
	raw, err := utils.StringToBytes(name)
	if err != nil {
		w.fail(err)
		return
	}
	w.Count("name length", len(raw), maxNameLength)
	w.write(raw)
}

// TrackLength fails write of track with inconsistent key arrays
func (w *writer) TrackLength(track string, numTimes, numValues int) {
	if numTimes != numValues {
		w.fail(errors.Errorf("%s track has %d times and %d values", track, numTimes, numValues))
	}
}
