package web

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/keymotion/codec"
	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/library"
	"github.com/mogaika/keymotion/motion"
)

func walkMotion() *motion.Motion {
	m := motion.New()
	m.Duration = 0.1
	hip := m.AddJoint("Hip")
	for i := 0; i <= 10; i++ {
		t := float32(i) / 100
		hip.Position.AddKey(t, mgl32.Vec3{t, 0, 1})
	}
	hip.Rotation.AddKey(0, keytrack.CompressQuat(mgl32.QuatIdent()))
	hip.Rotation.AddKey(0.1, keytrack.CompressQuat(mgl32.QuatRotate(0.5, mgl32.Vec3{0, 0, 1})))
	m.AddJoint("LeftFoot").StaticPosition = mgl32.Vec3{0.2, 0.1, 0}
	m.AddJoint("RightFoot").StaticPosition = mgl32.Vec3{-0.2, 0, 0}
	m.AddMorph("Blink", 0.5)
	m.AddFloat("Step", 1)
	return m
}

func newTestServer(t *testing.T) *httptest.Server {
	lib, err := library.Open(t.TempDir(), binary.LittleEndian)
	require.NoError(t, err)
	require.NoError(t, lib.Put("walk", walkMotion()))
	ServerLibrary = lib

	s := httptest.NewServer(NewRouter(""))
	t.Cleanup(s.Close)
	return s
}

func getJson(t *testing.T, url string, v interface{}) int {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestMotionInfo(t *testing.T) {
	s := newTestServer(t)

	var names []string
	assert.Equal(t, http.StatusOK, getJson(t, s.URL+"/json/motions", &names))
	assert.Equal(t, []string{"walk"}, names)

	var jm jsonMotion
	assert.Equal(t, http.StatusOK, getJson(t, s.URL+"/json/motion/walk", &jm))
	assert.Equal(t, "walk", jm.Name)
	assert.Len(t, jm.Joints, 3)
	assert.Equal(t, 11, jm.Joints[0].Position.Keys)
	assert.Equal(t, float32(0.1), jm.Joints[0].Position.End)
	assert.Equal(t, 13, jm.Keys)
	assert.Empty(t, jm.Issues)

	var jerr struct {
		Error string `json:"error"`
	}
	assert.Equal(t, http.StatusNotFound, getJson(t, s.URL+"/json/motion/run", &jerr))
	assert.NotEmpty(t, jerr.Error)
}

func TestMotionSample(t *testing.T) {
	s := newTestServer(t)

	var pose jsonPose
	assert.Equal(t, http.StatusOK, getJson(t, s.URL+"/json/motion/walk/sample/0.05", &pose))
	require.Len(t, pose.Joints, 3)
	assert.InDelta(t, 0.05, pose.Joints[0].Local.Position[0], 1e-6)
	assert.InDelta(t, 0.05, pose.Joints[0].Model[0], 1e-6)
	assert.Equal(t, float32(0.5), pose.Morphs["Blink"])
	assert.Equal(t, float32(1), pose.Floats["Step"])

	assert.Equal(t, http.StatusOK, getJson(t, s.URL+"/json/motion/walk/sample/0.05?flags=inplace,mirror", &pose))
	assert.InDelta(t, 0, pose.Joints[0].Local.Position[0], 1e-6)
	assert.InDelta(t, -0.2, pose.Joints[2].Local.Position[0], 1e-6)
	assert.InDelta(t, 0.1, pose.Joints[2].Local.Position[1], 1e-6, "right foot takes mirrored left foot")

	var jerr map[string]string
	assert.Equal(t, http.StatusBadRequest, getJson(t, s.URL+"/json/motion/walk/sample/0.05?flags=fly", &jerr))
	assert.Equal(t, http.StatusBadRequest, getJson(t, s.URL+"/json/motion/walk/sample/soon", &jerr))
	assert.Equal(t, http.StatusBadRequest, getJson(t, s.URL+"/json/motion/walk/sample/NaN", &jerr))
	assert.Equal(t, http.StatusBadRequest, getJson(t, s.URL+"/json/motion/walk/sample/Inf", &jerr))
}

func TestMotionOptimizeAndResample(t *testing.T) {
	s := newTestServer(t)

	resp, err := http.Post(s.URL+"/action/motion/walk/optimize", "application/yaml",
		strings.NewReader("max_position_error: 0.001\n"))
	require.NoError(t, err)
	var report motion.OptimizeReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	resp.Body.Close()
	assert.Equal(t, 9, report.RemovedPosition)

	m, err := ServerLibrary.Get("walk")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Joints[0].Position.NumKeys())

	resp, err = http.Post(s.URL+"/action/motion/walk/optimize", "application/yaml",
		strings.NewReader("max_position_error: -1\n"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(s.URL+"/action/motion/walk/resample/60", "", nil)
	require.NoError(t, err)
	var jm jsonMotion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&jm))
	resp.Body.Close()
	assert.Equal(t, float32(60), jm.SampleRate)
	assert.Empty(t, jm.Issues)

	for _, rate := range []string{"1e8", "0", "NaN"} {
		resp, err = http.Post(s.URL+"/action/motion/walk/resample/"+rate, "", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "rate %s", rate)
	}
}

func TestMotionDumps(t *testing.T) {
	s := newTestServer(t)

	resp, err := http.Get(s.URL + "/dump/motion/walk")
	require.NoError(t, err)
	m, err := codec.Read(resp.Body, binary.LittleEndian, codec.CurrentVersion)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, walkMotion(), m)

	resp, err = http.Get(s.URL + "/dump/motion/walk/glb")
	require.NoError(t, err)
	assert.Equal(t, "model/gltf-binary", resp.Header.Get("Content-Type"))
	var doc gltf.Document
	require.NoError(t, gltf.NewDecoder(resp.Body).Decode(&doc))
	resp.Body.Close()
	assert.Len(t, doc.Nodes, 3)
	assert.Len(t, doc.Animations, 1)

	resp, err = http.Get(s.URL + "/dump/motion/walk/spew")
	require.NoError(t, err)
	text, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.Contains(text, []byte("LeftFoot")))
}

func TestMotionPlay(t *testing.T) {
	s := newTestServer(t)

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws/motion/walk/play?rate=100"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var times []float32
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "%v", err)
			break
		}
		var pose jsonPose
		require.NoError(t, json.Unmarshal(data, &pose))
		times = append(times, pose.Time)
	}

	require.NotEmpty(t, times)
	assert.Equal(t, float32(0), times[0])
	assert.Equal(t, float32(0.1), times[len(times)-1])
	assert.InDelta(t, 11, len(times), 1)
}
