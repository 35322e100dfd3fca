package gltfmotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/keymotion/keytrack"
	"github.com/mogaika/keymotion/motion"
)

func readAccessor(doc *gltf.Document, index *uint32) (interface{}, error) {
	if index == nil || int(*index) >= len(doc.Accessors) {
		return nil, errors.Errorf("Invalid accessor index %v", index)
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[*index], nil)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read accessor %d", *index)
	}
	return data, nil
}

func normalizedI8(v int8) float32 {
	return mgl32.Clamp(float32(v)/127, -1, 1)
}

func toFloats(data interface{}) ([]float32, error) {
	switch v := data.(type) {
	case []float32:
		return v, nil
	case []uint8:
		result := make([]float32, len(v))
		for i, c := range v {
			result[i] = float32(c) / 255
		}
		return result, nil
	case []uint16:
		result := make([]float32, len(v))
		for i, c := range v {
			result[i] = float32(c) / 65535
		}
		return result, nil
	case []int8:
		result := make([]float32, len(v))
		for i, c := range v {
			result[i] = normalizedI8(c)
		}
		return result, nil
	case []int16:
		result := make([]float32, len(v))
		for i, c := range v {
			result[i] = mgl32.Clamp(float32(c)/32767, -1, 1)
		}
		return result, nil
	default:
		return nil, errors.Errorf("Unsupported scalar accessor data %T", data)
	}
}

func toVec3s(data interface{}) ([]mgl32.Vec3, error) {
	v, ok := data.([][3]float32)
	if !ok {
		return nil, errors.Errorf("Unsupported vec3 accessor data %T", data)
	}
	result := make([]mgl32.Vec3, len(v))
	for i := range v {
		result[i] = v[i]
	}
	return result, nil
}

func toRotations(data interface{}) ([]keytrack.CompressedQuat, error) {
	switch v := data.(type) {
	case [][4]float32:
		result := make([]keytrack.CompressedQuat, len(v))
		for i, c := range v {
			result[i] = keytrack.CompressQuat(arrayToQuat(c).Normalize())
		}
		return result, nil
	case [][4]int16:
		result := make([]keytrack.CompressedQuat, len(v))
		for i, c := range v {
			result[i] = keytrack.CompressedQuat(c)
		}
		return result, nil
	case [][4]int8:
		result := make([]keytrack.CompressedQuat, len(v))
		for i, c := range v {
			q := mgl32.Quat{
				V: mgl32.Vec3{normalizedI8(c[0]), normalizedI8(c[1]), normalizedI8(c[2])},
				W: normalizedI8(c[3]),
			}
			result[i] = keytrack.CompressQuat(q.Normalize())
		}
		return result, nil
	default:
		return nil, errors.Errorf("Unsupported rotation accessor data %T", data)
	}
}

// arrayToQuat converts gltf x, y, z, w order
func arrayToQuat(a [4]float32) mgl32.Quat {
	return mgl32.Quat{V: mgl32.Vec3{a[0], a[1], a[2]}, W: a[3]}
}

// nodeTransform returns local transform of node, matrix decomposed when set
func nodeTransform(n *gltf.Node) motion.Transform {
	t := motion.Transform{
		Position: n.Translation,
		Rotation: arrayToQuat(n.Rotation),
		Scale:    n.Scale,
	}

	if n.Matrix != [16]float32{} && mgl32.Mat4(n.Matrix) != mgl32.Ident4() {
		m := mgl32.Mat4(n.Matrix)
		t.Position = m.Col(3).Vec3()
		for i := 0; i < 3; i++ {
			t.Scale[i] = m.Col(i).Vec3().Len()
		}
		var rot mgl32.Mat3
		for i := 0; i < 3; i++ {
			col := m.Col(i).Vec3()
			if t.Scale[i] != 0 {
				col = col.Mul(1 / t.Scale[i])
			}
			rot.SetCol(i, col)
		}
		t.Rotation = mgl32.Mat4ToQuat(rot.Mat4())
	}

	// documents built in code leave defaults zeroed
	if t.Rotation.V == (mgl32.Vec3{}) && t.Rotation.W == 0 {
		t.Rotation = mgl32.QuatIdent()
	} else {
		t.Rotation = t.Rotation.Normalize()
	}
	if t.Scale == (mgl32.Vec3{}) {
		t.Scale = mgl32.Vec3{1, 1, 1}
	}
	return t
}
