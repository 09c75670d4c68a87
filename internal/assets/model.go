package assets

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoPositions is returned for a model without bounded POSITION data.
var ErrNoPositions = errors.New("model has no position bounds")

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
)

// gltfDoc is the part of a glTF document bounds are read from.
type gltfDoc struct {
	Accessors []struct {
		Min []float32 `json:"min"`
		Max []float32 `json:"max"`
	} `json:"accessors"`
	Meshes []struct {
		Primitives []struct {
			Attributes map[string]int `json:"attributes"`
		} `json:"primitives"`
	} `json:"meshes"`
}

// ModelBounds returns the mesh-space extent of a glTF or GLB model: the
// union of the min/max of every POSITION accessor. Node transforms inside
// the file are not applied.
func (h *Handle) ModelBounds() (lo, hi mgl32.Vec3, err error) {
	if !h.Ready() {
		return lo, hi, ErrNotReady
	}
	if h.err != nil {
		return lo, hi, h.err
	}
	doc, err := gltfJSON(h.data)
	if err != nil {
		return lo, hi, fmt.Errorf("model %s: %w", h.path, err)
	}

	var g gltfDoc
	if err := json.Unmarshal(doc, &g); err != nil {
		return lo, hi, fmt.Errorf("model %s: %w", h.path, err)
	}
	found := false
	for _, mesh := range g.Meshes {
		for _, p := range mesh.Primitives {
			i, ok := p.Attributes["POSITION"]
			if !ok || i < 0 || i >= len(g.Accessors) {
				continue
			}
			a := g.Accessors[i]
			if len(a.Min) != 3 || len(a.Max) != 3 {
				continue
			}
			mn := mgl32.Vec3{a.Min[0], a.Min[1], a.Min[2]}
			mx := mgl32.Vec3{a.Max[0], a.Max[1], a.Max[2]}
			if !found {
				lo, hi, found = mn, mx, true
				continue
			}
			for k := range 3 {
				lo[k] = min(lo[k], mn[k])
				hi[k] = max(hi[k], mx[k])
			}
		}
	}
	if !found {
		return lo, hi, fmt.Errorf("model %s: %w", h.path, ErrNoPositions)
	}
	return lo, hi, nil
}

// gltfJSON returns the JSON document of a .gltf file or the JSON chunk of
// a binary .glb container.
func gltfJSON(data []byte) ([]byte, error) {
	if len(data) < 4 || binary.LittleEndian.Uint32(data) != glbMagic {
		return bytes.TrimSpace(data), nil
	}
	// 12-byte header, then chunk length and type.
	if len(data) < 20 {
		return nil, errors.New("truncated GLB header")
	}
	n := binary.LittleEndian.Uint32(data[12:])
	if binary.LittleEndian.Uint32(data[16:]) != glbChunkJSON {
		return nil, errors.New("GLB does not start with a JSON chunk")
	}
	if uint64(20)+uint64(n) > uint64(len(data)) {
		return nil, errors.New("truncated GLB JSON chunk")
	}
	return data[20 : 20+n], nil
}
