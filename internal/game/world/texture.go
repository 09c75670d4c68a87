package world

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/logger"
)

// tintSamples bounds the pixels read per axis when averaging a texture.
const tintSamples = 16

// tint is the decoded summary of one texture. ok is false for textures
// that failed to load or decode.
type tint struct {
	color mgl32.Vec4
	ok    bool
}

// pollTextures decodes the textures whose loads finished since the last
// tick. Each texture is decoded once.
func (w *World) pollTextures() {
	for id, h := range w.Registry.Textures() {
		if _, seen := w.tints[id]; seen || !h.Ready() {
			continue
		}
		img, format, err := h.Image()
		if err != nil {
			logger.Warn("texture unavailable", zap.String("texture", id), zap.Error(err))
			w.tints[id] = tint{}
			continue
		}
		logger.Debug("texture decoded",
			zap.String("texture", id),
			zap.String("format", format),
			zap.Int("width", img.Bounds().Dx()),
			zap.Int("height", img.Bounds().Dy()))
		w.tints[id] = tint{color: averageColor(img), ok: true}
	}
}

// TextureTint returns the average color of a decoded texture. It reports
// false while the texture is loading or when it could not be decoded.
func (w *World) TextureTint(id string) (mgl32.Vec4, bool) {
	t := w.tints[id]
	return t.color, t.ok
}

func averageColor(img image.Image) mgl32.Vec4 {
	b := img.Bounds()
	stepX := max(b.Dx()/tintSamples, 1)
	stepY := max(b.Dy()/tintSamples, 1)
	var sum [4]float64
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			r, g, bl, a := img.At(x, y).RGBA()
			sum[0] += float64(r)
			sum[1] += float64(g)
			sum[2] += float64(bl)
			sum[3] += float64(a)
			n++
		}
	}
	if n == 0 {
		return mgl32.Vec4{1, 1, 1, 1}
	}
	var out mgl32.Vec4
	for i := range sum {
		out[i] = float32(sum[i] / float64(n) / 0xffff)
	}
	return out
}
