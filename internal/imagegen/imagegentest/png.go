// Package imagegentest provides image fixtures for tests.
package imagegentest

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
)

// PNG encodes a solid w×h image.
func PNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNGBase64 is PNG encoded the way generation APIs return artifacts.
func PNGBase64(w, h int) string {
	return base64.StdEncoding.EncodeToString(PNG(w, h))
}
