package library

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"time"

	"easel/internal/asset"
)

// demoAssets builds the placeholder assets seeded on first run so the
// application never starts empty. The images are generated procedurally and
// embedded as data URIs, so they survive offline and never expire.
func demoAssets(now time.Time) []*asset.Asset {
	return []*asset.Asset{
		{
			ID:          asset.NewID(),
			Type:        asset.TypeImage,
			Name:        "Welcome Gradient",
			Src:         gradientDataURI(256, 256, color.NRGBA{R: 255, G: 120, B: 60, A: 255}, color.NRGBA{R: 90, G: 40, B: 160, A: 255}),
			CreatedAt:   now,
			Category:    "generated",
			Subcategory: "AI Generated",
			Meta:        map[string]any{"demo": true, "width": 256, "height": 256},
		},
		{
			ID:          asset.NewID(),
			Type:        asset.TypeImage,
			Name:        "Ocean Fade",
			Src:         gradientDataURI(256, 256, color.NRGBA{R: 40, G: 160, B: 220, A: 255}, color.NRGBA{R: 10, G: 40, B: 90, A: 255}),
			CreatedAt:   now.Add(time.Millisecond),
			Category:    "generated",
			Subcategory: "AI Generated",
			Meta:        map[string]any{"demo": true, "width": 256, "height": 256},
		},
	}
}

func gradientDataURI(width, height int, top, bottom color.NRGBA) string {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height-1)
		row := color.NRGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 255,
		}
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, row)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "data:image/png;base64,"
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
