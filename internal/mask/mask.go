package mask

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

const whiteThreshold = 128

// Options controls normalization.
type Options struct {
	// Padding dilates the edit region by this many pixels in every
	// direction before feathering.
	Padding int
	// FeatherRadius blurs the mask edge with a box filter of this radius.
	FeatherRadius int
	// Invert flips white/black semantics for troubleshooting provider
	// mismatches. Honored only when Development is set; production builds
	// always receive the canonical orientation.
	Invert bool
	// Development enables debug-only behavior.
	Development bool
	// MinCoverage and MaxCoverage bound the acceptable edit fraction.
	// Zero values fall back to the package defaults.
	MinCoverage float64
	MaxCoverage float64
}

const (
	defaultMinCoverage = 0.005
	defaultMaxCoverage = 0.9
)

// Report describes the quality of a normalized mask.
type Report struct {
	// Coverage is the fraction of the canvas marked for edit.
	Coverage float64 `json:"coverage"`
	// Area is the number of edit pixels.
	Area int `json:"area"`
	// IsValid is an advisory gate; callers choose whether to enforce it.
	IsValid     bool     `json:"is_valid"`
	Warnings    []string `json:"warnings,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Normalize produces a canonical white=edit mask from a raw painted raster
// and reports on its quality. The input image is not modified.
func Normalize(src image.Image, opts Options) (*image.Gray, Report) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	binary := image.NewGray(image.Rect(0, 0, width, height))
	invert := opts.Invert && opts.Development
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := color.GrayModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			white := g.Y >= whiteThreshold
			if invert {
				white = !white
			}
			if white {
				binary.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	if opts.Padding > 0 {
		binary = dilate(binary, opts.Padding)
	}

	out := binary
	if opts.FeatherRadius > 0 {
		out = boxBlur(binary, opts.FeatherRadius)
	}

	report := score(binary, opts)
	return out, report
}

// DecodePNG reads a PNG into a grayscale raster suitable for Normalize.
func DecodePNG(r io.Reader) (*image.Gray, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode mask png: %w", err)
	}
	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	return gray, nil
}

// EncodePNG writes a normalized mask as PNG.
func EncodePNG(w io.Writer, m *image.Gray) error {
	if err := png.Encode(w, m); err != nil {
		return fmt.Errorf("encode mask png: %w", err)
	}
	return nil
}

// dilate grows the white region by radius pixels under the Chebyshev
// metric. The square structuring element is separable, so it runs as a
// horizontal max pass followed by a vertical one.
func dilate(src *image.Gray, radius int) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()

	horizontal := image.NewGray(src.Rect)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if src.GrayAt(x, y).Y < whiteThreshold {
				continue
			}
			lo, hi := max(0, x-radius), min(width-1, x+radius)
			for nx := lo; nx <= hi; nx++ {
				horizontal.SetGray(nx, y, color.Gray{Y: 255})
			}
		}
	}

	out := image.NewGray(src.Rect)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			if horizontal.GrayAt(x, y).Y < whiteThreshold {
				continue
			}
			lo, hi := max(0, y-radius), min(height-1, y+radius)
			for ny := lo; ny <= hi; ny++ {
				out.SetGray(x, ny, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// boxBlur applies a separable box filter of the given radius with running
// sums, clamping at the borders.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	window := 2*radius + 1

	horizontal := make([]float64, width*height)
	for y := 0; y < height; y++ {
		var sum int
		for x := -radius; x <= radius; x++ {
			sum += int(src.GrayAt(clamp(x, width-1), y).Y)
		}
		for x := 0; x < width; x++ {
			horizontal[y*width+x] = float64(sum) / float64(window)
			leaving := clamp(x-radius, width-1)
			entering := clamp(x+radius+1, width-1)
			sum += int(src.GrayAt(entering, y).Y) - int(src.GrayAt(leaving, y).Y)
		}
	}

	out := image.NewGray(src.Rect)
	for x := 0; x < width; x++ {
		var sum float64
		for y := -radius; y <= radius; y++ {
			sum += horizontal[clamp(y, height-1)*width+x]
		}
		for y := 0; y < height; y++ {
			out.SetGray(x, y, color.Gray{Y: uint8(sum/float64(window) + 0.5)})
			leaving := clamp(y-radius, height-1)
			entering := clamp(y+radius+1, height-1)
			sum += horizontal[entering*width+x] - horizontal[leaving*width+x]
		}
	}
	return out
}

func score(binary *image.Gray, opts Options) Report {
	width, height := binary.Rect.Dx(), binary.Rect.Dy()
	total := width * height

	minCoverage := opts.MinCoverage
	if minCoverage <= 0 {
		minCoverage = defaultMinCoverage
	}
	maxCoverage := opts.MaxCoverage
	if maxCoverage <= 0 || maxCoverage > 1 {
		maxCoverage = defaultMaxCoverage
	}

	var area int
	borderTouch := false
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if binary.GrayAt(x, y).Y < whiteThreshold {
				continue
			}
			area++
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				borderTouch = true
			}
		}
	}

	report := Report{Area: area, IsValid: true}
	if total > 0 {
		report.Coverage = float64(area) / float64(total)
	}

	switch {
	case area == 0:
		report.IsValid = false
		report.Warnings = append(report.Warnings, "mask is empty")
		report.Suggestions = append(report.Suggestions, "paint the region you want to edit in white")
	case report.Coverage < minCoverage:
		report.IsValid = false
		report.Warnings = append(report.Warnings, fmt.Sprintf("mask too small (%.2f%% of canvas)", report.Coverage*100))
		report.Suggestions = append(report.Suggestions, "enlarge the painted region or add padding")
	case report.Coverage > maxCoverage:
		report.IsValid = false
		report.Warnings = append(report.Warnings, fmt.Sprintf("mask covers most of the canvas (%.2f%%)", report.Coverage*100))
		report.Suggestions = append(report.Suggestions, "a full-canvas edit may work better as a fresh generation")
	}
	if borderTouch && area > 0 {
		report.Warnings = append(report.Warnings, "mask touches the image border")
		report.Suggestions = append(report.Suggestions, "leave a margin so the edit blends with its surroundings")
	}

	return report
}

func clamp(v, maximum int) int {
	if v < 0 {
		return 0
	}
	if v > maximum {
		return maximum
	}
	return v
}
