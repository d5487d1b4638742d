package asset

import (
	"regexp"
	"strings"
)

// Iteratively edited assets come back from the inpainting provider with the
// instruction prefix prepended to the previous name, so after a few rounds a
// title reads "FLUX Inpaint: FLUX Inpaint: FLUX Inpaint: sunset". The
// normalizer collapses the repetition back to a single prefix.
const inpaintPrefix = "FLUX Inpaint: "

var repeatedInpaintPrefix = regexp.MustCompile(`^(FLUX Inpaint: )+`)

// NormalizeTitle collapses repeated inpaint-prefix accretion in a display
// name. Names without the repeated prefix pass through unchanged.
func NormalizeTitle(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return trimmed
	}
	loc := repeatedInpaintPrefix.FindString(trimmed)
	if loc == "" || loc == inpaintPrefix {
		return trimmed
	}
	return inpaintPrefix + strings.TrimPrefix(trimmed, loc)
}
