// Package codes implements parsing, normalization and hierarchy reconstruction
// for ATC and NDC drug codes. ATC codes are 1, 3, 4, 5 or 7 characters long,
// one length per hierarchy level. NDC codes are 10 or 11 digits once hyphens
// are removed, segmented as labeler-product-package in one of the 4-4-2,
// 5-3-2, 5-4-1 or 5-4-2 layouts.
//
// Known limitation: 10-digit NDC codes are always normalized by prefixing a
// single "0" to the labeler segment. This matches the dominant 5-4-2 derived
// layout but can misplace the padding for 4-4-2 and 5-4-1 codes. Downstream
// consumers depend on this fixed rule, so it is deliberately not layout-aware.
package codes

import "strings"

// NormalizeNDC strips hyphens and spaces and pads 10-digit codes to 11 digits
// with a leading zero. Purely syntactic: no checksum or registry validation.
func NormalizeNDC(ndc string) string {
	clean := strings.ReplaceAll(ndc, "-", "")
	clean = strings.ReplaceAll(clean, " ", "")

	if len(clean) == 10 {
		clean = "0" + clean
	}

	return clean
}

// NormalizeATC trims surrounding whitespace and uppercases the code. Length
// validation is left to downstream lookups.
func NormalizeATC(atc string) string {
	return strings.ToUpper(strings.TrimSpace(atc))
}

// FormatNDC renders an NDC code in the standard 5-4-2 display format.
// Codes that are not 10 or 11 digits after stripping hyphens are returned
// unchanged.
func FormatNDC(ndc string) string {
	clean := strings.ReplaceAll(ndc, "-", "")

	switch len(clean) {
	case 11:
		return clean[:5] + "-" + clean[5:9] + "-" + clean[9:]
	case 10:
		// Pad to 11 digits then format
		return "0" + clean[:4] + "-" + clean[4:8] + "-" + clean[8:]
	default:
		return ndc
	}
}
