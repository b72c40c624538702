package utils

// TruncateRunes caps a string at max runes. Rune-based slicing keeps
// multi-byte text intact at the cut point.
func TruncateRunes(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
