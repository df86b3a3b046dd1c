package dataprocessing

import "strings"

// BooleanNormalizer maps textual yes/no tokens to a strict boolean.
type BooleanNormalizer struct {
	truthy map[string]struct{}
	falsy  map[string]struct{}
}

// NewBooleanNormalizer builds a normalizer for the literal sets accepted in
// the closed column. Tokens are compared after trimming and lower-casing.
func NewBooleanNormalizer() *BooleanNormalizer {
	return &BooleanNormalizer{
		truthy: toSet("1", "true", "yes", "si", "sí"),
		falsy:  toSet("0", "false", "no"),
	}
}

// Normalize returns the boolean for raw. Anything outside both literal sets
// resolves to false with recognized set to false so callers can flag it.
func (b *BooleanNormalizer) Normalize(raw string) (value, recognized bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := b.truthy[token]; ok {
		return true, true
	}
	if _, ok := b.falsy[token]; ok {
		return false, true
	}
	return false, false
}

// Bool is Normalize without the recognition flag.
func (b *BooleanNormalizer) Bool(raw string) bool {
	v, _ := b.Normalize(raw)
	return v
}

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
