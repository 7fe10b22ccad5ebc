package fixers

// Overlay returns a new map holding every entry of base with required laid on
// top: required keys win on conflict and unrelated base keys survive. Neither
// input is modified.
func Overlay[V any](base, required map[string]V) map[string]V {
	out := make(map[string]V, len(base)+len(required))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range required {
		out[k] = v
	}
	return out
}
