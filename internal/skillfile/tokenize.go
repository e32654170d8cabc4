package skillfile

import "strings"

// Tokens lowercases and splits the given texts on non-alphanumeric runs,
// returning the combined token set. Single-character fragments are dropped
// as noise.
func Tokens(texts ...string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, text := range texts {
		fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		})
		for _, f := range fields {
			if len(f) < 2 {
				continue
			}
			out[f] = struct{}{}
		}
	}
	return out
}
