package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Options are the generation parameters that, together with the prompt,
// determine a response (model, temperature, max tokens, aspect ratio ...).
type Options map[string]any

// Key derives the content-addressed cache key. json.Marshal sorts map keys,
// so the digest does not depend on map iteration order.
func Key(service, prompt string, opts Options) string {
	h := sha256.New()
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	if len(opts) > 0 {
		if b, err := json.Marshal(opts); err == nil {
			h.Write(b)
		} else {
			// NaN, Inf and other unmarshalable values; fmt also sorts map keys.
			h.Write([]byte{1})
			fmt.Fprintf(h, "%v", map[string]any(opts))
		}
	}
	return normalizeService(service) + ":" + hex.EncodeToString(h.Sum(nil))
}

func normalizeService(service string) string {
	s := strings.ToLower(strings.TrimSpace(service))
	if s == "" {
		return "default"
	}
	return s
}
