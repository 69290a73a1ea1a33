package settings

import (
	"strings"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

// ParsePairs turns "key=value" strings into a map. Later keys win.
func ParsePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errdef.New(errdef.CodeConfig, "setting %q is not key=value", pair)
		}
		out[key] = strings.TrimSpace(val)
	}
	return out, nil
}

func Merge(scopes ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, scope := range scopes {
		for k, v := range scope {
			out[k] = v
		}
	}
	return out
}
