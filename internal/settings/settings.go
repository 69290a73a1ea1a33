// Package settings applies "key=value" overrides, such as repeated --set
// flags, to typed configuration through matcher based handlers.
package settings

import (
	"sort"
	"strings"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

type Matcher func(string) bool
type ApplyFunc func(key, val string) error

type Handler struct {
	Match Matcher
	Apply ApplyFunc
}

type Applier struct {
	handlers []Handler
}

func New(handlers ...Handler) Applier {
	return Applier{handlers: handlers}
}

// ApplyAll hands each setting to the first matching handler and returns the
// settings nobody claimed, keyed in lower case.
func (a Applier) ApplyAll(settings map[string]string) (map[string]string, error) {
	if len(settings) == 0 || len(a.handlers) == 0 {
		return settings, nil
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	left := make(map[string]string)
	for _, k := range keys {
		v := settings[k]
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		applied := false
		for _, h := range a.handlers {
			if h.Match != nil && h.Match(key) {
				if h.Apply != nil {
					if err := h.Apply(key, v); err != nil {
						return nil, errdef.Wrap(errdef.CodeConfig, err, "setting %s", key)
					}
				}
				applied = true
				break
			}
		}
		if !applied {
			left[key] = v
		}
	}
	return left, nil
}

func PrefixMatcher(prefixes ...string) Matcher {
	return func(key string) bool {
		lower := strings.ToLower(strings.TrimSpace(key))
		for _, p := range prefixes {
			if strings.HasPrefix(lower, strings.ToLower(strings.TrimSpace(p))) {
				return true
			}
		}
		return false
	}
}

func ExactMatcher(keys ...string) Matcher {
	return func(key string) bool {
		lower := strings.ToLower(strings.TrimSpace(key))
		for _, k := range keys {
			if lower == strings.ToLower(strings.TrimSpace(k)) {
				return true
			}
		}
		return false
	}
}
