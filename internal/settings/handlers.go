package settings

import (
	"strconv"
	"strings"
	"time"
)

func StringHandler(key string, dst *string) Handler {
	return Handler{
		Match: ExactMatcher(key),
		Apply: func(_, val string) error {
			*dst = val
			return nil
		},
	}
}

func BoolHandler(key string, dst *bool) Handler {
	return Handler{
		Match: ExactMatcher(key),
		Apply: func(_, val string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(val))
			if err != nil {
				return err
			}
			*dst = b
			return nil
		},
	}
}

func DurationHandler(key string, dst *time.Duration) Handler {
	return Handler{
		Match: ExactMatcher(key),
		Apply: func(_, val string) error {
			d, err := time.ParseDuration(strings.TrimSpace(val))
			if err != nil {
				return err
			}
			*dst = d
			return nil
		},
	}
}

// ListHandler stores comma separated values under the part of the key that
// follows prefix, e.g. "bindings.save=ctrl+s,g s".
func ListHandler(prefix string, dst map[string][]string) Handler {
	return Handler{
		Match: PrefixMatcher(prefix),
		Apply: func(key, val string) error {
			name := strings.TrimPrefix(key, strings.ToLower(prefix))
			var items []string
			for _, item := range strings.Split(val, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			dst[name] = items
			return nil
		},
	}
}
