package http

import (
	"net/url"
	"strings"
)

// queryOr returns the trimmed query value for key, or fallback when it is
// absent or blank.
func queryOr(q url.Values, key, fallback string) string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return fallback
	}
	return v
}
