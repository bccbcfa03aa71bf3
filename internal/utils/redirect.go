package utils

import (
	"net/url"
	"strings"
)

// LocalRedirect returns target when it is a path on this site, else fallback.
// It keeps a "next" query parameter from sending users off-site.
func LocalRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}
