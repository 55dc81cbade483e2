package extract

import (
	"net/url"
	"strings"
)

// IsAbsoluteURL reports whether raw carries an http or https scheme.
func IsAbsoluteURL(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ResolveAction turns a form action into the URL the form is posted to.
//
//   - an empty action posts back to pageURL
//   - an absolute action is used as-is
//   - with a base href, the action is path-joined onto it
//   - otherwise the action is resolved against pageURL
//
// The base href join is deliberately a plain string join rather than
// RFC 3986 resolution.
func ResolveAction(action, baseHref, pageURL string) string {
	action = strings.TrimSpace(action)
	if action == "" {
		return pageURL
	}
	if IsAbsoluteURL(action) {
		return action
	}

	if baseHref = strings.TrimSpace(baseHref); baseHref != "" {
		if !IsAbsoluteURL(baseHref) {
			baseHref = resolveReference(pageURL, baseHref)
		}
		return strings.TrimRight(baseHref, "/") + "/" + strings.TrimLeft(action, "/")
	}

	return resolveReference(pageURL, action)
}

// ResolveLocation resolves a Location header value against the URL of the
// request that produced it.
func ResolveLocation(location, requestURL string) string {
	if location == "" || IsAbsoluteURL(location) {
		return location
	}
	return resolveReference(requestURL, location)
}

// resolveReference resolves ref against base, returning ref unchanged when
// either side does not parse.
func resolveReference(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
