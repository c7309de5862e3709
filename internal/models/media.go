package models

import "strings"

// MediaURL leaves absolute links alone and maps storage identifiers onto the
// media route.
func MediaURL(baseURL, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(baseURL, "/") + "/media/" + ref
}

// IsStoredMedia reports whether ref names an object in our own storage.
func IsStoredMedia(ref string) bool {
	return ref != "" && !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://")
}
