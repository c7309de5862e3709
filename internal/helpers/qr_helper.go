package helpers

import (
	"strings"

	"github.com/skip2/go-qrcode"
)

// EventShareURL is the public page of an event on the site.
func EventShareURL(siteURL, slug string) string {
	return strings.TrimRight(siteURL, "/") + "/events/" + slug
}

func QRCodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
