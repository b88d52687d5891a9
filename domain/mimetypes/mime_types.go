package mimetypes

import "mime"

type MIME string

const (
	Unknown     MIME = "unknown"
	TextPlain   MIME = "text/plain"
	OctetStream MIME = "application/octet-stream"

	ApplicationGzip MIME = "application/gzip"
	ApplicationTar  MIME = "application/x-tar"
	ApplicationJSON MIME = "application/json"
)

// Matches compares the media type of a detected content type, parameters ignored.
func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}
