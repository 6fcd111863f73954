package helpers

import (
	"encoding/base64"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DataURI encodes content as a base64 data URI. The MIME type is sniffed from
// the bytes and falls back to the file extension.
func DataURI(filename string, content []byte) string {
	mt := mimetype.Detect(content).String()
	if mt == "" || mt == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
			mt = byExt
		} else {
			mt = "application/octet-stream"
		}
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// IsImage reports whether content sniffs as an image.
func IsImage(content []byte) bool {
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
