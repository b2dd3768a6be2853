package server

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

const (
	htmlUTF8 = "text/html; charset=utf-8"
	cssUTF8  = "text/css; charset=utf-8"
	jsUTF8   = "application/javascript; charset=utf-8"
)

// textContentType returns the forced UTF-8 type for HTML, CSS and JS
// requests. The match is on the request path, so "/" counts as HTML.
func textContentType(p string) (string, bool) {
	switch {
	case p == "/" || strings.HasSuffix(p, ".html"):
		return htmlUTF8, true
	case strings.HasSuffix(p, ".css"):
		return cssUTF8, true
	case strings.HasSuffix(p, ".js"):
		return jsUTF8, true
	}
	return "", false
}

// ContentType returns the Content-Type for a response to request path p,
// or "" when nothing can be determined from the extension.
func ContentType(p string) string {
	if ct, ok := textContentType(p); ok {
		return ct
	}
	return mime.TypeByExtension(path.Ext(p))
}

// setContentType applies the content-type decision to a response that is
// about to be written. Text assets always win; other types only fill in a
// header the file handler left empty.
func setContentType(h http.Header, p string) {
	if ct, ok := textContentType(p); ok {
		h.Set("Content-Type", ct)
		return
	}
	if h.Get("Content-Type") != "" {
		return
	}
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		h.Set("Content-Type", ct)
	}
}

// setCORS opens every response to any origin. Local development only.
func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}
