package server

import "net/http"

// responseWriter runs a hook right before the status line goes out and
// remembers the status for the access log.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	beforeWrite func(h http.Header, status int)
}

func newResponseWriter(w http.ResponseWriter, beforeWrite func(http.Header, int)) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
		beforeWrite:    beforeWrite,
	}
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = code
	if w.beforeWrite != nil {
		w.beforeWrite(w.Header(), code)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
