package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

const brotliMinLength = 1024

// incompressibleTypes are content type prefixes of formats that are already
// compressed. docx and xlsx are zip containers.
var incompressibleTypes = []string{
	"application/vnd.openxmlformats-officedocument.",
	"application/zip",
	"application/pdf",
	"image/",
}

// Brotli compresses responses for clients that accept br.
func Brotli() gin.HandlerFunc {
	return BrotliLevel(brotli.DefaultCompression, brotliMinLength)
}

// BrotliLevel is Brotli with an explicit quality (0-11) and the smallest
// body worth compressing.
func BrotliLevel(quality, minLength int) gin.HandlerFunc {
	if quality < brotli.BestSpeed || quality > brotli.BestCompression {
		quality = brotli.DefaultCompression
	}
	if minLength <= 0 {
		minLength = brotliMinLength
	}

	return func(c *gin.Context) {
		if isStream(c.Request) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")
		bw := &brotliWriter{ResponseWriter: c.Writer, quality: quality, minLength: minLength}
		c.Writer = bw
		defer func() {
			if err := bw.finish(); err != nil {
				_ = c.Error(err)
			}
		}()
		c.Next()
	}
}

// brotliWriter holds the body back until it is known to be large enough to
// compress. Once it either starts compressing or falls back to passthrough
// it stays in that mode for the rest of the response.
type brotliWriter struct {
	gin.ResponseWriter
	quality     int
	minLength   int
	buf         []byte
	enc         *brotli.Writer
	passthrough bool
}

func (w *brotliWriter) Write(p []byte) (int, error) {
	switch {
	case w.passthrough:
		return w.ResponseWriter.Write(p)
	case w.enc != nil:
		return w.enc.Write(p)
	case !compressible(w.Header().Get("Content-Type")):
		return len(p), w.plain(p)
	}

	w.buf = append(w.buf, p...)
	if len(w.buf) < w.minLength {
		return len(p), nil
	}

	w.Header().Set("Content-Encoding", "br")
	w.Header().Del("Content-Length")
	w.enc = brotli.NewWriterLevel(w.ResponseWriter, w.quality)
	_, err := w.enc.Write(w.buf)
	w.buf = nil
	return len(p), err
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush sends what is buffered. A response flushed before compression
// started is sent uncompressed from then on.
func (w *brotliWriter) Flush() {
	if w.enc != nil {
		_ = w.enc.Flush()
	} else {
		_ = w.plain(nil)
	}
	w.ResponseWriter.Flush()
}

// plain switches to passthrough, releasing the held back bytes first.
func (w *brotliWriter) plain(p []byte) error {
	w.passthrough = true
	held := append(w.buf, p...)
	w.buf = nil
	if len(held) == 0 {
		return nil
	}
	_, err := w.ResponseWriter.Write(held)
	return err
}

func (w *brotliWriter) finish() error {
	if w.enc != nil {
		return w.enc.Close()
	}
	return w.plain(nil)
}

// isStream matches requests whose responses must reach the client as they
// are written: SSE streams and WebSocket handshakes.
func isStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream") ||
		strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func compressible(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, prefix := range incompressibleTypes {
		if strings.HasPrefix(ct, prefix) {
			return false
		}
	}
	return true
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(enc, ";")
		if strings.EqualFold(strings.TrimSpace(name), "br") {
			return true
		}
	}
	return false
}
