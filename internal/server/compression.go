// compression.go - gzip for text responses.
package server

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// compressionMiddleware gzips responses for clients that accept it. Small
// bodies, such as the "true" of a delete, are passed through uncompressed.
func compressionMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
