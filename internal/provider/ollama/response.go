package ollama

import (
	"errors"
	"io"
	"net/http"
)

// hopHeaders are connection-scoped and never copied to the client.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// copyResponseHeaders copies upstream headers to dst. WWW-Authenticate is
// dropped so browsers never show a credential prompt, and proxy buffering is
// turned off for intermediaries such as nginx.
func copyResponseHeaders(dst, src http.Header) {
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
	dst.Del("Www-Authenticate")
	dst.Set("X-Accel-Buffering", "no")
}

// pump copies body to w, flushing after every read. It returns the number of
// bytes written and the first read or write error other than io.EOF.
func pump(w http.ResponseWriter, body io.Reader) (int64, error) {
	flusher, _ := w.(http.Flusher)

	// 32KB balances syscalls against latency
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, err := body.Read(buf)
		if n > 0 {
			written, wErr := w.Write(buf[:n])
			total += int64(written)
			if wErr != nil {
				return total, wErr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
