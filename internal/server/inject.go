package server

import (
	"net/http"
	"strings"
)

// injectMaxBuffer bounds how much of a response the injector will hold in
// memory. Pages larger than this are streamed through unmodified.
const injectMaxBuffer = 512 * 1024

// withLiveReloadScript injects the livereload client script into HTML
// responses before the closing </body> tag.
func withLiveReloadScript(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		isHTMLPage := path == "/" || path == "" || strings.HasSuffix(path, "/") || strings.HasSuffix(path, ".html")
		if !isHTMLPage {
			next.ServeHTTP(w, r)
			return
		}

		inj := &scriptInjector{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(inj, r)
		inj.finalize()
	})
}

// scriptInjector buffers an HTML response so the script can be spliced in
// before </body>. Non-HTML or oversized responses switch to passthrough.
type scriptInjector struct {
	http.ResponseWriter
	statusCode    int
	buffer        []byte
	headerWritten bool
	passthrough   bool
}

func (l *scriptInjector) WriteHeader(code int) {
	l.statusCode = code
	if l.passthrough {
		l.ResponseWriter.WriteHeader(code)
		l.headerWritten = true
	}
}

func (l *scriptInjector) Write(data []byte) (int, error) {
	if !l.headerWritten && !l.passthrough && l.buffer == nil {
		contentType := l.ResponseWriter.Header().Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "text/html") {
			l.passthrough = true
			l.ResponseWriter.WriteHeader(l.statusCode)
			l.headerWritten = true
			return l.ResponseWriter.Write(data)
		}
		l.buffer = make([]byte, 0, 64*1024)
	}

	if l.passthrough {
		return l.ResponseWriter.Write(data)
	}

	if len(l.buffer)+len(data) > injectMaxBuffer {
		l.passthrough = true
		l.ResponseWriter.Header().Del("Content-Length")
		l.ResponseWriter.WriteHeader(l.statusCode)
		l.headerWritten = true
		if len(l.buffer) > 0 {
			if _, err := l.ResponseWriter.Write(l.buffer); err != nil {
				return 0, err
			}
		}
		return l.ResponseWriter.Write(data)
	}

	l.buffer = append(l.buffer, data...)
	return len(data), nil
}

// finalize must be called after the handler completes.
func (l *scriptInjector) finalize() {
	if l.passthrough || len(l.buffer) == 0 {
		if !l.headerWritten {
			l.ResponseWriter.WriteHeader(l.statusCode)
		}
		return
	}

	html := string(l.buffer)
	modified := strings.Replace(html, "</body>", `<script async src="/livereload.js"></script></body>`, 1)

	l.ResponseWriter.Header().Del("Content-Length")
	l.ResponseWriter.WriteHeader(l.statusCode)
	_, _ = l.ResponseWriter.Write([]byte(modified))
}
