package server

import (
	"net/http"
	"net/url"
	"strings"
)

// queryRoute rewrites "/?admin/sub&rest" to "/admin/sub?rest". Requests for
// anything other than the admin entry point pass through untouched.
func queryRoute(admin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" && r.URL.RawQuery != "" {
				if route, rest, ok := splitQueryRoute(r.URL.RawQuery, admin); ok {
					u := *r.URL
					u.Path = "/" + route
					u.RawPath = ""
					u.RawQuery = rest
					r2 := r.Clone(r.Context())
					r2.URL = &u
					r2.RequestURI = u.RequestURI()
					r = r2
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// splitQueryRoute takes the leading valueless query key as a route when it
// is the admin path or lies beneath it.
func splitQueryRoute(rawQuery, admin string) (route, rest string, ok bool) {
	first, rest, _ := strings.Cut(rawQuery, "&")
	if strings.Contains(first, "=") {
		return "", "", false
	}
	decoded, err := url.PathUnescape(first)
	if err != nil {
		return "", "", false
	}
	decoded = strings.Trim(decoded, "/")
	if decoded != admin && !strings.HasPrefix(decoded, admin+"/") {
		return "", "", false
	}
	return decoded, rest, true
}
