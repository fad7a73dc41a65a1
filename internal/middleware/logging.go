package middleware

import (
	"net/http"
	"time"

	"github.com/2beens/fitcoach/pkg"

	log "github.com/sirupsen/logrus"
)

// LogRequest traces every request with the client address and the time it took.
func LogRequest(trustedProxies *pkg.TrustedProxies) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !log.IsLevelEnabled(log.TraceLevel) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP, err := pkg.ReadUserIP(r, trustedProxies)
			if err != nil {
				clientIP = r.RemoteAddr
			}

			start := time.Now()
			next.ServeHTTP(w, r)
			log.Tracef(
				" ====> [%s] [%s] from [%s] took %s [UA: %s]",
				r.Method, r.URL.Path, clientIP, time.Since(start), r.Header.Get("User-Agent"),
			)
		})
	}
}
