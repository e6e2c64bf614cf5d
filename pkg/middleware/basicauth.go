package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// BasicAuth returns middleware that gates requests behind HTTP Basic
// authentication. Credentials are compared in constant time so the check does
// not leak which of the two fields mismatched. The check runs before the
// wrapped handler, so unauthorized requests never reach any mutating work.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	wantUser := sha256.Sum256([]byte(username))
	wantPass := sha256.Sum256([]byte(password))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok {
				writeBasicAuthError(w, "missing credentials")
				return
			}

			gotUser := sha256.Sum256([]byte(user))
			gotPass := sha256.Sum256([]byte(pass))

			userMatch := subtle.ConstantTimeCompare(wantUser[:], gotUser[:]) == 1
			passMatch := subtle.ConstantTimeCompare(wantPass[:], gotPass[:]) == 1
			if !userMatch || !passMatch {
				writeBasicAuthError(w, "invalid credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeBasicAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
