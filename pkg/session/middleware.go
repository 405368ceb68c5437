package session

import (
	"net/http"
)

// Middleware loads the session into the request context. Handlers that
// change it must call Save before writing the response body.
func (s *Storage) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.LoadRequest(r)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireAuth is a middleware that requires an authenticated session
func (s *Storage) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := FromContext(r.Context())
		if !ok {
			var err error
			session, err = s.LoadRequest(r)
			if err != nil {
				http.Error(w, "Session error", http.StatusInternalServerError)
				return
			}
		}

		if !session.IsAuthenticated() {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}
