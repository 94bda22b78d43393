package httpserver

import (
	"net/http"

	"entrepreneur/backend/internal/authctx"
	"entrepreneur/backend/internal/authz"
)

// handle registers h under pattern behind the access policy.
func (s *Server) handle(pattern string, policy authz.Policy, h http.HandlerFunc) {
	s.router.Handle(pattern, s.gate(policy, h))
}

func (s *Server) gate(policy authz.Policy, next http.Handler) http.Handler {
	if policy.IsPublic() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := authz.Check(r.Context(), policy)
		switch decision {
		case authz.Allow:
			next.ServeHTTP(w, r)
			return
		case authz.DenyUnauthenticated:
			writeError(w, r, http.StatusUnauthorized, "Authentication is required to access this resource")
		default:
			writeError(w, r, http.StatusForbidden, "You do not have permission to access this resource")
		}
		event := s.log.Debug().
			Str("path", r.URL.Path).
			Stringer("policy", policy).
			Stringer("decision", decision)
		if role, ok := policy.Role(); ok {
			event = event.Str("required_role", string(role))
		}
		if user, ok := authctx.Identity(r.Context()); ok {
			event = event.Str("user_id", user.ID)
		}
		event.Msg("access denied")
	})
}
