package httpserver

import (
	"net/http"
	"runtime"

	"entrepreneur/backend/internal/authctx"
	"entrepreneur/backend/internal/authz"
	authdomain "entrepreneur/backend/internal/domain/auth"
)

func (s *Server) registerRoutes() {
	public := authz.Public()
	s.handle("GET /api/ping", public, s.handlePing)
	s.handle("GET /health", public, s.handleHealth)
	s.handle("POST /api/auth/register", public, s.handleRegister)
	s.handle("POST /api/auth/login", public, s.handleLogin)

	s.handle("GET /api/me", authz.Authenticated(), s.handleMe)

	member := authz.RequireRole(authdomain.RoleUser)
	s.handle("GET /api/projects", member, s.handleListProjects)
	s.handle("POST /api/projects", member, s.handleCreateProject)
	s.handle("GET /api/projects/{id}", member, s.handleGetProject)
	s.handle("PUT /api/projects/{id}", member, s.handleUpdateProject)
	s.handle("DELETE /api/projects/{id}", member, s.handleDeleteProject)

	admin := authz.RequireRole(authdomain.RoleAdmin)
	s.handle("GET /api/users", admin, s.handleListUsers)
	s.handle("POST /api/users", admin, s.handleCreateUser)
	s.handle("GET /api/users/{id}", admin, s.handleGetUser)
	s.handle("PUT /api/users/{id}", admin, s.handleUpdateUser)
	s.handle("DELETE /api/users/{id}", admin, s.handleDeleteUser)

	s.handle("/", public, s.handleNotFound)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"go":     runtime.Version(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := authctx.Identity(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication is required to access this resource")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "No handler for "+r.Method+" "+r.URL.Path)
}
