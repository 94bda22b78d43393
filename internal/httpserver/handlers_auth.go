package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	authdomain "entrepreneur/backend/internal/domain/auth"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,notblank,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *authdomain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := s.authService.Register(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, authdomain.ErrEmailExists) {
			writeError(w, r, http.StatusConflict, "Email is already registered")
			return
		}
		s.writeInternal(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+user.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	result, err := s.authService.Login(r.Context(), authdomain.Credentials{
		Email:    strings.TrimSpace(payload.Email),
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, authdomain.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.Token.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.Token.ExpiresIn,
	})
}
