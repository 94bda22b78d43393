package httpserver

import (
	"errors"
	"net/http"

	authdomain "entrepreneur/backend/internal/domain/auth"
	userusecase "entrepreneur/backend/internal/usecase/user"
)

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,notblank,min=8,max=72"`
	Role     string `json:"role" validate:"role"`
}

type updateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,notblank,min=8,max=72"`
	Role     *string `json:"role" validate:"omitempty,role"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	users, total, err := s.userService.List(r.Context(), userusecase.Filter{
		Email:  r.URL.Query().Get("email"),
		Offset: page.Offset(),
		Limit:  page.Size,
	})
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}

	content := make([]userResponse, 0, len(users))
	for _, u := range users {
		content = append(content, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, newPage(content, page, total))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload createUserRequest
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := s.userService.Create(r.Context(), userusecase.CreateInput{
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		s.writeUserError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+user.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var payload updateUserRequest
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := s.userService.Update(r.Context(), r.PathValue("id"), userusecase.UpdateInput{
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		s.writeUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.userService.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeUserError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeUserError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, authdomain.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, "User not found")
	case errors.Is(err, authdomain.ErrEmailExists):
		writeError(w, r, http.StatusConflict, "Email is already registered")
	case errors.Is(err, authdomain.ErrInvalidRole):
		writeError(w, r, http.StatusBadRequest, "Role must be USER or ADMIN")
	default:
		s.writeInternal(w, r, err)
	}
}
