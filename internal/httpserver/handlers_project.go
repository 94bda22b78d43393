package httpserver

import (
	"errors"
	"net/http"
	"strings"

	projectdomain "entrepreneur/backend/internal/domain/project"
	projectusecase "entrepreneur/backend/internal/usecase/project"
)

type projectRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100,projectname"`
	Description string `json:"description" validate:"max=1000"`
}

func (p *projectRequest) normalize() {
	p.Name = strings.TrimSpace(p.Name)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := s.projectService.List(r.Context(), projectusecase.Filter{
		Name:   r.URL.Query().Get("name"),
		Offset: page.Offset(),
		Limit:  page.Size,
	})
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(items, page, total))
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var payload projectRequest
	if !decodeProject(w, r, &payload) {
		return
	}

	item, err := s.projectService.Create(r.Context(), projectusecase.CreateInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		s.writeProjectError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/projects/"+item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	item, err := s.projectService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var payload projectRequest
	if !decodeProject(w, r, &payload) {
		return
	}

	item, err := s.projectService.Update(r.Context(), r.PathValue("id"), projectusecase.UpdateInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		s.writeProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projectService.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeProjectError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeProject(w http.ResponseWriter, r *http.Request, payload *projectRequest) bool {
	if !decodeJSON(w, r, payload) {
		return false
	}
	payload.normalize()
	return validateRequest(w, r, payload)
}

func (s *Server) writeProjectError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, projectdomain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Project not found")
	case errors.Is(err, projectdomain.ErrDuplicateName):
		writeError(w, r, http.StatusConflict, "A project with this name already exists")
	default:
		s.writeInternal(w, r, err)
	}
}
