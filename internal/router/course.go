package router

import (
	"net/http"

	"coursemarket/internal/middleware"
	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// CourseRoutes is the public catalogue.
func CourseRoutes(s *Services) *chi.Mux {
	h := newHandlers(s)
	router := chi.NewRouter()

	router.Get("/", h.listCoursesHandler)
	router.With(middleware.CourseCtx()).Get("/{courseID}", h.getCourseHandler)

	return router
}

// GET: /
func (h *handlers) listCoursesHandler(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Repository.ListPublishedCourses(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	sanitized := make([]*models.Course, 0, len(courses))
	for _, c := range courses {
		sanitized = append(sanitized, c.Sanitized())
	}
	respond(w, r, render.M{"courses": sanitized})
}

// GET: /{courseID}
func (h *handlers) getCourseHandler(w http.ResponseWriter, r *http.Request) {
	course, err := h.Repository.GetCourseByID(r.Context(), middleware.CourseID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !course.IsPublished {
		respondError(w, r, qerrors.CourseNotFoundError)
		return
	}

	respond(w, r, render.M{"courseData": course.Sanitized()})
}
