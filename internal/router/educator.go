package router

import (
	"fmt"
	"net/http"

	"coursemarket/internal/auth"
	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func EducatorRoutes(s *Services) *chi.Mux {
	h := newHandlers(s)
	router := chi.NewRouter()
	router.Use(h.requireAuth())

	// Any signed in user may become an educator
	router.Post("/update-role", h.updateRoleHandler)

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireEducator())

		r.Post("/courses", h.createCourseHandler)
		r.Get("/courses", h.listEducatorCoursesHandler)
		r.Get("/dashboard", h.dashboardHandler)
		r.Get("/enrolled-students", h.enrolledStudentsHandler)
	})

	return router
}

// POST: /update-role
func (h *handlers) updateRoleHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.Auth.SetRole(r.Context(), claims.UID, models.RoleEducator); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, r, "You can publish a course now")
}

// POST: /courses
func (h *handlers) createCourseHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req models.CreateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.ThumbnailURL == "" {
		respondError(w, r, qerrors.ThumbnailRequiredError)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, err)
		return
	}
	if id, ok := models.DuplicateContentID(req.Chapters); ok {
		respondError(w, r, fmt.Errorf("%w: duplicate content id %q", qerrors.InvalidCourseError, id))
		return
	}
	req.EducatorID = claims.UID

	course, err := h.Repository.CreateCourse(r.Context(), &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		NotesURL:     req.NotesURL,
		Price:        req.Price,
		Discount:     req.Discount,
		IsPublished:  true,
		Chapters:     req.Chapters,
		EducatorID:   req.EducatorID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	respond(w, r, render.M{"message": "Course Added", "course": course})
}

// GET: /courses
func (h *handlers) listEducatorCoursesHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	courses, err := h.Repository.ListCoursesByEducator(r.Context(), claims.UID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{"courses": courses})
}

// GET: /dashboard
func (h *handlers) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	dashboard, err := h.Analytics.Dashboard(r.Context(), claims.UID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{"dashboardData": dashboard})
}

// GET: /enrolled-students
func (h *handlers) enrolledStudentsHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	students, err := h.Analytics.EnrolledStudents(r.Context(), claims.UID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{"enrolledStudents": students})
}
