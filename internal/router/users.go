package router

import (
	"errors"
	"net/http"
	"strings"

	"coursemarket/internal/auth"
	"coursemarket/internal/middleware"
	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func UserRoutes(s *Services) *chi.Mux {
	h := newHandlers(s)
	router := chi.NewRouter()

	// Alter the current session. No auth middlewares required.
	router.Post("/session", h.createSessionHandler)
	router.Post("/signout", h.signOutHandler)

	router.Group(func(r chi.Router) {
		r.Use(h.requireAuth())

		// Information about the current user
		r.Get("/me", h.getMeHandler)
		r.Get("/enrolled-courses", h.enrolledCoursesHandler)

		// Purchases
		r.Post("/purchase", h.purchaseHandler)
		r.With(middleware.CourseCtx()).Get("/purchases/{courseID}", h.purchaseStatusHandler)

		// Progress
		r.Post("/progress", h.updateProgressHandler)
		r.With(middleware.CourseCtx()).Get("/progress/{courseID}", h.getProgressHandler)
		r.With(middleware.CourseCtx()).Get("/player/{courseID}", h.playerHandler)

		// Ratings
		r.Post("/rating", h.rateHandler)
	})

	return router
}

// GET: /me
func (h *handlers) getMeHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.Identity.EnsureUser(r.Context(), claims.UID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{"user": user})
}

// GET: /enrolled-courses
func (h *handlers) enrolledCoursesHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	courses, err := h.Enrollment.EnrolledCourses(r.Context(), claims.UID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{"enrolledCourses": courses})
}

// POST: /purchase
func (h *handlers) purchaseHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req models.PurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.CourseID == "" {
		respondError(w, r, qerrors.CourseNotFoundError)
		return
	}

	// The account may not have been mirrored yet.
	if _, err := h.Identity.EnsureUser(r.Context(), claims.UID); err != nil {
		respondError(w, r, err)
		return
	}

	checkout, err := h.Enrollment.StartPurchase(r.Context(), claims.UID, req.CourseID, h.origin(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{"session_url": checkout.SessionURL, "purchase": checkout.Purchase})
}

// GET: /purchases/{courseID}
func (h *handlers) purchaseStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	status, err := h.Enrollment.State(r.Context(), claims.UID, middleware.CourseID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{"enrollment": status})
}

// POST: /progress
func (h *handlers) updateProgressHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req models.UpdateProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	p, err := h.Progress.MarkComplete(r.Context(), claims.UID, req.CourseID, req.LectureID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{"message": "Progress Updated", "progressData": p})
}

// GET: /progress/{courseID}
func (h *handlers) getProgressHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	p, err := h.Progress.GetProgress(r.Context(), claims.UID, middleware.CourseID(r))
	if errors.Is(err, qerrors.ProgressNotFoundError) {
		// Absence is reported as null, unlike a record with no completed lectures.
		respond(w, r, render.M{"progressData": nil})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{"progressData": p})
}

// GET: /player/{courseID}
func (h *handlers) playerHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	player, err := h.Progress.Player(r.Context(), claims.UID, middleware.CourseID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, render.M{
		"courseData":   player.Course,
		"progressData": player.Progress,
		"enrolled":     player.Enrolled,
		"userRating":   player.Rating,
	})
}

// POST: /rating
func (h *handlers) rateHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req models.RateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.Ratings.Rate(r.Context(), claims.UID, req.CourseID, req.Rating); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, r, "Rating added")
}

// POST: /session
func (h *handlers) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	expiresIn := h.Config.SessionCookieExpiration

	// Creating the cookie also verifies the ID token. The cookie has the same claims as the token.
	cookie, err := h.Auth.CreateSessionCookie(r.Context(), req.Token, expiresIn)
	if err != nil {
		respondError(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(cookie, int(expiresIn.Seconds())))
	respondMessage(w, r, "Signed in")
}

// POST: /signout
func (h *handlers) signOutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	respondMessage(w, r, "Signed out")
}

// Helpers

func (h *handlers) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.Config.IsHTTPS {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     h.Config.SessionCookieName,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: sameSite,
		Secure:   h.Config.IsHTTPS,
		Path:     "/",
	}
}

// origin is the storefront address checkout redirects back to: the request origin when it is allowed,
// otherwise the first allowed origin.
func (h *handlers) origin(r *http.Request) string {
	origin := strings.TrimRight(r.Header.Get("Origin"), "/")
	for _, allowed := range h.Config.AllowedOrigins {
		if allowed == "*" && origin != "" {
			return origin
		}
		if strings.TrimRight(allowed, "/") == origin && origin != "" {
			return origin
		}
	}
	if len(h.Config.AllowedOrigins) > 0 && h.Config.AllowedOrigins[0] != "*" {
		return strings.TrimRight(h.Config.AllowedOrigins[0], "/")
	}
	return origin
}
