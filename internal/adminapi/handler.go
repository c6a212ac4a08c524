package adminapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const maxJSONBody = 1 << 20

// Handler serves the admin API.
type Handler struct {
	store     *Store
	logger    zerolog.Logger
	maxUpload int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request and rejection logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMaxUpload limits multipart upload bodies. The default is 32 MiB.
func WithMaxUpload(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// NewHandler serves store.
func NewHandler(store *Store, opts ...Option) *Handler {
	h := &Handler{
		store:     store,
		logger:    zerolog.Nop(),
		maxUpload: 32 << 20,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.store == nil {
		h.store = NewStore()
	}
	return h
}

// Store returns the backing store.
func (h *Handler) Store() *Store { return h.store }

// Router returns the API routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/themes", h.CreateTheme)
		r.Post("/methodologies", h.CreateMethodology)
		r.Put("/publications/{publicationId}/external-methodology", h.UpdateExternalMethodology)
		r.Post("/publications/{publicationId}/contact", h.UpdateContact)
		r.Post("/users/invites", h.InviteUser)
		r.Post("/legacy-releases", h.CreateLegacyRelease)
		r.Post("/comments", h.AddComment)
		r.Put("/releases/{releaseId}/ancillary/{fileId}", h.UpdateAncillaryFile)
		r.Post("/releases/{releaseId}/data", h.UploadDataFiles)
	})
	return r
}

func requestLogger(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, errs failures) {
	codes := make([]string, 0, len(errs))
	for _, failure := range errs {
		codes = append(codes, failure.Code)
	}
	h.logger.Info().
		Str("path", r.URL.Path).
		Strs("codes", codes).
		Str("request_id", middleware.GetReqID(r.Context())).
		Msg("request rejected")
	writeProblem(w, errs)
}

func required(errs *failures, path, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs.add(CodeRequired, path, message)
	}
}

func validEmail(errs *failures, path, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		errs.add(CodeInvalidEmail, path, "Enter a valid email address")
	}
}

func validURL(errs *failures, path, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.add(CodeInvalidURL, path, "Enter a valid URL")
	}
}

type themeRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// CreateTheme handles POST /api/themes.
func (h *Handler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !h.decode(w, r, &req) {
		return
	}

	var errs failures
	required(&errs, "title", req.Title, "Title is required")
	required(&errs, "summary", req.Summary, "Summary is required")
	if len(errs) > 0 {
		h.reject(w, r, errs)
		return
	}

	theme, ok := h.store.CreateTheme(strings.TrimSpace(req.Title), strings.TrimSpace(req.Summary))
	if !ok {
		errs.add(CodeSlugNotUnique, "title", "")
		h.reject(w, r, errs)
		return
	}
	writeJSON(w, http.StatusCreated, theme)
}

// CreateMethodology handles POST /api/methodologies.
func (h *Handler) CreateMethodology(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	var errs failures
	required(&errs, "title", req.Title, "Title is required")
	if len(errs) > 0 {
		h.reject(w, r, errs)
		return
	}

	methodology, ok := h.store.CreateMethodology(strings.TrimSpace(req.Title))
	if !ok {
		errs.add(CodeSlugNotUnique, "title", "")
		h.reject(w, r, errs)
		return
	}
	writeJSON(w, http.StatusCreated, methodology)
}

// UpdateExternalMethodology handles PUT
// /api/publications/{publicationId}/external-methodology.
func (h *Handler) UpdateExternalMethodology(w http.ResponseWriter, r *http.Request) {
	var req ExternalMethodology
	if !h.decode(w, r, &req) {
		return
	}

	var errs failures
	required(&errs, "title", req.Title, "Title is required")
	required(&errs, "url", req.URL, "URL is required")
	validURL(&errs, "url", req.URL)
	if len(errs) > 0 {
		h.reject(w, r, errs)
		return
	}

	h.store.SetExternalMethodology(chi.URLParam(r, "publicationId"), req)
	writeJSON(w, http.StatusOK, req)
}

// UpdateContact handles POST /api/publications/{publicationId}/contact.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req Contact
	if !h.decode(w, r, &req) {
		return
	}

	var errs failures
	required(&errs, "teamName", req.TeamName, "Team name is required")
	required(&errs, "teamEmail", req.TeamEmail, "Team email is required")
	validEmail(&errs, "teamEmail", req.TeamEmail)
	required(&errs, "contactName", req.ContactName, "Contact name is required")
	required(&errs, "contactTelNo", req.ContactTelNo, "Contact telephone is required")
	if len(errs) > 0 {
		h.reject(w, r, errs)
		return
	}

	h.store.SetContact(chi.URLParam(r, "publicationId"), req)
	writeJSON(w, http.StatusOK, req)
}

// InviteUser handles POST /api/users/invites.
func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req Invite
	if !h.decode(w, r, &req) {
		return
	}

	var errs failures
	required(&errs, "email", req.Email, "Email is required")
	validEmail(&errs, "email", req.Email)
	required(&errs, "roleId", req.RoleID, "Role is required")
	for i, role := range req.UserReleaseRoles {
		required(&errs, fmt.Sprintf("userReleaseRoles[%d].releaseId", i), role.ReleaseID, "Release is required")
		required(&errs, fmt.Sprintf("userReleaseRoles[%d].releaseRole", i), role.ReleaseRole, "Release role is required")
	}
	for i, role := range req.UserPublicationRoles {
		required(&errs, fmt.Sprintf("userPublicationRoles[%d].publicationId", i), role.PublicationID, "Publication is required")
		required(&errs, fmt.Sprintf("userPublicationRoles[%d].publicationRole", i), role.PublicationRole, "Publication role is required")
	}
	if len(errs) > 0 {
		h.reject(w, r, errs)
		return
	}

	invite, ok := h.store.CreateInvite(req)
	if !ok {
		errs.add(CodeUserAlreadyExists, "", "")
		h.reject(w, r, errs)
		return
	}
	writeJSON(w, http.StatusCreated, invite)
}

type legacyReleaseRequest struct {
	PublicationID string `json:"publicationId"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Order         *int   `json:"order"`
}

// CreateLegacyRelease handles POST /api/legacy-releases.
func (h *Handler) CreateLegacyRelease(w http.ResponseWriter, r *http.Request) {
	var req legacyReleaseRequest
	if !h.decode(w, r, &req) {
		return
	}

	var errs failures
	required(&errs, "publicationId", req.PublicationID, "Publication is required")
	required(&errs, "description", req.Description, "Description is required")
	required(&errs, "url", req.URL, "URL is required")
	validURL(&errs, "url", req.URL)
	if req.Order != nil && *req.Order < 0 {
		errs.add("OrderMustBePositive", "order", "Order must be greater than 0")
	}
	if len(errs) > 0 {
		h.reject(w, r, errs)
		return
	}

	release := LegacyRelease{
		PublicationID: req.PublicationID,
		Description:   req.Description,
		URL:           req.URL,
	}
	if req.Order != nil {
		release.Order = *req.Order
	}
	writeJSON(w, http.StatusCreated, h.store.AddLegacyRelease(release))
}

// AddComment handles POST /api/comments.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	var errs failures
	required(&errs, "content", req.Content, "Content is required")
	if len(errs) > 0 {
		h.reject(w, r, errs)
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddComment(req.Content))
}

// UpdateAncillaryFile handles PUT /api/releases/{releaseId}/ancillary/{fileId}.
func (h *Handler) UpdateAncillaryFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	var errs failures
	required(&errs, "title", req.Title, "Title is required")
	required(&errs, "summary", req.Summary, "Summary is required")
	if len(errs) > 0 {
		h.reject(w, r, errs)
		return
	}

	file := AncillaryFile{
		ID:        chi.URLParam(r, "fileId"),
		ReleaseID: chi.URLParam(r, "releaseId"),
		Title:     req.Title,
		Summary:   req.Summary,
	}
	h.store.SetAncillaryFile(file)
	writeJSON(w, http.StatusOK, file)
}
