// Package httptransport exposes the adapter's operations over HTTP. Handlers
// stay thin: decode the request, build an operation, dispatch, encode the
// result.
package httptransport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"travelgate/internal/audit"
	identitymodels "travelgate/internal/identity/models"
	"travelgate/internal/operations"
	"travelgate/internal/platform/middleware"
	"travelgate/internal/travel/codec"
	travelmodels "travelgate/internal/travel/models"
	"travelgate/pkg/apierr"
)

const maxBodyBytes = 1 << 20

// Handler carries the dependencies every route needs.
type Handler struct {
	dispatcher *operations.Dispatcher
	auditStore audit.Store
	log        *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) { h.log = log }
}

// WithAuditStore enables the audit listing route.
func WithAuditStore(store audit.Store) Option {
	return func(h *Handler) { h.auditStore = store }
}

func NewHandler(d *operations.Dispatcher, opts ...Option) *Handler {
	h := &Handler{
		dispatcher: d,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetIdentity resolves a user by ?id=, ?username=, or the token's own user
// when neither is given.
func (h *Handler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	req := operations.GetIdentity{
		ID:       r.URL.Query().Get("id"),
		Username: r.URL.Query().Get("username"),
	}
	if req.ID == "" && req.Username == "" {
		req.Current = true
	}

	result, err := h.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if result == nil {
		h.writeError(w, r, apierr.New(apierr.CodeNotFound, "user not found"))
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// CreateIdentity provisions a new user from a SCIM user document.
func (h *Handler) CreateIdentity(w http.ResponseWriter, r *http.Request) {
	var user identitymodels.User
	if err := h.readJSON(w, r, &user); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), operations.CreateIdentity{User: &user})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, result)
}

type patchRequest struct {
	Operations []identitymodels.PatchOperation `json:"operations"`
}

// UpdateIdentity applies SCIM patch operations to an existing user.
func (h *Handler) UpdateIdentity(w http.ResponseWriter, r *http.Request) {
	var body patchRequest
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), operations.UpdateIdentity{
		ID:  chi.URLParam(r, "id"),
		Ops: body.Operations,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// GetTravelProfile returns the full travel profile for a login id.
func (h *Handler) GetTravelProfile(w http.ResponseWriter, r *http.Request) {
	result, err := h.dispatcher.Dispatch(r.Context(), operations.GetTravelProfile{
		LoginID: chi.URLParam(r, "loginID"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

type updateProfileRequest struct {
	Profile *travelmodels.TravelProfile `json:"profile"`
	Groups  []travelmodels.FieldGroup   `json:"groups,omitempty"`
}

// UpdateTravelProfile writes the given field groups of a profile. The login
// id in the path wins over any login id in the body.
func (h *Handler) UpdateTravelProfile(w http.ResponseWriter, r *http.Request) {
	var body updateProfileRequest
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if body.Profile == nil {
		h.writeError(w, r, apierr.New(apierr.CodeBadRequest, "request body must carry a profile"))
		return
	}
	body.Profile.LoginID = chi.URLParam(r, "loginID")

	if _, err := h.dispatcher.Dispatch(r.Context(), operations.UpdateTravelProfile{
		Profile: body.Profile,
		Groups:  body.Groups,
	}); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "updated"})
}

// UpdateLoyaltyProgram posts one loyalty membership. A supplier-side
// rejection is reported in the body, not as an HTTP error.
func (h *Handler) UpdateLoyaltyProgram(w http.ResponseWriter, r *http.Request) {
	var program travelmodels.LoyaltyProgram
	if err := h.readJSON(w, r, &program); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), operations.UpdateLoyaltyProgram{
		LoginID: chi.URLParam(r, "loginID"),
		Program: program,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// ListProfileSummaries pages through profiles modified since ?since=.
func (h *Handler) ListProfileSummaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	since, err := parseSince(q.Get("since"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := parsePositiveInt(q.Get("page"), "page", 1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	perPage, err := parsePositiveInt(q.Get("per_page"), "per_page", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), operations.ListProfileSummaries{
		Since:   since,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// ListAuditEvents returns the most recent recorded mutations.
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	if h.auditStore == nil {
		h.writeError(w, r, apierr.New(apierr.CodeNotFound, "audit log is not enabled"))
		return
	}
	limit, err := parsePositiveInt(r.URL.Query().Get("limit"), "limit", 100)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	events, err := h.auditStore.List(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, apierr.Wrap(apierr.CodeInternal, "list audit events", err))
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"events": events})
}

func parseSince(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apierr.New(apierr.CodeBadRequest, "query parameter since is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(codec.SummaryTimeLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, apierr.Newf(apierr.CodeBadRequest, "invalid since value: %q", raw)
}

func parsePositiveInt(raw, name string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apierr.Newf(apierr.CodeBadRequest, "invalid %s value: %q", name, raw)
	}
	return n, nil
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierr.Wrap(apierr.CodeBadRequest, "decode request body", err)
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.ErrorContext(r.Context(), "write response failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierr.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
	h.writeJSON(w, r, status, map[string]string{
		"code":  string(apierr.CodeOf(err)),
		"error": err.Error(),
	})
}
