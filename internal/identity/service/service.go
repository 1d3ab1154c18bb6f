// Package service implements identity operations against the Identity v4
// API. All calls go through the session manager, which owns the token
// lifecycle and the 401 retry.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"travelgate/internal/identity/models"
	"travelgate/internal/platform/metrics"
	"travelgate/internal/session"
	"travelgate/pkg/apierr"
)

const contentTypeJSON = "application/json"

// Selector picks exactly one way to resolve an identity.
type Selector struct {
	ID       string
	Username string
	Current  bool
}

func (s Selector) validate() error {
	n := 0
	if s.ID != "" {
		n++
	}
	if s.Username != "" {
		n++
	}
	if s.Current {
		n++
	}
	if n != 1 {
		return apierr.New(apierr.CodeValidation, "selector must set exactly one of id, username, or current")
	}
	return nil
}

// Service exposes the identity operations.
type Service struct {
	session   *session.Manager
	companyID string
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds the identity service. companyID is the fallback company
// for creates that do not carry one explicitly.
func NewService(sm *session.Manager, companyID string, opts ...Option) *Service {
	s := &Service{
		session:   sm,
		companyID: companyID,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// identityURL builds an Identity v4 endpoint from the session's geolocation.
func (s *Service) identityURL(path string) string {
	return s.session.Geolocation() + "/profile/identity/v4/" + path
}

// Get resolves an identity through the selector. A username search that
// matches nothing returns (nil, nil); the other selectors return a not-found
// error instead.
func (s *Service) Get(ctx context.Context, sel Selector) (*models.User, error) {
	if err := sel.validate(); err != nil {
		return nil, err
	}
	switch {
	case sel.ID != "":
		return s.GetByID(ctx, sel.ID)
	case sel.Username != "":
		return s.FindByUsername(ctx, sel.Username)
	default:
		return s.GetCurrent(ctx)
	}
}

// GetByID fetches one user resource.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	resp, err := s.session.Do(ctx, http.MethodGet, s.identityURL("Users/"+url.PathEscape(id)), "", nil)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return parseUser(resp.Body)
	case http.StatusNotFound:
		return nil, apierr.Newf(apierr.CodeNotFound, "user not found: %s", id)
	default:
		return nil, remoteError("get user", resp)
	}
}

// FindByUsername searches with a SCIM userName filter. No match is not an
// error. Multiple matches return the first and log the rest away.
func (s *Service) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	filter := url.QueryEscape(fmt.Sprintf("userName eq %q", username))
	resp, err := s.session.Do(ctx, http.MethodGet, s.identityURL("Users")+"?filter="+filter, "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, remoteError("search users", resp)
	}

	var list models.ListResponse
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, apierr.Wrap(apierr.CodeRemote, "parse search response", err)
	}
	if len(list.Resources) == 0 {
		return nil, nil
	}
	if len(list.Resources) > 1 {
		s.log.WarnContext(ctx, "multiple users matched username, returning first",
			"username", username, "matches", len(list.Resources))
	}
	user := list.Resources[0]
	return &user, nil
}

// GetCurrent resolves the authenticated user via /me. Company-scoped tokens
// answer /me with a Company resource; in that case the token subject is
// tried as a user id, and a miss means the token has no user context at all.
func (s *Service) GetCurrent(ctx context.Context) (*models.User, error) {
	resp, err := s.session.Do(ctx, http.MethodGet, s.identityURL("me"), "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, remoteError("get current user", resp)
	}

	user, err := parseUser(resp.Body)
	if err != nil {
		return nil, err
	}

	resourceType := ""
	if user.Meta != nil {
		resourceType = user.Meta.ResourceType
	}
	switch resourceType {
	case "User", "":
		return user, nil
	case "Company":
		sub, err := s.session.TokenSubject()
		if err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "company resource from /me, trying token subject as user id")
		resolved, err := s.GetByID(ctx, sub)
		if apierr.HasCode(err, apierr.CodeNotFound) {
			return nil, apierr.New(apierr.CodeAuthentication,
				"company-scoped token has no user context; use a user-scoped refresh token or password grant")
		}
		return resolved, err
	default:
		return nil, apierr.Newf(apierr.CodeValidation, "unknown resource type from /me: %s", resourceType)
	}
}

// Create provisions a new user. Username, given name, family name, and a
// company id (explicit or configured) are required before any network call.
func (s *Service) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var missing []string
	if user.UserName == "" {
		missing = append(missing, "userName")
	}
	if user.Name == nil || user.Name.GivenName == "" {
		missing = append(missing, "name.givenName")
	}
	if user.Name == nil || user.Name.FamilyName == "" {
		missing = append(missing, "name.familyName")
	}
	if len(missing) > 0 {
		return nil, apierr.Newf(apierr.CodeValidation, "required fields missing: %s", strings.Join(missing, ", "))
	}

	if user.Enterprise == nil {
		user.Enterprise = &models.Enterprise{}
	}
	if user.Enterprise.CompanyID == "" {
		user.Enterprise.CompanyID = s.companyID
	}
	if user.Enterprise.CompanyID == "" {
		return nil, apierr.New(apierr.CodeValidation,
			"company id is required: set it on the user or configure CONCUR_COMPANY_UUID")
	}

	user.Schemas = []string{models.SchemaCoreUser, models.SchemaEnterpriseUser}
	body, err := json.Marshal(user)
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeValidation, "encode user", err)
	}

	resp, err := s.session.Do(ctx, http.MethodPost, s.identityURL("Users"), contentTypeJSON, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, remoteError("create user", resp)
	}

	created, err := parseUser(resp.Body)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user created", "user_id", created.ID, "username", created.UserName)
	return created, nil
}

// Update applies a SCIM PATCH to an existing user and returns the updated
// resource.
func (s *Service) Update(ctx context.Context, id string, ops []models.PatchOperation) (*models.User, error) {
	if id == "" {
		return nil, apierr.New(apierr.CodeValidation, "user id is required")
	}
	if len(ops) == 0 {
		return nil, apierr.New(apierr.CodeValidation, "at least one patch operation is required")
	}

	body, err := json.Marshal(models.NewPatchRequest(ops...))
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeValidation, "encode patch", err)
	}

	resp, err := s.session.Do(ctx, http.MethodPatch, s.identityURL("Users/"+url.PathEscape(id)), contentTypeJSON, body)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return parseUser(resp.Body)
	case http.StatusNotFound:
		return nil, apierr.Newf(apierr.CodeNotFound, "user not found: %s", id)
	default:
		return nil, remoteError("update user", resp)
	}
}

func parseUser(body []byte) (*models.User, error) {
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, apierr.Wrap(apierr.CodeRemote, "parse user resource", err)
	}
	return &user, nil
}

func remoteError(op string, resp *session.Response) error {
	msg := strings.TrimSpace(string(resp.Body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return apierr.Newf(apierr.CodeRemote, "%s: HTTP %d: %s", op, resp.StatusCode, msg)
}
