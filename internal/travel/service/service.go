// Package service implements travel profile operations against the Travel
// Profile v2 and Loyalty v1 APIs.
package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"travelgate/internal/audit"
	"travelgate/internal/platform/metrics"
	"travelgate/internal/session"
	"travelgate/internal/travel/codec"
	"travelgate/internal/travel/models"
	"travelgate/internal/travel/store"
	"travelgate/pkg/apierr"
)

const (
	contentTypeXML = "application/xml"

	profilePath = "/api/travelprofile/v2.0/profile"
	summaryPath = "/api/travelprofile/v2.0/summary"
	loyaltyPath = "/api/travelprofile/v1.0/loyalty"

	maxSummaryPageSize = 200
)

// LoyaltyResult is the outcome of a loyalty update. Rejection is an expected
// outcome on this endpoint (supplier permissions are narrow), so it is data,
// not an error.
type LoyaltyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Service exposes the travel profile operations.
type Service struct {
	session  *session.Manager
	decoder  *codec.Decoder
	cache    store.Cache
	cacheTTL time.Duration
	audit    *audit.Publisher
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.log = log
		s.decoder = codec.NewDecoder(log)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCache enables the read-through profile cache.
func WithCache(c store.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithAudit publishes an event for every mutation.
func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

func NewService(sm *session.Manager, opts ...Option) *Service {
	s := &Service{
		session: sm,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.decoder = codec.NewDecoder(s.log)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get fetches the travel profile for a login id, serving from the cache when
// enabled. A 404 or an "Invalid User" rejection maps to a not-found error.
func (s *Service) Get(ctx context.Context, loginID string) (*models.TravelProfile, error) {
	if loginID == "" {
		return nil, apierr.New(apierr.CodeValidation, "login id is required")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, loginID)
		if err != nil {
			s.log.WarnContext(ctx, "profile cache read failed", "login_id", loginID, "error", err)
		} else if ok {
			if s.metrics != nil {
				s.metrics.ProfileCacheHits.Inc()
			}
			return cached, nil
		}
	}

	reqURL := s.session.BaseURL() + profilePath +
		"?userid_type=login&userid_value=" + url.QueryEscape(loginID)

	resp, err := s.session.Do(ctx, http.MethodGet, reqURL, "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, apierr.Newf(apierr.CodeNotFound, "travel profile not found: %s", loginID)
	}
	if resp.StatusCode != http.StatusOK {
		remote := codec.ParseRemoteError(resp.Body)
		if strings.Contains(remote.Message, "Invalid User") {
			return nil, apierr.Newf(apierr.CodeNotFound, "travel profile not found: %s", loginID)
		}
		return nil, apierr.Newf(apierr.CodeRemote, "get travel profile: HTTP %d: %s", resp.StatusCode, remote.Message)
	}

	profile, err := s.decoder.Profile(resp.Body)
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeRemote, "decode travel profile", err)
	}
	if profile.LoginID == "" {
		profile.LoginID = loginID
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, loginID, profile, s.cacheTTL); err != nil {
			s.log.WarnContext(ctx, "profile cache write failed", "login_id", loginID, "error", err)
		}
	}
	return profile, nil
}

// Update writes the named field groups of a profile. An empty groups slice
// writes every populated group. Vocabulary violations fail before any
// network call; server rejections carry the server's message verbatim.
func (s *Service) Update(ctx context.Context, profile *models.TravelProfile, groups []models.FieldGroup) error {
	if profile == nil || profile.LoginID == "" {
		return apierr.New(apierr.CodeValidation, "login id is required")
	}
	if err := profile.Validate(); err != nil {
		return apierr.Wrap(apierr.CodeValidation, "profile failed validation", err)
	}

	body, err := codec.EncodeProfile(profile, models.ActionUpdate, groups)
	if err != nil {
		return apierr.Wrap(apierr.CodeValidation, "encode travel profile", err)
	}

	resp, err := s.session.Do(ctx, http.MethodPost, s.session.BaseURL()+profilePath, contentTypeXML, body)
	if err != nil {
		s.publishAudit(ctx, "travel_profile.update", profile.LoginID, audit.OutcomeFailure, err.Error())
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := codec.ParseRemoteError(resp.Body)
		s.publishAudit(ctx, "travel_profile.update", profile.LoginID, audit.OutcomeFailure, remote.Message)
		return apierr.Newf(apierr.CodeRemote, "update travel profile: HTTP %d: %s", resp.StatusCode, remote.Message)
	}
	if ok, msg := codec.ParseUpdateOutcome(resp.Body); !ok {
		s.publishAudit(ctx, "travel_profile.update", profile.LoginID, audit.OutcomeFailure, msg)
		return apierr.Newf(apierr.CodeRemote, "update travel profile: %s", msg)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, profile.LoginID); err != nil {
			s.log.WarnContext(ctx, "profile cache invalidation failed", "login_id", profile.LoginID, "error", err)
		}
	}
	s.publishAudit(ctx, "travel_profile.update", profile.LoginID, audit.OutcomeSuccess, "")
	s.log.InfoContext(ctx, "travel profile updated", "login_id", profile.LoginID, "groups", len(groups))
	return nil
}

// UpdateLoyalty posts one membership to the dedicated loyalty endpoint.
// loginID is recorded for auditing; the endpoint itself resolves the target
// from the membership document and the caller's supplier permissions.
func (s *Service) UpdateLoyalty(ctx context.Context, loginID string, program models.LoyaltyProgram) (*LoyaltyResult, error) {
	if program.VendorCode == "" {
		return nil, apierr.New(apierr.CodeValidation, "vendor code is required")
	}
	if program.ProgramNumber == "" {
		return nil, apierr.New(apierr.CodeValidation, "program number is required")
	}

	body, err := codec.EncodeLoyalty(program)
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeValidation, "encode loyalty membership", err)
	}

	resp, err := s.session.Do(ctx, http.MethodPost, s.session.BaseURL()+loyaltyPath, contentTypeXML, body)
	if err != nil {
		s.publishAudit(ctx, "loyalty.update", loginID, audit.OutcomeFailure, err.Error())
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		remote := codec.ParseRemoteError(resp.Body)
		s.publishAudit(ctx, "loyalty.update", loginID, audit.OutcomeFailure, remote.Message)
		return &LoyaltyResult{Success: false, Error: remote.Message}, nil
	}

	ok, errDesc := codec.ParseLoyaltyOutcome(resp.Body)
	result := &LoyaltyResult{Success: ok, Error: errDesc}
	outcome := audit.OutcomeSuccess
	if !ok {
		outcome = audit.OutcomeFailure
	}
	s.publishAudit(ctx, "loyalty.update", loginID, outcome, errDesc)
	return result, nil
}

// ListSummaries pages through profiles modified since the given time.
func (s *Service) ListSummaries(ctx context.Context, since time.Time, page, perPage int) (*models.SummaryPage, error) {
	if since.IsZero() {
		return nil, apierr.New(apierr.CodeValidation, "a last-modified lower bound is required")
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxSummaryPageSize {
		perPage = maxSummaryPageSize
	}

	query := url.Values{
		"LastModifiedDate": {since.UTC().Format(codec.SummaryTimeLayout)},
		"Page":             {strconv.Itoa(page)},
		"ItemsPerPage":     {strconv.Itoa(perPage)},
	}

	resp, err := s.session.Do(ctx, http.MethodGet, s.session.BaseURL()+summaryPath+"?"+query.Encode(), "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		remote := codec.ParseRemoteError(resp.Body)
		return nil, apierr.Newf(apierr.CodeRemote, "list profile summaries: HTTP %d: %s", resp.StatusCode, remote.Message)
	}

	return s.decoder.Summaries(resp.Body)
}

func (s *Service) publishAudit(ctx context.Context, action, loginID, outcome, detail string) {
	if s.audit == nil {
		return
	}
	actor, err := s.session.TokenSubject()
	if err != nil {
		actor = "unknown"
	}
	s.audit.Publish(ctx, audit.Event{
		Actor:   actor,
		Action:  action,
		LoginID: loginID,
		Outcome: outcome,
		Detail:  detail,
	})
}
