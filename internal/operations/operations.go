// Package operations defines the closed set of requests the adapter can
// execute. Front ends build a Request and hand it to the Dispatcher; new
// operations are added here, not scattered across transports.
package operations

import (
	"context"
	"io"
	"log/slog"
	"time"

	identitymodels "travelgate/internal/identity/models"
	identityservice "travelgate/internal/identity/service"
	"travelgate/internal/platform/metrics"
	travelmodels "travelgate/internal/travel/models"
	travelservice "travelgate/internal/travel/service"
	"travelgate/pkg/apierr"
)

// Request is the sealed union of adapter operations. Name doubles as the
// metrics label for the operation.
type Request interface {
	Name() string
}

type GetIdentity struct {
	ID       string
	Username string
	Current  bool
}

func (GetIdentity) Name() string { return "get_identity" }

type CreateIdentity struct {
	User *identitymodels.User
}

func (CreateIdentity) Name() string { return "create_identity" }

type UpdateIdentity struct {
	ID  string
	Ops []identitymodels.PatchOperation
}

func (UpdateIdentity) Name() string { return "update_identity" }

type GetTravelProfile struct {
	LoginID string
}

func (GetTravelProfile) Name() string { return "get_travel_profile" }

type UpdateTravelProfile struct {
	Profile *travelmodels.TravelProfile
	Groups  []travelmodels.FieldGroup
}

func (UpdateTravelProfile) Name() string { return "update_travel_profile" }

type UpdateLoyaltyProgram struct {
	LoginID string
	Program travelmodels.LoyaltyProgram
}

func (UpdateLoyaltyProgram) Name() string { return "update_loyalty_program" }

type ListProfileSummaries struct {
	Since   time.Time
	Page    int
	PerPage int
}

func (ListProfileSummaries) Name() string { return "list_profile_summaries" }

// Dispatcher routes requests to the two services.
type Dispatcher struct {
	identity *identityservice.Service
	travel   *travelservice.Service
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func NewDispatcher(identity *identityservice.Service, travel *travelservice.Service, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		identity: identity,
		travel:   travel,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes one request. The result type depends on the request:
// identity requests yield *identitymodels.User, travel reads yield
// *travelmodels.TravelProfile or *travelmodels.SummaryPage, loyalty updates
// yield *travelservice.LoyaltyResult, and profile updates yield nil.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (any, error) {
	if d.metrics != nil {
		d.metrics.OperationsTotal.WithLabelValues(req.Name()).Inc()
	}

	result, err := d.dispatch(ctx, req)
	if err != nil {
		if d.metrics != nil {
			d.metrics.OperationErrors.WithLabelValues(req.Name(), string(apierr.CodeOf(err))).Inc()
		}
		d.log.ErrorContext(ctx, "operation failed", "operation", req.Name(), "error", err)
	}
	return result, err
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) (any, error) {
	switch r := req.(type) {
	case GetIdentity:
		return d.identity.Get(ctx, identityservice.Selector{
			ID:       r.ID,
			Username: r.Username,
			Current:  r.Current,
		})
	case CreateIdentity:
		return d.identity.Create(ctx, r.User)
	case UpdateIdentity:
		return d.identity.Update(ctx, r.ID, r.Ops)
	case GetTravelProfile:
		return d.travel.Get(ctx, r.LoginID)
	case UpdateTravelProfile:
		return nil, d.travel.Update(ctx, r.Profile, r.Groups)
	case UpdateLoyaltyProgram:
		return d.travel.UpdateLoyalty(ctx, r.LoginID, r.Program)
	case ListProfileSummaries:
		return d.travel.ListSummaries(ctx, r.Since, r.Page, r.PerPage)
	default:
		return nil, apierr.Newf(apierr.CodeInternal, "unknown operation: %T", req)
	}
}
