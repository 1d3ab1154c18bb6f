package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"travelgate/internal/audit"
	"travelgate/internal/session"
	"travelgate/internal/travel/models"
	"travelgate/internal/travel/store"
	"travelgate/pkg/apierr"
)

type TravelSuite struct {
	suite.Suite
}

func TestTravelSuite(t *testing.T) {
	suite.Run(t, new(TravelSuite))
}

// travelVendor fakes the token endpoint plus the travel profile routes.
type travelVendor struct {
	server       *httptest.Server
	mux          *http.ServeMux
	profileCalls atomic.Int64
}

func newTravelVendor() *travelVendor {
	v := &travelVendor{mux: http.NewServeMux()}
	v.mux.HandleFunc("/oauth2/v0/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	v.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == profilePath {
			v.profileCalls.Add(1)
		}
		v.mux.ServeHTTP(w, r)
	}))
	return v
}

func (v *travelVendor) service(opts ...Option) *Service {
	sm := session.NewManager(v.server.URL, session.Credentials{ClientID: "c", ClientSecret: "s"})
	return NewService(sm, opts...)
}

const profileDoc = `<ProfileResponse Action="Update" LoginId="jane.doe@example.com">
	<General><FirstName>Jane</FirstName><LastName>Doe</LastName></General>
	<Air><HomeAirport>SEA</HomeAirport></Air>
</ProfileResponse>`

func (s *TravelSuite) TestGet() {
	s.Run("fetches and decodes by login id", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
			s.Equal("login", r.URL.Query().Get("userid_type"))
			s.Equal("jane.doe@example.com", r.URL.Query().Get("userid_value"))
			fmt.Fprint(w, profileDoc)
		})

		p, err := v.service().Get(context.Background(), "jane.doe@example.com")
		s.Require().NoError(err)
		s.Equal("jane.doe@example.com", p.LoginID)
		s.Equal("Jane", p.General.FirstName)
		s.Require().NotNil(p.Air)
		s.Equal("SEA", p.Air.HomeAirport)
	})

	s.Run("empty login id is a validation error", func() {
		v := newTravelVendor()
		defer v.server.Close()

		_, err := v.service().Get(context.Background(), "")
		s.True(apierr.HasCode(err, apierr.CodeValidation))
		s.EqualValues(0, v.profileCalls.Load())
	})

	s.Run("404 maps to not found", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := v.service().Get(context.Background(), "ghost")
		s.True(apierr.HasCode(err, apierr.CodeNotFound))
	})

	s.Run("Invalid User rejection maps to not found", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `<Errors><Error><Text>Invalid User Id and or travel config</Text><Code>1000</Code></Error></Errors>`)
		})

		_, err := v.service().Get(context.Background(), "ghost")
		s.True(apierr.HasCode(err, apierr.CodeNotFound))
	})

	s.Run("other rejections keep the vendor message", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `<Errors><Error><Text>Scope missing</Text><Code>403</Code></Error></Errors>`)
		})

		_, err := v.service().Get(context.Background(), "jane.doe@example.com")
		s.Require().Error(err)
		s.True(apierr.HasCode(err, apierr.CodeRemote))
		s.Contains(err.Error(), "Scope missing")
	})
}

func (s *TravelSuite) TestGetWithCache() {
	v := newTravelVendor()
	defer v.server.Close()
	v.mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, profileDoc)
	})

	cache := store.NewMemoryCache()
	svc := v.service(WithCache(cache, time.Minute))
	ctx := context.Background()

	_, err := svc.Get(ctx, "jane.doe@example.com")
	s.Require().NoError(err)
	_, err = svc.Get(ctx, "jane.doe@example.com")
	s.Require().NoError(err)
	s.EqualValues(1, v.profileCalls.Load(), "second read must come from the cache")
}

func (s *TravelSuite) TestUpdate() {
	s.Run("posts the document and invalidates the cache", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				fmt.Fprint(w, profileDoc)
				return
			}
			s.Equal("application/xml", r.Header.Get("Content-Type"))
			fmt.Fprint(w, `<TravelProfileResponseMessage><Code>S001</Code></TravelProfileResponseMessage>`)
		})

		cache := store.NewMemoryCache()
		svc := v.service(WithCache(cache, time.Minute))
		ctx := context.Background()

		_, err := svc.Get(ctx, "jane.doe@example.com")
		s.Require().NoError(err)

		profile := &models.TravelProfile{
			LoginID: "jane.doe@example.com",
			Air:     &models.AirPreferences{HomeAirport: "PDX"},
		}
		s.Require().NoError(svc.Update(ctx, profile, []models.FieldGroup{models.GroupAir}))

		_, hit, err := cache.Get(ctx, "jane.doe@example.com")
		s.Require().NoError(err)
		s.False(hit, "update must evict the cached profile")
	})

	s.Run("vocabulary violations fail before the network", func() {
		v := newTravelVendor()
		defer v.server.Close()

		profile := &models.TravelProfile{
			LoginID: "jane.doe@example.com",
			Air:     &models.AirPreferences{SeatPreference: "CenterLeft"},
		}
		err := v.service().Update(context.Background(), profile, nil)
		s.Require().Error(err)
		s.True(apierr.HasCode(err, apierr.CodeValidation))
		s.Contains(err.Error(), "air.seat_preference")
		s.EqualValues(0, v.profileCalls.Load())
	})

	s.Run("errors inside a 200 body surface verbatim", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<Errors><Error><Text>Invalid rule class</Text><Code>1100</Code></Error></Errors>`)
		})

		err := v.service().Update(context.Background(), &models.TravelProfile{LoginID: "u"}, nil)
		s.Require().Error(err)
		s.True(apierr.HasCode(err, apierr.CodeRemote))
		s.Contains(err.Error(), "Invalid rule class")
	})
}

func (s *TravelSuite) TestUpdateLoyalty() {
	s.Run("success result", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(loyaltyPath, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<LoyaltyMembershipResponseMessage><Status>SUCCESS</Status></LoyaltyMembershipResponseMessage>`)
		})

		result, err := v.service().UpdateLoyalty(context.Background(), "jane.doe@example.com", models.LoyaltyProgram{
			VendorCode: "AS", Family: models.ProgramAir, ProgramNumber: "MP1",
		})
		s.Require().NoError(err)
		s.True(result.Success)
	})

	s.Run("in-band rejection is data, not an error", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(loyaltyPath, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<LoyaltyMembershipResponseMessage><Status>ERROR</Status><ErrorDescription>You do not have permissions to update loyalty data for vendor AS</ErrorDescription></LoyaltyMembershipResponseMessage>`)
		})

		result, err := v.service().UpdateLoyalty(context.Background(), "jane.doe@example.com", models.LoyaltyProgram{
			VendorCode: "AS", Family: models.ProgramAir, ProgramNumber: "MP1",
		})
		s.Require().NoError(err)
		s.False(result.Success)
		s.Contains(result.Error, "do not have permissions")
	})

	s.Run("missing fields are validation errors", func() {
		v := newTravelVendor()
		defer v.server.Close()

		_, err := v.service().UpdateLoyalty(context.Background(), "u", models.LoyaltyProgram{Family: models.ProgramAir})
		s.True(apierr.HasCode(err, apierr.CodeValidation))
	})
}

func (s *TravelSuite) TestListSummaries() {
	s.Run("builds the query and parses the page", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(summaryPath, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			s.Equal("2026-08-01T00:00:00", q.Get("LastModifiedDate"))
			s.Equal("2", q.Get("Page"))
			s.Equal("50", q.Get("ItemsPerPage"))
			fmt.Fprint(w, `<ConnectResponse>
				<Metadata><Paging><TotalPages>2</TotalPages><TotalItems>60</TotalItems><Page>2</Page><ItemsPerPage>50</ItemsPerPage></Paging></Metadata>
				<Data><ProfileSummary><Status>Active</Status><LoginID>jane@example.com</LoginID><ProfileLastModifiedUTC>2026-08-02T08:00:00</ProfileLastModifiedUTC></ProfileSummary></Data>
			</ConnectResponse>`)
		})

		since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		page, err := v.service().ListSummaries(context.Background(), since, 2, 50)
		s.Require().NoError(err)
		s.Equal(2, page.Paging.Page)
		s.Require().Len(page.Summaries, 1)
		s.Equal("jane@example.com", page.Summaries[0].LoginID)
	})

	s.Run("page size is clamped to the vendor maximum", func() {
		v := newTravelVendor()
		defer v.server.Close()
		v.mux.HandleFunc(summaryPath, func(w http.ResponseWriter, r *http.Request) {
			s.Equal("200", r.URL.Query().Get("ItemsPerPage"))
			s.Equal("1", r.URL.Query().Get("Page"))
			fmt.Fprint(w, `<ConnectResponse><Data></Data></ConnectResponse>`)
		})

		_, err := v.service().ListSummaries(context.Background(), time.Now(), 0, 900)
		s.Require().NoError(err)
	})

	s.Run("zero since is rejected", func() {
		v := newTravelVendor()
		defer v.server.Close()

		_, err := v.service().ListSummaries(context.Background(), time.Time{}, 1, 10)
		s.True(apierr.HasCode(err, apierr.CodeValidation))
	})
}

func (s *TravelSuite) TestAuditTrail() {
	v := newTravelVendor()
	defer v.server.Close()
	v.mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<TravelProfileResponseMessage><Code>S001</Code></TravelProfileResponseMessage>`)
	})
	v.mux.HandleFunc(loyaltyPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<LoyaltyMembershipResponseMessage><Status>ERROR</Status><ErrorDescription>denied</ErrorDescription></LoyaltyMembershipResponseMessage>`)
	})

	auditStore := audit.NewMemoryStore(10)
	svc := v.service(WithAudit(audit.NewPublisher(auditStore)))
	ctx := context.Background()

	s.Require().NoError(svc.Update(ctx, &models.TravelProfile{LoginID: "jane@example.com"}, nil))
	_, err := svc.UpdateLoyalty(ctx, "jane@example.com", models.LoyaltyProgram{
		VendorCode: "AS", Family: models.ProgramAir, ProgramNumber: "MP1",
	})
	s.Require().NoError(err)

	events, err := auditStore.List(ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	s.Equal("travel_profile.update", events[0].Action)
	s.Equal(audit.OutcomeSuccess, events[0].Outcome)
	s.Equal("jane@example.com", events[0].LoginID)
	s.NotEmpty(events[0].ID)
	s.False(events[0].At.IsZero())

	s.Equal("loyalty.update", events[1].Action)
	s.Equal(audit.OutcomeFailure, events[1].Outcome)
	s.Equal("denied", events[1].Detail)
}
