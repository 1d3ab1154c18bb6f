package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"travelgate/internal/travel/models"
)

type DecodeSuite struct {
	suite.Suite
	decoder *Decoder
}

func (s *DecodeSuite) SetupTest() {
	s.decoder = NewDecoder(nil)
}

func TestDecodeSuite(t *testing.T) {
	suite.Run(t, new(DecodeSuite))
}

func (s *DecodeSuite) TestRoundTrip() {
	original := fullProfile()
	original.Password = ""

	body, err := EncodeProfile(original, models.ActionUpdate, nil)
	s.Require().NoError(err)

	decoded, err := s.decoder.Profile(body)
	s.Require().NoError(err)

	s.Equal(original.LoginID, decoded.LoginID)
	s.Equal(original.General, decoded.General)

	s.Require().NotNil(decoded.EmergencyContact)
	s.Equal("John Doe", decoded.EmergencyContact.Name)
	s.Equal("Bellevue", decoded.EmergencyContact.City)

	s.Require().Len(decoded.Telephones, 1)
	s.Equal(models.PhoneCell, decoded.Telephones[0].Type)
	s.Equal("555-0100", decoded.Telephones[0].PhoneNumber)

	s.Require().Len(decoded.Passports, 1)
	s.Equal("X1234567", decoded.Passports[0].Number)
	s.True(decoded.Passports[0].IssueDate.Equal(models.NewDate(2020, 1, 15)))

	s.Require().Len(decoded.Visas, 1)
	s.Equal(models.VisaMultiEntry, decoded.Visas[0].Type)
	s.Equal("JP", decoded.Visas[0].CountryIssued)

	s.Require().NotNil(decoded.Air)
	s.Equal(models.SeatWindow, decoded.Air.SeatPreference)
	s.Equal(models.SectionForward, decoded.Air.SeatSection)
	s.Equal(models.MealVegetarian, decoded.Air.MealPreference)
	s.Equal("SEA", decoded.Air.HomeAirport)

	s.Require().NotNil(decoded.Car)
	s.Equal(models.CarIntermediate, decoded.Car.CarType)
	s.True(decoded.Car.GPS)

	s.Require().NotNil(decoded.Hotel)
	s.Equal(models.RoomKing, decoded.Hotel.RoomType)
	s.True(decoded.Hotel.PreferGym)
	s.False(decoded.Hotel.PreferCrib)

	s.Equal(original.RatePreferences, decoded.RatePreferences)

	s.Require().NotNil(decoded.TSA)
	s.Equal("Female", decoded.TSA.Gender)

	s.Require().Len(decoded.UnusedTickets, 1)
	s.Equal("0012345", decoded.UnusedTickets[0].TicketNumber)
	s.Require().Len(decoded.SouthwestUnusedTickets, 1)
	s.Equal("WN-99", decoded.SouthwestUnusedTickets[0].TicketNumber)

	s.Require().Len(decoded.LoyaltyPrograms, 1)
	s.Equal(models.ProgramAir, decoded.LoyaltyPrograms[0].Family)
	s.Equal("MP123456", decoded.LoyaltyPrograms[0].ProgramNumber)
}

func (s *DecodeSuite) TestTolerantDecoding() {
	s.Run("unknown enum text leaves the field unset", func() {
		doc := `<ProfileResponse LoginId="u">
			<Air>
				<Seat><InterRowPositionCode>CenterLeft</InterRowPositionCode></Seat>
				<MealCode>XXML</MealCode>
				<HomeAirport>SEA</HomeAirport>
			</Air>
		</ProfileResponse>`
		p, err := s.decoder.Profile([]byte(doc))
		s.Require().NoError(err)
		s.Require().NotNil(p.Air)
		s.Empty(p.Air.SeatPreference)
		s.Empty(p.Air.MealPreference)
		s.Equal("SEA", p.Air.HomeAirport)
	})

	s.Run("malformed date leaves the field unset", func() {
		doc := `<ProfileResponse LoginId="u">
			<Passports><Passport>
				<PassportNumber>X1</PassportNumber>
				<PassportNationality>US</PassportNationality>
				<PassportCountryIssued>US</PassportCountryIssued>
				<PassportExpiration>31/12/2030</PassportExpiration>
			</Passport></Passports>
		</ProfileResponse>`
		p, err := s.decoder.Profile([]byte(doc))
		s.Require().NoError(err)
		s.Require().Len(p.Passports, 1)
		s.True(p.Passports[0].Expiration.IsZero())
	})

	s.Run("meal code nested under Meals", func() {
		doc := `<ProfileResponse LoginId="u">
			<Air><Meals><MealCode>KSML</MealCode></Meals></Air>
		</ProfileResponse>`
		p, err := s.decoder.Profile([]byte(doc))
		s.Require().NoError(err)
		s.Require().NotNil(p.Air)
		s.Equal(models.MealKosher, p.Air.MealPreference)
	})

	s.Run("incomplete memberships are dropped", func() {
		doc := `<ProfileResponse LoginId="u">
			<AdvantageMemberships>
				<Membership><VendorCode>AS</VendorCode><VendorType>Air</VendorType></Membership>
				<Membership><VendorCode>HH</VendorCode><VendorType>Cruise</VendorType><ProgramNumber>1</ProgramNumber></Membership>
				<Membership><VendorCode>MR</VendorCode><VendorType>Hotel</VendorType><ProgramNumber>777</ProgramNumber></Membership>
			</AdvantageMemberships>
		</ProfileResponse>`
		p, err := s.decoder.Profile([]byte(doc))
		s.Require().NoError(err)
		s.Require().Len(p.LoyaltyPrograms, 1)
		s.Equal("MR", p.LoyaltyPrograms[0].VendorCode)
	})
}

func (s *DecodeSuite) TestReadOnlyFieldsPopulated() {
	doc := `<ProfileResponse LoginId="u">
		<EmergencyContact>
			<Name>John</Name>
			<Phone>555-1</Phone>
			<MobilePhone>555-2</MobilePhone>
			<Email>j@example.com</Email>
		</EmergencyContact>
		<Passports><Passport>
			<PassportNumber>X1</PassportNumber>
			<PassportNationality>US</PassportNationality>
			<PassportCountryIssued>US</PassportCountryIssued>
			<Primary>true</Primary>
		</Passport></Passports>
		<DiscountCodes><DiscountCode Vendor="HZ">CDP42</DiscountCode></DiscountCodes>
		<Hotel><SmokingCode>NonSmoking</SmokingCode><PreferRestaraunt>true</PreferRestaraunt></Hotel>
	</ProfileResponse>`

	p, err := s.decoder.Profile([]byte(doc))
	s.Require().NoError(err)

	s.Equal("555-1", p.EmergencyContact.Phone)
	s.Equal("555-2", p.EmergencyContact.MobilePhone)
	s.True(p.Passports[0].Primary)

	s.Require().Len(p.DiscountCodes, 1)
	s.Equal("HZ", p.DiscountCodes[0].Vendor)
	s.Equal("CDP42", p.DiscountCodes[0].Code)

	s.Equal(models.SmokingNo, p.Hotel.SmokingCode)
	s.True(p.Hotel.PreferRestaurant)
}

func (s *DecodeSuite) TestCustomFieldIDFallback() {
	s.Run("ID attribute wins", func() {
		doc := `<ProfileResponse LoginId="u">
			<CustomFields><CustomField ID="CF1" Name="Cost Center">CC-9</CustomField></CustomFields>
		</ProfileResponse>`
		p, err := s.decoder.Profile([]byte(doc))
		s.Require().NoError(err)
		s.Require().Len(p.CustomFields, 1)
		s.Equal("CF1", p.CustomFields[0].ID)
		s.Equal("CC-9", p.CustomFields[0].Value)
	})

	s.Run("Name attribute fills in when ID is absent", func() {
		doc := `<ProfileResponse LoginId="u">
			<CustomFields><CustomField Name="Cost Center">CC-9</CustomField></CustomFields>
		</ProfileResponse>`
		p, err := s.decoder.Profile([]byte(doc))
		s.Require().NoError(err)
		s.Equal("Cost Center", p.CustomFields[0].ID)
	})
}

func (s *DecodeSuite) TestSummaries() {
	doc := `<ConnectResponse>
		<Metadata><Paging>
			<TotalPages>3</TotalPages>
			<TotalItems>512</TotalItems>
			<Page>2</Page>
			<ItemsPerPage>200</ItemsPerPage>
			<NextPageURL>https://example.com/summary?Page=3</NextPageURL>
		</Paging></Metadata>
		<Data>
			<ProfileSummary>
				<Status>Active</Status>
				<LoginID>jane.doe@example.com</LoginID>
				<XmlProfileSyncID>sync-1</XmlProfileSyncID>
				<ProfileLastModifiedUTC>2026-08-01T10:30:00</ProfileLastModifiedUTC>
			</ProfileSummary>
			<ProfileSummary>
				<Status>Garbled</Status>
				<LoginID>bob@example.com</LoginID>
				<ProfileLastModifiedUTC>not-a-time</ProfileLastModifiedUTC>
			</ProfileSummary>
		</Data>
	</ConnectResponse>`

	page, err := s.decoder.Summaries([]byte(doc))
	s.Require().NoError(err)

	s.Equal(3, page.Paging.TotalPages)
	s.Equal(512, page.Paging.TotalItems)
	s.Equal(2, page.Paging.Page)
	s.Equal("https://example.com/summary?Page=3", page.Paging.NextPageURL)

	s.Require().Len(page.Summaries, 2)
	s.Equal("jane.doe@example.com", page.Summaries[0].LoginID)
	s.Equal(models.StatusActive, page.Summaries[0].Status)
	s.Equal(time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC), page.Summaries[0].LastModifiedUTC)

	// Unknown status defaults to Active; bad timestamps stay zero.
	s.Equal(models.StatusActive, page.Summaries[1].Status)
	s.True(page.Summaries[1].LastModifiedUTC.IsZero())
}

func (s *DecodeSuite) TestMalformedDocument() {
	_, err := s.decoder.Profile([]byte("<ProfileResponse"))
	s.Error(err)
	_, err = s.decoder.Summaries([]byte("{not xml}"))
	s.Error(err)
}
