package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ModelsSuite struct {
	suite.Suite
}

func TestModelsSuite(t *testing.T) {
	suite.Run(t, new(ModelsSuite))
}

func (s *ModelsSuite) TestParseHelpers() {
	s.Run("known values round-trip", func() {
		s.Equal(SeatWindow, ParseSeatPreference("Window"))
		s.Equal(MealKosher, ParseMealCode("KSML"))
		s.Equal(RoomKing, ParseRoomType("King"))
		s.Equal(CarSUV, ParseCarType("SUV"))
		s.Equal(VisaMultiEntry, ParseVisaType("ME"))
		s.Equal(ProgramRail, ParseProgramFamily("Rail"))
		s.Equal(PhoneCell, ParsePhoneType("Cell"))
		s.Equal(AddressWork, ParseAddressType("Work"))
		s.Equal(EmailTravelArranger, ParseEmailType("TravelArranger"))
	})

	s.Run("unknown values come back empty", func() {
		s.Empty(ParseSeatPreference("CenterLeft"))
		s.Empty(ParseMealCode("XXML"))
		s.Empty(ParseProgramFamily("Cruise"))
		s.Empty(ParseAddressType("Vacation"))
	})

	s.Run("vendor type letters", func() {
		s.Equal("A", ProgramAir.VendorTypeCode())
		s.Equal("H", ProgramHotel.VendorTypeCode())
		s.Equal("C", ProgramCar.VendorTypeCode())
		s.Equal("R", ProgramRail.VendorTypeCode())
		s.Empty(ProgramFamily("Cruise").VendorTypeCode())
	})
}

func (s *ModelsSuite) TestDate() {
	s.Run("zero value is unset", func() {
		var d Date
		s.True(d.IsZero())
		s.Empty(d.String())
	})

	s.Run("parse and format", func() {
		d, err := ParseDate("2030-01-14")
		s.Require().NoError(err)
		s.Equal("2030-01-14", d.String())
	})

	s.Run("malformed input errors", func() {
		_, err := ParseDate("14/01/2030")
		s.Error(err)
	})

	s.Run("json null round-trip", func() {
		type holder struct {
			D Date `json:"d"`
		}
		data, err := json.Marshal(holder{})
		s.Require().NoError(err)
		s.JSONEq(`{"d":null}`, string(data))

		var h holder
		s.Require().NoError(json.Unmarshal([]byte(`{"d":"2026-08-23"}`), &h))
		s.Equal("2026-08-23", h.D.String())

		s.Require().NoError(json.Unmarshal([]byte(`{"d":null}`), &h))
		s.True(h.D.IsZero())
	})
}

func (s *ModelsSuite) TestProfileValidate() {
	s.Run("valid profile passes", func() {
		p := &TravelProfile{
			LoginID: "u",
			Air:     &AirPreferences{SeatPreference: SeatAisle, MealPreference: MealVegetarian},
			Car:     &CarPreferences{CarType: CarCompact},
		}
		s.NoError(p.Validate())
	})

	s.Run("every violation is reported at once", func() {
		p := &TravelProfile{
			LoginID:    "u",
			Air:        &AirPreferences{SeatPreference: "CenterLeft", MealPreference: "XXML"},
			Car:        &CarPreferences{Transmission: "Hover"},
			Telephones: []Telephone{{Type: "Satellite"}},
		}
		err := p.Validate()
		s.Require().Error(err)
		msg := err.Error()
		s.Contains(msg, "air.seat_preference")
		s.Contains(msg, "air.meal_preference")
		s.Contains(msg, "car.transmission")
		s.Contains(msg, "telephones[0].type")
	})

	s.Run("unset enums are not violations", func() {
		p := &TravelProfile{
			LoginID: "u",
			Air:     &AirPreferences{HomeAirport: "SEA"},
			Hotel:   &HotelPreferences{},
		}
		s.NoError(p.Validate())
	})
}

func (s *ModelsSuite) TestRateAndTSAZeroChecks() {
	s.True(RatePreferences{}.IsZero())
	s.False(RatePreferences{MilitaryRate: true}.IsZero())

	s.True(TSAInfo{}.IsZero())
	s.False(TSAInfo{PreCheckNumber: "123"}.IsZero())
	s.False(TSAInfo{NoMiddleName: true}.IsZero())
}
