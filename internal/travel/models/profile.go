// Package models defines the travel profile domain types exchanged with the
// Concur Travel Profile v2 API. Fields map one to one onto wire elements;
// zero values mean "not set" and are omitted when encoding.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldGroup names one encodable section of a travel profile. Update
// requests may restrict the document to a subset of groups; an empty set
// means "everything populated".
type FieldGroup string

const (
	GroupGeneral          FieldGroup = "general"
	GroupEmergencyContact FieldGroup = "emergency_contact"
	GroupTelephones       FieldGroup = "telephones"
	GroupAddresses        FieldGroup = "addresses"
	GroupNationalIDs      FieldGroup = "national_ids"
	GroupDriversLicenses  FieldGroup = "drivers_licenses"
	GroupPassports        FieldGroup = "passports"
	GroupVisas            FieldGroup = "visas"
	GroupEmailAddresses   FieldGroup = "email_addresses"
	GroupRatePreferences  FieldGroup = "rate_preferences"
	GroupAir              FieldGroup = "air_preferences"
	GroupRail             FieldGroup = "rail_preferences"
	GroupCar              FieldGroup = "car_preferences"
	GroupHotel            FieldGroup = "hotel_preferences"
	GroupCustomFields     FieldGroup = "custom_fields"
	GroupTSA              FieldGroup = "tsa_info"
	GroupUnusedTickets    FieldGroup = "unused_tickets"
	GroupSouthwestTickets FieldGroup = "southwest_unused_tickets"
	GroupLoyalty          FieldGroup = "loyalty_programs"
)

// General carries the name, employment, and agency fields of a profile.
type General struct {
	NamePrefix        string
	FirstName         string
	MiddleName        string
	LastName          string
	NameSuffix        string
	PreferredName     string
	JobTitle          string
	CompanyEmployeeID string
	PreferredLanguage string
	RuleClass         string
	TravelConfigID    string
	GDSProfileName    string
	SabreProfileID    string
}

// EmergencyContact is the single emergency contact of a profile. Phone,
// MobilePhone, and Email are populated on read but the remote validator
// rejects them on write, so the encoder never emits them.
type EmergencyContact struct {
	Name         string
	Relationship string
	Phone        string
	MobilePhone  string
	Email        string
	Street       string
	City         string
	State        string
	PostalCode   string
	CountryCode  string
}

// Telephone is one phone entry.
type Telephone struct {
	Type        PhoneType
	CountryCode string
	PhoneNumber string
	Extension   string
}

// Address is one postal address entry.
type Address struct {
	Type          AddressType
	Street        string
	City          string
	StateProvince string
	CountryCode   string
	PostalCode    string
}

// NationalID is a government-issued identification number.
type NationalID struct {
	IDNumber    string
	CountryCode string
}

// DriversLicense is one driving permit entry.
type DriversLicense struct {
	Number         string
	IssuingState   string
	IssuingCountry string
}

// Passport is one passport entry. Primary is populated on read but never
// written; the server assigns it.
type Passport struct {
	Number       string
	Nationality  string
	IssueCountry string
	IssueDate    Date
	Expiration   Date
	Primary      bool
}

// Visa is one travel visa entry.
type Visa struct {
	Nationality   string
	Number        string
	Type          VisaType
	CountryIssued string
	DateIssued    Date
	Expiration    Date
}

// EmailAddress is one email entry.
type EmailAddress struct {
	Type    EmailType
	Address string
}

// RatePreferences holds the qualification flags for discounted rates. All
// four are emitted on every write so clearing one actually clears it.
type RatePreferences struct {
	AAARate      bool
	AARPRate     bool
	GovtRate     bool
	MilitaryRate bool
}

// IsZero reports whether no rate flag is set.
func (r RatePreferences) IsZero() bool {
	return !r.AAARate && !r.AARPRate && !r.GovtRate && !r.MilitaryRate
}

// DiscountCode is a vendor discount entry. The server owns these; they are
// read from responses and never written back.
type DiscountCode struct {
	Vendor string
	Code   string
}

// AirPreferences holds air travel preferences.
type AirPreferences struct {
	HomeAirport    string
	SeatPreference SeatPreference
	SeatSection    SeatSection
	MealPreference MealCode
	AirOther       string
}

// RailPreferences holds rail travel preferences. The values are agency
// configured free-form codes, not a fixed vocabulary.
type RailPreferences struct {
	Seat             string
	Coach            string
	NoiseComfort     string
	Bed              string
	BedCategory      string
	Berth            string
	Deck             string
	SpaceType        string
	FareSpaceComfort string
	SpecialMeals     string
	Contingencies    string
}

// CarPreferences holds rental car preferences.
type CarPreferences struct {
	CarType      CarType
	Transmission Transmission
	SmokingCode  SmokingPreference
	GPS          bool
	SkiRack      bool
}

// HotelPreferences holds hotel preferences. SmokingCode and
// PreferRestaurant are read from responses but rejected by the remote
// validator on write, so the encoder skips them. The amenity flags are
// emitted only when true.
type HotelPreferences struct {
	RoomType           RoomType
	HotelOther         string
	SmokingCode        SmokingPreference
	PreferRestaurant   bool
	PreferFoamPillows  bool
	PreferCrib         bool
	PreferRollawayBed  bool
	PreferGym          bool
	PreferPool         bool
	PreferRoomService  bool
	PreferEarlyCheckIn bool
}

// CustomField is one company-configured profile field. Name is informational
// and comes back on reads; only ID and Value are written.
type CustomField struct {
	ID    string
	Value string
	Name  string
}

// TSAInfo holds the TSA Secure Flight fields. NoMiddleName is emitted on
// every write, set or not, because the server treats absence as false.
type TSAInfo struct {
	Gender         string
	DateOfBirth    Date
	NoMiddleName   bool
	PreCheckNumber string
	RedressNumber  string
}

// IsZero reports whether no TSA field is populated.
func (t TSAInfo) IsZero() bool {
	return t.Gender == "" && t.DateOfBirth.IsZero() && !t.NoMiddleName &&
		t.PreCheckNumber == "" && t.RedressNumber == ""
}

// UnusedTicket is an unused air ticket credit. The Southwest list reuses the
// same shape.
type UnusedTicket struct {
	TicketNumber string
	AirlineCode  string
	Amount       string
	Currency     string
}

// LoyaltyProgram is one frequent traveler membership. Embedded profile
// writes carry VendorCode, Family, ProgramNumber, ProgramCode, and
// Expiration; the dedicated loyalty endpoint additionally uses Status and
// renders Family as a single-letter code.
type LoyaltyProgram struct {
	VendorCode    string
	Family        ProgramFamily
	ProgramNumber string
	ProgramCode   string
	Expiration    Date
	Status        string
}

// TravelProfile is the full traveler record as exposed by the Travel
// Profile v2 API.
type TravelProfile struct {
	LoginID string
	Status  ProfileStatus

	// Password is accepted on create only. It never round-trips: responses
	// do not include it and updates must not send it.
	Password string

	General          General
	EmergencyContact *EmergencyContact
	Telephones       []Telephone
	Addresses        []Address
	NationalIDs      []NationalID
	DriversLicenses  []DriversLicense
	HasNoPassport    bool
	Passports        []Passport
	Visas            []Visa
	EmailAddresses   []EmailAddress
	RatePreferences  RatePreferences
	DiscountCodes    []DiscountCode
	Air              *AirPreferences
	Rail             *RailPreferences
	Car              *CarPreferences
	Hotel            *HotelPreferences
	CustomFields     []CustomField
	TSA              *TSAInfo

	UnusedTickets          []UnusedTicket
	SouthwestUnusedTickets []UnusedTicket

	LoyaltyPrograms []LoyaltyProgram
}

// ProfileSummary is one row of a profile change listing.
type ProfileSummary struct {
	LoginID         string
	XMLSyncID       string
	Status          ProfileStatus
	LastModifiedUTC time.Time
}

// Paging is the listing metadata the summary endpoint returns.
type Paging struct {
	TotalPages      int
	TotalItems      int
	Page            int
	ItemsPerPage    int
	PreviousPageURL string
	NextPageURL     string
}

// SummaryPage is one page of profile summaries.
type SummaryPage struct {
	Paging    Paging
	Summaries []ProfileSummary
}

// Validate checks every enumerated field against its vocabulary and reports
// all violations at once, so a caller can fail a write before touching the
// network.
func (p *TravelProfile) Validate() error {
	var problems []string

	add := func(field, value string) {
		problems = append(problems, fmt.Sprintf("%s: %q not in vocabulary", field, value))
	}

	if p.Air != nil {
		if p.Air.SeatPreference != "" && !p.Air.SeatPreference.IsValid() {
			add("air.seat_preference", string(p.Air.SeatPreference))
		}
		if p.Air.SeatSection != "" && !p.Air.SeatSection.IsValid() {
			add("air.seat_section", string(p.Air.SeatSection))
		}
		if p.Air.MealPreference != "" && !p.Air.MealPreference.IsValid() {
			add("air.meal_preference", string(p.Air.MealPreference))
		}
	}
	if p.Car != nil {
		if p.Car.CarType != "" && !p.Car.CarType.IsValid() {
			add("car.car_type", string(p.Car.CarType))
		}
		if p.Car.Transmission != "" && !p.Car.Transmission.IsValid() {
			add("car.transmission", string(p.Car.Transmission))
		}
		if p.Car.SmokingCode != "" && !p.Car.SmokingCode.IsValid() {
			add("car.smoking_code", string(p.Car.SmokingCode))
		}
	}
	if p.Hotel != nil {
		if p.Hotel.RoomType != "" && !p.Hotel.RoomType.IsValid() {
			add("hotel.room_type", string(p.Hotel.RoomType))
		}
	}
	for i, t := range p.Telephones {
		if t.Type != "" && !t.Type.IsValid() {
			add(fmt.Sprintf("telephones[%d].type", i), string(t.Type))
		}
	}
	for i, a := range p.Addresses {
		if a.Type != "" && !a.Type.IsValid() {
			add(fmt.Sprintf("addresses[%d].type", i), string(a.Type))
		}
	}
	for i, e := range p.EmailAddresses {
		if e.Type != "" && !e.Type.IsValid() {
			add(fmt.Sprintf("email_addresses[%d].type", i), string(e.Type))
		}
	}
	for i, v := range p.Visas {
		if v.Type != "" && !v.Type.IsValid() {
			add(fmt.Sprintf("visas[%d].type", i), string(v.Type))
		}
	}
	for i, l := range p.LoyaltyPrograms {
		if l.Family != "" && !l.Family.IsValid() {
			add(fmt.Sprintf("loyalty_programs[%d].family", i), string(l.Family))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}
