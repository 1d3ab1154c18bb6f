package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"time"

	"travelgate/internal/travel/models"
)

// Decoder parses Travel Profile v2 documents. Decoding is tolerant: unknown
// enum text and malformed dates leave the field unset (logged at debug),
// because the server vocabulary can grow ahead of this client.
type Decoder struct {
	log *slog.Logger
}

func NewDecoder(log *slog.Logger) *Decoder {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Decoder{log: log}
}

type profileXML struct {
	XMLName                xml.Name
	LoginID                string              `xml:"LoginId,attr"`
	General                *generalXML         `xml:"General"`
	EmergencyContacts      []emergencyXML      `xml:"EmergencyContact"`
	Telephones             []telephoneXML      `xml:"Telephones>Telephone"`
	Addresses              []addressXML        `xml:"Addresses>Address"`
	NationalIDs            []nationalIDXML     `xml:"NationalIDs>NationalID"`
	DriversLicenses        []licenseXML        `xml:"DriversLicenses>DriversLicense"`
	HasNoPassport          string              `xml:"HasNoPassport"`
	Passports              []passportXML       `xml:"Passports>Passport"`
	Visas                  []visaXML           `xml:"Visas>Visa"`
	EmailAddresses         []emailXML          `xml:"EmailAddresses>EmailAddress"`
	RatePreferences        *ratePreferencesXML `xml:"RatePreferences"`
	DiscountCodes          []discountXML       `xml:"DiscountCodes>DiscountCode"`
	Air                    *airXML             `xml:"Air"`
	Rail                   *railXML            `xml:"Rail"`
	Car                    *carXML             `xml:"Car"`
	Hotel                  *hotelXML           `xml:"Hotel"`
	CustomFields           []customFieldXML    `xml:"CustomFields>CustomField"`
	TSA                    *tsaXML             `xml:"TSAInfo"`
	UnusedTickets          []ticketXML         `xml:"UnusedTickets>UnusedTicket"`
	SouthwestUnusedTickets []ticketXML         `xml:"SouthwestUnusedTickets>UnusedTicket"`
	Memberships            []membershipXML     `xml:"AdvantageMemberships>Membership"`
}

type generalXML struct {
	NamePrefix        string `xml:"NamePrefix"`
	FirstName         string `xml:"FirstName"`
	MiddleName        string `xml:"MiddleName"`
	LastName          string `xml:"LastName"`
	NameSuffix        string `xml:"NameSuffix"`
	PreferredName     string `xml:"PreferredName"`
	JobTitle          string `xml:"JobTitle"`
	CompanyEmployeeID string `xml:"CompanyEmployeeID"`
	PreferredLanguage string `xml:"PreferredLanguage"`
	RuleClass         string `xml:"RuleClass"`
	TravelConfigID    string `xml:"TravelConfigID"`
	GDSProfileName    string `xml:"GDSProfileName"`
	SabreProfileID    string `xml:"SabreProfileId"`
}

type emergencyXML struct {
	Name         string      `xml:"Name"`
	Relationship string      `xml:"Relationship"`
	Phone        string      `xml:"Phone"`
	MobilePhone  string      `xml:"MobilePhone"`
	Email        string      `xml:"Email"`
	Address      *addressXML `xml:"Address"`
}

type telephoneXML struct {
	Type        string `xml:"Type,attr"`
	CountryCode string `xml:"CountryCode"`
	PhoneNumber string `xml:"PhoneNumber"`
	Extension   string `xml:"Extension"`
}

type addressXML struct {
	Type          string `xml:"Type,attr"`
	Street        string `xml:"Street"`
	City          string `xml:"City"`
	StateProvince string `xml:"StateProvince"`
	PostalCode    string `xml:"PostalCode"`
	CountryCode   string `xml:"CountryCode"`
}

type nationalIDXML struct {
	Number         string `xml:"NationalIDNumber"`
	IssuingCountry string `xml:"IssuingCountry"`
}

type licenseXML struct {
	Number         string `xml:"DriversLicenseNumber"`
	IssuingCountry string `xml:"IssuingCountry"`
	IssuingState   string `xml:"IssuingState"`
}

type passportXML struct {
	Number       string `xml:"PassportNumber"`
	Nationality  string `xml:"PassportNationality"`
	IssueCountry string `xml:"PassportCountryIssued"`
	DateIssued   string `xml:"PassportDateIssued"`
	Expiration   string `xml:"PassportExpiration"`
	Primary      string `xml:"Primary"`
}

type visaXML struct {
	Nationality   string `xml:"VisaNationality"`
	Number        string `xml:"VisaNumber"`
	Type          string `xml:"VisaType"`
	DateIssued    string `xml:"VisaDateIssued"`
	Expiration    string `xml:"VisaExpiration"`
	CountryIssued string `xml:"VisaCountryIssued"`
}

type emailXML struct {
	Type    string `xml:"Type,attr"`
	Address string `xml:",chardata"`
}

type ratePreferencesXML struct {
	AAARate      string `xml:"AAARate"`
	AARPRate     string `xml:"AARPRate"`
	GovtRate     string `xml:"GovtRate"`
	MilitaryRate string `xml:"MilitaryRate"`
}

type discountXML struct {
	Vendor string `xml:"Vendor,attr"`
	Code   string `xml:",chardata"`
}

type airXML struct {
	Seat *struct {
		InterRowPositionCode string `xml:"InterRowPositionCode"`
		SectionPositionCode  string `xml:"SectionPositionCode"`
	} `xml:"Seat"`
	MealCode    string `xml:"MealCode"`
	MealsNested string `xml:"Meals>MealCode"`
	HomeAirport string `xml:"HomeAirport"`
	AirOther    string `xml:"AirOther"`
}

type railXML struct {
	Seat             string `xml:"Seat"`
	Coach            string `xml:"Coach"`
	NoiseComfort     string `xml:"NoiseComfort"`
	Bed              string `xml:"Bed"`
	BedCategory      string `xml:"BedCategory"`
	Berth            string `xml:"Berth"`
	Deck             string `xml:"Deck"`
	SpaceType        string `xml:"SpaceType"`
	FareSpaceComfort string `xml:"FareSpaceComfort"`
	SpecialMeals     string `xml:"SpecialMeals"`
	Contingencies    string `xml:"Contingencies"`
}

type carXML struct {
	CarType      string `xml:"CarType"`
	Transmission string `xml:"CarTransmission"`
	SmokingCode  string `xml:"CarSmokingCode"`
	GPS          string `xml:"CarGPS"`
	SkiRack      string `xml:"CarSkiRack"`
}

type hotelXML struct {
	RoomType           string `xml:"RoomType"`
	HotelOther         string `xml:"HotelOther"`
	SmokingCode        string `xml:"SmokingCode"`
	PreferRestaurant   string `xml:"PreferRestaraunt"`
	PreferFoamPillows  string `xml:"PreferFoamPillows"`
	PreferCrib         string `xml:"PreferCrib"`
	PreferRollawayBed  string `xml:"PreferRollawayBed"`
	PreferGym          string `xml:"PreferGym"`
	PreferPool         string `xml:"PreferPool"`
	PreferRoomService  string `xml:"PreferRoomService"`
	PreferEarlyCheckIn string `xml:"PreferEarlyCheckIn"`
}

type customFieldXML struct {
	ID    string `xml:"ID,attr"`
	Name  string `xml:"Name,attr"`
	Value string `xml:",chardata"`
}

type tsaXML struct {
	Gender         string `xml:"Gender"`
	DateOfBirth    string `xml:"DateOfBirth"`
	NoMiddleName   string `xml:"NoMiddleName"`
	PreCheckNumber string `xml:"PreCheckNumber"`
	RedressNumber  string `xml:"RedressNumber"`
}

type ticketXML struct {
	TicketNumber string `xml:"TicketNumber"`
	AirlineCode  string `xml:"AirlineCode"`
	Amount       string `xml:"Amount"`
	Currency     string `xml:"Currency"`
}

type membershipXML struct {
	VendorCode     string `xml:"VendorCode"`
	VendorType     string `xml:"VendorType"`
	ProgramNumber  string `xml:"ProgramNumber"`
	ProgramCode    string `xml:"ProgramCode"`
	ExpirationDate string `xml:"ExpirationDate"`
	Status         string `xml:"Status"`
}

// Profile parses a full profile document.
func (d *Decoder) Profile(data []byte) (*models.TravelProfile, error) {
	var doc profileXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profile document: %w", err)
	}

	p := &models.TravelProfile{LoginID: doc.LoginID}

	if doc.General != nil {
		p.General = models.General{
			NamePrefix:        doc.General.NamePrefix,
			FirstName:         doc.General.FirstName,
			MiddleName:        doc.General.MiddleName,
			LastName:          doc.General.LastName,
			NameSuffix:        doc.General.NameSuffix,
			PreferredName:     doc.General.PreferredName,
			JobTitle:          doc.General.JobTitle,
			CompanyEmployeeID: doc.General.CompanyEmployeeID,
			PreferredLanguage: doc.General.PreferredLanguage,
			RuleClass:         doc.General.RuleClass,
			TravelConfigID:    doc.General.TravelConfigID,
			GDSProfileName:    doc.General.GDSProfileName,
			SabreProfileID:    doc.General.SabreProfileID,
		}
	}

	if len(doc.EmergencyContacts) > 0 {
		c := doc.EmergencyContacts[0]
		contact := &models.EmergencyContact{
			Name:         c.Name,
			Relationship: c.Relationship,
			Phone:        c.Phone,
			MobilePhone:  c.MobilePhone,
			Email:        c.Email,
		}
		if c.Address != nil {
			contact.Street = c.Address.Street
			contact.City = c.Address.City
			contact.State = c.Address.StateProvince
			contact.PostalCode = c.Address.PostalCode
			contact.CountryCode = c.Address.CountryCode
		}
		p.EmergencyContact = contact
	}

	for _, t := range doc.Telephones {
		p.Telephones = append(p.Telephones, models.Telephone{
			Type:        d.phoneType(t.Type),
			CountryCode: t.CountryCode,
			PhoneNumber: t.PhoneNumber,
			Extension:   t.Extension,
		})
	}

	for _, a := range doc.Addresses {
		p.Addresses = append(p.Addresses, models.Address{
			Type:          d.addressType(a.Type),
			Street:        a.Street,
			City:          a.City,
			StateProvince: a.StateProvince,
			PostalCode:    a.PostalCode,
			CountryCode:   a.CountryCode,
		})
	}

	for _, id := range doc.NationalIDs {
		p.NationalIDs = append(p.NationalIDs, models.NationalID{
			IDNumber:    id.Number,
			CountryCode: id.IssuingCountry,
		})
	}

	for _, l := range doc.DriversLicenses {
		p.DriversLicenses = append(p.DriversLicenses, models.DriversLicense{
			Number:         l.Number,
			IssuingCountry: l.IssuingCountry,
			IssuingState:   l.IssuingState,
		})
	}

	p.HasNoPassport = doc.HasNoPassport == "true"

	for _, pp := range doc.Passports {
		p.Passports = append(p.Passports, models.Passport{
			Number:       pp.Number,
			Nationality:  pp.Nationality,
			IssueCountry: pp.IssueCountry,
			IssueDate:    d.date("passport date issued", pp.DateIssued),
			Expiration:   d.date("passport expiration", pp.Expiration),
			Primary:      pp.Primary == "true",
		})
	}

	for _, v := range doc.Visas {
		visa := models.Visa{
			Nationality:   v.Nationality,
			Number:        v.Number,
			CountryIssued: v.CountryIssued,
			DateIssued:    d.date("visa date issued", v.DateIssued),
			Expiration:    d.date("visa expiration", v.Expiration),
		}
		visa.Type = models.ParseVisaType(v.Type)
		if visa.Type == "" && v.Type != "" {
			d.log.Debug("unknown visa type", "value", v.Type)
		}
		p.Visas = append(p.Visas, visa)
	}

	for _, e := range doc.EmailAddresses {
		p.EmailAddresses = append(p.EmailAddresses, models.EmailAddress{
			Type:    d.emailType(e.Type),
			Address: e.Address,
		})
	}

	if doc.RatePreferences != nil {
		p.RatePreferences = models.RatePreferences{
			AAARate:      doc.RatePreferences.AAARate == "true",
			AARPRate:     doc.RatePreferences.AARPRate == "true",
			GovtRate:     doc.RatePreferences.GovtRate == "true",
			MilitaryRate: doc.RatePreferences.MilitaryRate == "true",
		}
	}

	for _, c := range doc.DiscountCodes {
		p.DiscountCodes = append(p.DiscountCodes, models.DiscountCode{
			Vendor: c.Vendor,
			Code:   c.Code,
		})
	}

	if doc.Air != nil {
		air := &models.AirPreferences{
			HomeAirport: doc.Air.HomeAirport,
			AirOther:    doc.Air.AirOther,
		}
		if doc.Air.Seat != nil {
			air.SeatPreference = models.ParseSeatPreference(doc.Air.Seat.InterRowPositionCode)
			if air.SeatPreference == "" && doc.Air.Seat.InterRowPositionCode != "" {
				d.log.Debug("unknown seat preference", "value", doc.Air.Seat.InterRowPositionCode)
			}
			air.SeatSection = models.ParseSeatSection(doc.Air.Seat.SectionPositionCode)
			if air.SeatSection == "" && doc.Air.Seat.SectionPositionCode != "" {
				d.log.Debug("unknown seat section", "value", doc.Air.Seat.SectionPositionCode)
			}
		}
		// Some responses nest the meal code under Meals.
		meal := doc.Air.MealCode
		if meal == "" {
			meal = doc.Air.MealsNested
		}
		air.MealPreference = models.ParseMealCode(meal)
		if air.MealPreference == "" && meal != "" {
			d.log.Debug("unknown meal code", "value", meal)
		}
		p.Air = air
	}

	if doc.Rail != nil {
		p.Rail = &models.RailPreferences{
			Seat:             doc.Rail.Seat,
			Coach:            doc.Rail.Coach,
			NoiseComfort:     doc.Rail.NoiseComfort,
			Bed:              doc.Rail.Bed,
			BedCategory:      doc.Rail.BedCategory,
			Berth:            doc.Rail.Berth,
			Deck:             doc.Rail.Deck,
			SpaceType:        doc.Rail.SpaceType,
			FareSpaceComfort: doc.Rail.FareSpaceComfort,
			SpecialMeals:     doc.Rail.SpecialMeals,
			Contingencies:    doc.Rail.Contingencies,
		}
	}

	if doc.Car != nil {
		p.Car = &models.CarPreferences{
			CarType:      models.ParseCarType(doc.Car.CarType),
			Transmission: models.ParseTransmission(doc.Car.Transmission),
			SmokingCode:  models.ParseSmokingPreference(doc.Car.SmokingCode),
			GPS:          doc.Car.GPS == "true",
			SkiRack:      doc.Car.SkiRack == "true",
		}
	}

	if doc.Hotel != nil {
		// SmokingCode and PreferRestaraunt arrive on reads even though they
		// are rejected on writes.
		p.Hotel = &models.HotelPreferences{
			RoomType:           models.ParseRoomType(doc.Hotel.RoomType),
			HotelOther:         doc.Hotel.HotelOther,
			SmokingCode:        models.ParseSmokingPreference(doc.Hotel.SmokingCode),
			PreferRestaurant:   doc.Hotel.PreferRestaurant == "true",
			PreferFoamPillows:  doc.Hotel.PreferFoamPillows == "true",
			PreferCrib:         doc.Hotel.PreferCrib == "true",
			PreferRollawayBed:  doc.Hotel.PreferRollawayBed == "true",
			PreferGym:          doc.Hotel.PreferGym == "true",
			PreferPool:         doc.Hotel.PreferPool == "true",
			PreferRoomService:  doc.Hotel.PreferRoomService == "true",
			PreferEarlyCheckIn: doc.Hotel.PreferEarlyCheckIn == "true",
		}
	}

	for _, f := range doc.CustomFields {
		// Reads carry the field id in the ID attribute, writes in Name.
		id := f.ID
		if id == "" {
			id = f.Name
		}
		p.CustomFields = append(p.CustomFields, models.CustomField{
			ID:    id,
			Name:  f.Name,
			Value: f.Value,
		})
	}

	if doc.TSA != nil {
		p.TSA = &models.TSAInfo{
			Gender:         doc.TSA.Gender,
			DateOfBirth:    d.date("tsa date of birth", doc.TSA.DateOfBirth),
			NoMiddleName:   doc.TSA.NoMiddleName == "true",
			PreCheckNumber: doc.TSA.PreCheckNumber,
			RedressNumber:  doc.TSA.RedressNumber,
		}
	}

	for _, t := range doc.UnusedTickets {
		p.UnusedTickets = append(p.UnusedTickets, models.UnusedTicket(t))
	}
	for _, t := range doc.SouthwestUnusedTickets {
		p.SouthwestUnusedTickets = append(p.SouthwestUnusedTickets, models.UnusedTicket(t))
	}

	for _, m := range doc.Memberships {
		family := models.ParseProgramFamily(m.VendorType)
		if m.VendorCode == "" || family == "" || m.ProgramNumber == "" {
			d.log.Debug("dropping incomplete loyalty membership",
				"vendor_code", m.VendorCode,
				"vendor_type", m.VendorType,
			)
			continue
		}
		p.LoyaltyPrograms = append(p.LoyaltyPrograms, models.LoyaltyProgram{
			VendorCode:    m.VendorCode,
			Family:        family,
			ProgramNumber: m.ProgramNumber,
			ProgramCode:   m.ProgramCode,
			Expiration:    d.date("membership expiration", m.ExpirationDate),
			Status:        m.Status,
		})
	}

	return p, nil
}

type summaryPageXML struct {
	Metadata struct {
		Paging struct {
			TotalPages      int    `xml:"TotalPages"`
			TotalItems      int    `xml:"TotalItems"`
			Page            int    `xml:"Page"`
			ItemsPerPage    int    `xml:"ItemsPerPage"`
			PreviousPageURL string `xml:"PreviousPageURL"`
			NextPageURL     string `xml:"NextPageURL"`
		} `xml:"Paging"`
	} `xml:"Metadata"`
	Data struct {
		Summaries []struct {
			Status          string `xml:"Status"`
			LoginID         string `xml:"LoginID"`
			XMLSyncID       string `xml:"XmlProfileSyncID"`
			LastModifiedUTC string `xml:"ProfileLastModifiedUTC"`
		} `xml:"ProfileSummary"`
	} `xml:"Data"`
}

// SummaryTimeLayout is the timestamp format of summary listings.
const SummaryTimeLayout = "2006-01-02T15:04:05"

// Summaries parses one page of the profile summary listing.
func (d *Decoder) Summaries(data []byte) (*models.SummaryPage, error) {
	var doc summaryPageXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse summary document: %w", err)
	}

	page := &models.SummaryPage{
		Paging: models.Paging{
			TotalPages:      doc.Metadata.Paging.TotalPages,
			TotalItems:      doc.Metadata.Paging.TotalItems,
			Page:            doc.Metadata.Paging.Page,
			ItemsPerPage:    doc.Metadata.Paging.ItemsPerPage,
			PreviousPageURL: doc.Metadata.Paging.PreviousPageURL,
			NextPageURL:     doc.Metadata.Paging.NextPageURL,
		},
	}

	for _, s := range doc.Data.Summaries {
		summary := models.ProfileSummary{
			LoginID:   s.LoginID,
			XMLSyncID: s.XMLSyncID,
			Status:    models.ProfileStatus(s.Status),
		}
		if summary.Status != models.StatusActive && summary.Status != models.StatusInactive {
			summary.Status = models.StatusActive
		}
		if s.LastModifiedUTC != "" {
			if t, err := parseSummaryTime(s.LastModifiedUTC); err == nil {
				summary.LastModifiedUTC = t
			} else {
				d.log.Debug("unparseable summary timestamp", "value", s.LastModifiedUTC)
			}
		}
		page.Summaries = append(page.Summaries, summary)
	}

	return page, nil
}

func parseSummaryTime(s string) (time.Time, error) {
	return time.Parse(SummaryTimeLayout, s)
}

func (d *Decoder) date(field, s string) models.Date {
	if s == "" {
		return models.Date{}
	}
	parsed, err := models.ParseDate(s)
	if err != nil {
		d.log.Debug("unparseable date", "field", field, "value", s)
		return models.Date{}
	}
	return parsed
}

func (d *Decoder) phoneType(s string) models.PhoneType {
	t := models.ParsePhoneType(s)
	if t == "" && s != "" {
		d.log.Debug("unknown phone type", "value", s)
	}
	return t
}

func (d *Decoder) addressType(s string) models.AddressType {
	t := models.ParseAddressType(s)
	if t == "" && s != "" {
		d.log.Debug("unknown address type", "value", s)
	}
	return t
}

func (d *Decoder) emailType(s string) models.EmailType {
	t := models.ParseEmailType(s)
	if t == "" && s != "" {
		d.log.Debug("unknown email type", "value", s)
	}
	return t
}
