package codec

import (
	"fmt"

	"travelgate/internal/travel/models"
)

// groupOrder is the element order the vendor XSD mandates for the travel
// family. Groups are emitted in this order no matter how the caller filled
// the profile.
var groupOrder = []models.FieldGroup{
	models.GroupGeneral,
	models.GroupEmergencyContact,
	models.GroupTelephones,
	models.GroupAddresses,
	models.GroupNationalIDs,
	models.GroupDriversLicenses,
	models.GroupPassports, // HasNoPassport is emitted just before this group
	models.GroupVisas,
	models.GroupEmailAddresses,
	models.GroupRatePreferences,
	models.GroupAir,
	models.GroupRail,
	models.GroupCar,
	models.GroupHotel,
	models.GroupCustomFields,
	models.GroupTSA,
	models.GroupUnusedTickets,
	models.GroupSouthwestTickets,
	models.GroupLoyalty,
}

// createGroups is the prefix subset the create action accepts. Anything
// later in the schema fails remote validation during creation and has to be
// applied with a follow-up update.
var createGroups = map[models.FieldGroup]bool{
	models.GroupGeneral:          true,
	models.GroupEmergencyContact: true,
	models.GroupTelephones:       true,
	models.GroupAddresses:        true,
}

// EncodeProfile renders a profile document for the given action. An empty
// groups slice means every populated group; otherwise only the named groups
// are emitted, still in schema order. DiscountCodes, unset groups, and the
// write-denylisted fields are never serialized.
func EncodeProfile(p *models.TravelProfile, action models.Action, groups []models.FieldGroup) ([]byte, error) {
	if p.LoginID == "" {
		return nil, fmt.Errorf("login id is required")
	}

	want := func(g models.FieldGroup) bool {
		if action == models.ActionCreate && !createGroups[g] {
			return false
		}
		if len(groups) == 0 {
			return true
		}
		for _, sel := range groups {
			if sel == g {
				return true
			}
		}
		return false
	}

	root := newElement("ProfileResponse",
		attr("Action", string(action)),
		attr("LoginId", p.LoginID),
	)

	for _, g := range groupOrder {
		if !want(g) {
			continue
		}
		switch g {
		case models.GroupGeneral:
			encodeGeneral(root, &p.General)
		case models.GroupEmergencyContact:
			encodeEmergencyContact(root, p.EmergencyContact)
		case models.GroupTelephones:
			encodeTelephones(root, p.Telephones)
		case models.GroupAddresses:
			encodeAddresses(root, p.Addresses)
		case models.GroupNationalIDs:
			encodeNationalIDs(root, p.NationalIDs)
		case models.GroupDriversLicenses:
			encodeDriversLicenses(root, p.DriversLicenses)
		case models.GroupPassports:
			if p.HasNoPassport {
				root.leaf("HasNoPassport", "true")
			}
			encodePassports(root, p.Passports)
		case models.GroupVisas:
			encodeVisas(root, p.Visas)
		case models.GroupEmailAddresses:
			encodeEmails(root, p.EmailAddresses)
		case models.GroupRatePreferences:
			encodeRatePreferences(root, p.RatePreferences)
		case models.GroupAir:
			encodeAir(root, p.Air)
		case models.GroupRail:
			encodeRail(root, p.Rail)
		case models.GroupCar:
			encodeCar(root, p.Car)
		case models.GroupHotel:
			encodeHotel(root, p.Hotel)
		case models.GroupCustomFields:
			encodeCustomFields(root, p.CustomFields)
		case models.GroupTSA:
			encodeTSA(root, p.TSA)
		case models.GroupUnusedTickets:
			encodeTickets(root, "UnusedTickets", p.UnusedTickets)
		case models.GroupSouthwestTickets:
			encodeTickets(root, "SouthwestUnusedTickets", p.SouthwestUnusedTickets)
		case models.GroupLoyalty:
			encodeMemberships(root, p.LoyaltyPrograms)
		}
	}

	// Password closes the create document.
	if action == models.ActionCreate && p.Password != "" {
		root.leaf("Password", p.Password)
	}

	return render(root)
}

func encodeGeneral(root *element, g *models.General) {
	if *g == (models.General{}) {
		return
	}
	gen := root.child("General")
	gen.leafIf("NamePrefix", g.NamePrefix)
	gen.leafIf("FirstName", g.FirstName)
	gen.leafIf("MiddleName", g.MiddleName)
	gen.leafIf("LastName", g.LastName)
	gen.leafIf("NameSuffix", g.NameSuffix)
	gen.leafIf("PreferredName", g.PreferredName)
	gen.leafIf("JobTitle", g.JobTitle)
	gen.leafIf("CompanyEmployeeID", g.CompanyEmployeeID)
	gen.leafIf("PreferredLanguage", g.PreferredLanguage)
	gen.leafIf("RuleClass", g.RuleClass)
	gen.leafIf("TravelConfigID", g.TravelConfigID)
	gen.leafIf("GDSProfileName", g.GDSProfileName)
	gen.leafIf("SabreProfileId", g.SabreProfileID)
}

func encodeEmergencyContact(root *element, c *models.EmergencyContact) {
	if c == nil {
		return
	}
	// Phone, MobilePhone, and Email are rejected by the remote validator on
	// write and stay off the wire.
	elem := root.child("EmergencyContact")
	elem.leafIf("Name", c.Name)
	elem.leafIf("Relationship", c.Relationship)
	if c.Street != "" || c.City != "" || c.State != "" || c.PostalCode != "" || c.CountryCode != "" {
		addr := elem.child("Address")
		addr.leafIf("Street", c.Street)
		addr.leafIf("City", c.City)
		addr.leafIf("StateProvince", c.State)
		addr.leafIf("PostalCode", c.PostalCode)
		addr.leafIf("CountryCode", c.CountryCode)
	}
}

func encodeTelephones(root *element, phones []models.Telephone) {
	if len(phones) == 0 {
		return
	}
	wrap := root.child("Telephones")
	for _, p := range phones {
		elem := wrap.child("Telephone", attr("Type", string(p.Type)))
		elem.leafIf("CountryCode", p.CountryCode)
		elem.leafIf("PhoneNumber", p.PhoneNumber)
		elem.leafIf("Extension", p.Extension)
	}
}

func encodeAddresses(root *element, addrs []models.Address) {
	if len(addrs) == 0 {
		return
	}
	wrap := root.child("Addresses")
	for _, a := range addrs {
		elem := wrap.child("Address", attr("Type", string(a.Type)))
		elem.leafIf("Street", a.Street)
		elem.leafIf("City", a.City)
		elem.leafIf("StateProvince", a.StateProvince)
		elem.leafIf("PostalCode", a.PostalCode)
		elem.leafIf("CountryCode", a.CountryCode)
	}
}

func encodeNationalIDs(root *element, ids []models.NationalID) {
	if len(ids) == 0 {
		return
	}
	wrap := root.child("NationalIDs")
	for _, id := range ids {
		elem := wrap.child("NationalID")
		elem.leaf("NationalIDNumber", id.IDNumber)
		elem.leaf("IssuingCountry", id.CountryCode)
	}
}

func encodeDriversLicenses(root *element, licenses []models.DriversLicense) {
	if len(licenses) == 0 {
		return
	}
	wrap := root.child("DriversLicenses")
	for _, l := range licenses {
		elem := wrap.child("DriversLicense")
		elem.leaf("DriversLicenseNumber", l.Number)
		elem.leaf("IssuingCountry", l.IssuingCountry)
		elem.leafIf("IssuingState", l.IssuingState)
	}
}

func encodePassports(root *element, passports []models.Passport) {
	if len(passports) == 0 {
		return
	}
	// Primary is server-assigned and never written.
	wrap := root.child("Passports")
	for _, p := range passports {
		elem := wrap.child("Passport")
		elem.leaf("PassportNumber", p.Number)
		elem.leaf("PassportNationality", p.Nationality)
		elem.leaf("PassportCountryIssued", p.IssueCountry)
		elem.leafIf("PassportDateIssued", p.IssueDate.String())
		elem.leafIf("PassportExpiration", p.Expiration.String())
	}
}

func encodeVisas(root *element, visas []models.Visa) {
	if len(visas) == 0 {
		return
	}
	wrap := root.child("Visas")
	for _, v := range visas {
		elem := wrap.child("Visa")
		elem.leaf("VisaNationality", v.Nationality)
		elem.leaf("VisaNumber", v.Number)
		elem.leaf("VisaType", string(v.Type))
		elem.leafIf("VisaDateIssued", v.DateIssued.String())
		elem.leafIf("VisaExpiration", v.Expiration.String())
		elem.leaf("VisaCountryIssued", v.CountryIssued)
	}
}

func encodeEmails(root *element, emails []models.EmailAddress) {
	if len(emails) == 0 {
		return
	}
	wrap := root.child("EmailAddresses")
	for _, e := range emails {
		elem := wrap.child("EmailAddress", attr("Type", string(e.Type)))
		elem.text = e.Address
	}
}

func encodeRatePreferences(root *element, r models.RatePreferences) {
	if r.IsZero() {
		return
	}
	// All four flags go out on every write so a cleared flag actually clears.
	elem := root.child("RatePreferences")
	elem.leaf("AAARate", boolText(r.AAARate))
	elem.leaf("AARPRate", boolText(r.AARPRate))
	elem.leaf("GovtRate", boolText(r.GovtRate))
	elem.leaf("MilitaryRate", boolText(r.MilitaryRate))
}

func encodeAir(root *element, a *models.AirPreferences) {
	if a == nil || *a == (models.AirPreferences{}) {
		return
	}
	elem := root.child("Air")
	// The schema wants Seat whenever Air exists, even if only seat-unrelated
	// fields such as HomeAirport are populated.
	seat := elem.child("Seat")
	seat.leafIf("InterRowPositionCode", string(a.SeatPreference))
	seat.leafIf("SectionPositionCode", string(a.SeatSection))
	elem.leafIf("MealCode", string(a.MealPreference))
	elem.leafIf("HomeAirport", a.HomeAirport)
	elem.leafIf("AirOther", a.AirOther)
}

func encodeRail(root *element, r *models.RailPreferences) {
	if r == nil || *r == (models.RailPreferences{}) {
		return
	}
	elem := root.child("Rail")
	elem.leafIf("Seat", r.Seat)
	elem.leafIf("Coach", r.Coach)
	elem.leafIf("NoiseComfort", r.NoiseComfort)
	elem.leafIf("Bed", r.Bed)
	elem.leafIf("BedCategory", r.BedCategory)
	elem.leafIf("Berth", r.Berth)
	elem.leafIf("Deck", r.Deck)
	elem.leafIf("SpaceType", r.SpaceType)
	elem.leafIf("FareSpaceComfort", r.FareSpaceComfort)
	elem.leafIf("SpecialMeals", r.SpecialMeals)
	elem.leafIf("Contingencies", r.Contingencies)
}

func encodeCar(root *element, c *models.CarPreferences) {
	if c == nil || *c == (models.CarPreferences{}) {
		return
	}
	elem := root.child("Car")
	elem.leafIf("CarType", string(c.CarType))
	elem.leafIf("CarTransmission", string(c.Transmission))
	elem.leafIf("CarSmokingCode", string(c.SmokingCode))
	if c.GPS {
		elem.leaf("CarGPS", "true")
	}
	if c.SkiRack {
		elem.leaf("CarSkiRack", "true")
	}
}

func encodeHotel(root *element, h *models.HotelPreferences) {
	if h == nil {
		return
	}
	// SmokingCode and PreferRestaraunt fail remote validation on write, so
	// they alone do not justify a Hotel element.
	writable := *h
	writable.SmokingCode = ""
	writable.PreferRestaurant = false
	if writable == (models.HotelPreferences{}) {
		return
	}
	// The empty HotelMemberships element is a schema-order anchor the
	// validator requires even though memberships themselves go through the
	// dedicated loyalty endpoint.
	elem := root.child("Hotel")
	elem.child("HotelMemberships")
	elem.leafIf("RoomType", string(h.RoomType))
	elem.leafIf("HotelOther", h.HotelOther)
	if h.PreferFoamPillows {
		elem.leaf("PreferFoamPillows", "true")
	}
	if h.PreferCrib {
		elem.leaf("PreferCrib", "true")
	}
	if h.PreferRollawayBed {
		elem.leaf("PreferRollawayBed", "true")
	}
	if h.PreferGym {
		elem.leaf("PreferGym", "true")
	}
	if h.PreferPool {
		elem.leaf("PreferPool", "true")
	}
	if h.PreferRoomService {
		elem.leaf("PreferRoomService", "true")
	}
	if h.PreferEarlyCheckIn {
		elem.leaf("PreferEarlyCheckIn", "true")
	}
}

func encodeCustomFields(root *element, fields []models.CustomField) {
	if len(fields) == 0 {
		return
	}
	wrap := root.child("CustomFields")
	for _, f := range fields {
		elem := wrap.child("CustomField", attr("Name", f.ID))
		elem.text = f.Value
	}
}

func encodeTSA(root *element, t *models.TSAInfo) {
	if t == nil || t.IsZero() {
		return
	}
	elem := root.child("TSAInfo")
	elem.leafIf("Gender", t.Gender)
	elem.leafIf("DateOfBirth", t.DateOfBirth.String())
	// NoMiddleName is always written; the server treats absence as false.
	elem.leaf("NoMiddleName", boolText(t.NoMiddleName))
	elem.leafIf("PreCheckNumber", t.PreCheckNumber)
	elem.leafIf("RedressNumber", t.RedressNumber)
}

func encodeTickets(root *element, wrapper string, tickets []models.UnusedTicket) {
	if len(tickets) == 0 {
		return
	}
	wrap := root.child(wrapper)
	for _, t := range tickets {
		elem := wrap.child("UnusedTicket")
		elem.leaf("TicketNumber", t.TicketNumber)
		elem.leaf("AirlineCode", t.AirlineCode)
		elem.leafIf("Amount", t.Amount)
		elem.leafIf("Currency", t.Currency)
	}
}

func encodeMemberships(root *element, programs []models.LoyaltyProgram) {
	if len(programs) == 0 {
		return
	}
	wrap := root.child("AdvantageMemberships")
	for _, l := range programs {
		elem := wrap.child("Membership")
		elem.leaf("VendorCode", l.VendorCode)
		elem.leaf("VendorType", string(l.Family))
		elem.leaf("ProgramNumber", l.ProgramNumber)
		code := l.ProgramCode
		if code == "" {
			code = l.VendorCode
		}
		elem.leaf("ProgramCode", code)
		elem.leafIf("ExpirationDate", l.Expiration.String())
	}
}

// EncodeLoyalty renders the LoyaltyMembershipUpdate document for the
// dedicated Loyalty v1 endpoint, which uses single-letter vendor type codes
// and AccountNo instead of ProgramNumber.
func EncodeLoyalty(l models.LoyaltyProgram) ([]byte, error) {
	if l.VendorCode == "" {
		return nil, fmt.Errorf("vendor code is required")
	}
	if l.ProgramNumber == "" {
		return nil, fmt.Errorf("program number is required")
	}
	if !l.Family.IsValid() {
		return nil, fmt.Errorf("program family %q not in vocabulary", l.Family)
	}

	root := newElement("LoyaltyMembershipUpdate")
	elem := root.child("Membership", attr("UniqueID", string(l.Family)+" Program"))
	elem.leaf("VendorCode", l.VendorCode)
	elem.leaf("VendorType", l.Family.VendorTypeCode())
	elem.leaf("AccountNo", l.ProgramNumber)
	elem.leafIf("Status", l.Status)

	return render(root)
}
