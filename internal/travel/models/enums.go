package models

// Enumerated vocabularies for the Travel Profile v2 schema. The remote
// validator rejects values outside these sets, so the write path checks
// IsValid before any network call; the read path uses the Parse helpers and
// leaves unknown values unset.

// SeatPreference is the air seat position.
type SeatPreference string

const (
	SeatWindow   SeatPreference = "Window"
	SeatAisle    SeatPreference = "Aisle"
	SeatMiddle   SeatPreference = "Middle"
	SeatDontCare SeatPreference = "DontCare"
)

func (s SeatPreference) IsValid() bool {
	switch s {
	case SeatWindow, SeatAisle, SeatMiddle, SeatDontCare:
		return true
	}
	return false
}

// ParseSeatPreference returns the matching value, or "" when s is not in the
// vocabulary.
func ParseSeatPreference(s string) SeatPreference {
	if v := SeatPreference(s); v.IsValid() {
		return v
	}
	return ""
}

// SeatSection is the air seat section.
type SeatSection string

const (
	SectionBulkhead SeatSection = "Bulkhead"
	SectionForward  SeatSection = "Forward"
	SectionRear     SeatSection = "Rear"
	SectionExitRow  SeatSection = "ExitRow"
	SectionDontCare SeatSection = "DontCare"
)

func (s SeatSection) IsValid() bool {
	switch s {
	case SectionBulkhead, SectionForward, SectionRear, SectionExitRow, SectionDontCare:
		return true
	}
	return false
}

func ParseSeatSection(s string) SeatSection {
	if v := SeatSection(s); v.IsValid() {
		return v
	}
	return ""
}

// MealCode is an airline special-meal code.
type MealCode string

const (
	MealBland            MealCode = "BLML"
	MealChild            MealCode = "CHML"
	MealDiabetic         MealCode = "DBML"
	MealFruitPlatter     MealCode = "FPML"
	MealGlutenFree       MealCode = "GFML"
	MealHindu            MealCode = "HNML"
	MealBaby             MealCode = "BBML"
	MealKosher           MealCode = "KSML"
	MealLowCalorie       MealCode = "LCML"
	MealLowSalt          MealCode = "LSML"
	MealMuslim           MealCode = "MOML"
	MealNoSalt           MealCode = "NSML"
	MealNoLactose        MealCode = "NLML"
	MealPeanutFree       MealCode = "PFML"
	MealSeafood          MealCode = "SFML"
	MealVegetarianLacto  MealCode = "VLML"
	MealVegetarian       MealCode = "VGML"
	MealKosherVegetarian MealCode = "KVML"
	MealRawVegetarian    MealCode = "RVML"
	MealAsianVegetarian  MealCode = "AVML"
)

func (m MealCode) IsValid() bool {
	switch m {
	case MealBland, MealChild, MealDiabetic, MealFruitPlatter, MealGlutenFree,
		MealHindu, MealBaby, MealKosher, MealLowCalorie, MealLowSalt,
		MealMuslim, MealNoSalt, MealNoLactose, MealPeanutFree, MealSeafood,
		MealVegetarianLacto, MealVegetarian, MealKosherVegetarian,
		MealRawVegetarian, MealAsianVegetarian:
		return true
	}
	return false
}

func ParseMealCode(s string) MealCode {
	if v := MealCode(s); v.IsValid() {
		return v
	}
	return ""
}

// RoomType is the hotel room preference.
type RoomType string

const (
	RoomKing       RoomType = "King"
	RoomQueen      RoomType = "Queen"
	RoomDouble     RoomType = "Double"
	RoomTwin       RoomType = "Twin"
	RoomSingle     RoomType = "Single"
	RoomDisability RoomType = "Disability"
	RoomDontCare   RoomType = "DontCare"
)

func (r RoomType) IsValid() bool {
	switch r {
	case RoomKing, RoomQueen, RoomDouble, RoomTwin, RoomSingle, RoomDisability, RoomDontCare:
		return true
	}
	return false
}

func ParseRoomType(s string) RoomType {
	if v := RoomType(s); v.IsValid() {
		return v
	}
	return ""
}

// CarType is the rental car class.
type CarType string

const (
	CarEconomy      CarType = "Economy"
	CarCompact      CarType = "Compact"
	CarIntermediate CarType = "Intermediate"
	CarStandard     CarType = "Standard"
	CarFullSize     CarType = "FullSize"
	CarPremium      CarType = "Premium"
	CarLuxury       CarType = "Luxury"
	CarSUV          CarType = "SUV"
	CarMiniVan      CarType = "MiniVan"
	CarConvertible  CarType = "Convertible"
	CarDontCare     CarType = "DontCare"
)

func (c CarType) IsValid() bool {
	switch c {
	case CarEconomy, CarCompact, CarIntermediate, CarStandard, CarFullSize,
		CarPremium, CarLuxury, CarSUV, CarMiniVan, CarConvertible, CarDontCare:
		return true
	}
	return false
}

func ParseCarType(s string) CarType {
	if v := CarType(s); v.IsValid() {
		return v
	}
	return ""
}

// Transmission is the rental car transmission preference.
type Transmission string

const (
	TransmissionAutomatic Transmission = "Automatic"
	TransmissionManual    Transmission = "Manual"
	TransmissionDontCare  Transmission = "DontCare"
)

func (t Transmission) IsValid() bool {
	switch t {
	case TransmissionAutomatic, TransmissionManual, TransmissionDontCare:
		return true
	}
	return false
}

func ParseTransmission(s string) Transmission {
	if v := Transmission(s); v.IsValid() {
		return v
	}
	return ""
}

// SmokingPreference applies to car rentals; the hotel variant exists in the
// model but is never written (see the codec denylist).
type SmokingPreference string

const (
	SmokingNo       SmokingPreference = "NonSmoking"
	SmokingYes      SmokingPreference = "Smoking"
	SmokingDontCare SmokingPreference = "DontCare"
)

func (s SmokingPreference) IsValid() bool {
	switch s {
	case SmokingNo, SmokingYes, SmokingDontCare:
		return true
	}
	return false
}

func ParseSmokingPreference(s string) SmokingPreference {
	if v := SmokingPreference(s); v.IsValid() {
		return v
	}
	return ""
}

// VisaType is the visa entry classification from the vendor XSD.
type VisaType string

const (
	VisaUnknown         VisaType = "Unknown"
	VisaSingleEntry     VisaType = "SE"
	VisaDoubleEntry     VisaType = "DE"
	VisaMultiEntry      VisaType = "ME"
	VisaEntryStamp      VisaType = "ES"
	VisaEntryToken      VisaType = "ET"
	VisaSpecialHandling VisaType = "SH"
)

func (v VisaType) IsValid() bool {
	switch v {
	case VisaUnknown, VisaSingleEntry, VisaDoubleEntry, VisaMultiEntry,
		VisaEntryStamp, VisaEntryToken, VisaSpecialHandling:
		return true
	}
	return false
}

func ParseVisaType(s string) VisaType {
	if v := VisaType(s); v.IsValid() {
		return v
	}
	return ""
}

// ProgramFamily groups a loyalty program by travel segment.
type ProgramFamily string

const (
	ProgramAir   ProgramFamily = "Air"
	ProgramHotel ProgramFamily = "Hotel"
	ProgramCar   ProgramFamily = "Car"
	ProgramRail  ProgramFamily = "Rail"
)

func (p ProgramFamily) IsValid() bool {
	switch p {
	case ProgramAir, ProgramHotel, ProgramCar, ProgramRail:
		return true
	}
	return false
}

func ParseProgramFamily(s string) ProgramFamily {
	if v := ProgramFamily(s); v.IsValid() {
		return v
	}
	return ""
}

// VendorTypeCode is the single-letter family code the dedicated loyalty
// endpoint expects.
func (p ProgramFamily) VendorTypeCode() string {
	switch p {
	case ProgramAir:
		return "A"
	case ProgramHotel:
		return "H"
	case ProgramCar:
		return "C"
	case ProgramRail:
		return "R"
	}
	return ""
}

// PhoneType classifies a telephone entry.
type PhoneType string

const (
	PhoneHome  PhoneType = "Home"
	PhoneWork  PhoneType = "Work"
	PhoneCell  PhoneType = "Cell"
	PhoneFax   PhoneType = "Fax"
	PhonePager PhoneType = "Pager"
	PhoneOther PhoneType = "Other"
)

func (p PhoneType) IsValid() bool {
	switch p {
	case PhoneHome, PhoneWork, PhoneCell, PhoneFax, PhonePager, PhoneOther:
		return true
	}
	return false
}

func ParsePhoneType(s string) PhoneType {
	if v := PhoneType(s); v.IsValid() {
		return v
	}
	return ""
}

// AddressType classifies an address entry.
type AddressType string

const (
	AddressHome AddressType = "Home"
	AddressWork AddressType = "Work"
)

func (a AddressType) IsValid() bool {
	return a == AddressHome || a == AddressWork
}

func ParseAddressType(s string) AddressType {
	if v := AddressType(s); v.IsValid() {
		return v
	}
	return ""
}

// EmailType classifies an email entry in the travel profile.
type EmailType string

const (
	EmailBusiness       EmailType = "Business"
	EmailPersonal       EmailType = "Personal"
	EmailSupervisor     EmailType = "Supervisor"
	EmailTravelArranger EmailType = "TravelArranger"
	EmailBusiness2      EmailType = "Business2"
	EmailOther1         EmailType = "Other1"
	EmailOther2         EmailType = "Other2"
)

func (e EmailType) IsValid() bool {
	switch e {
	case EmailBusiness, EmailPersonal, EmailSupervisor, EmailTravelArranger,
		EmailBusiness2, EmailOther1, EmailOther2:
		return true
	}
	return false
}

func ParseEmailType(s string) EmailType {
	if v := EmailType(s); v.IsValid() {
		return v
	}
	return ""
}

// Action is the document root action attribute.
type Action string

const (
	ActionCreate Action = "Create"
	ActionUpdate Action = "Update"
)

// ProfileStatus is the state of a profile in summary listings.
type ProfileStatus string

const (
	StatusActive   ProfileStatus = "Active"
	StatusInactive ProfileStatus = "Inactive"
)
