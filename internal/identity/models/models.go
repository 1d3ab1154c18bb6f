// Package models defines the Identity v4 user types. The wire format is
// SCIM 2.0 JSON: core user attributes plus the enterprise extension keyed by
// its schema URN.
package models

// SCIM schema URNs.
const (
	SchemaCoreUser       = "urn:ietf:params:scim:schemas:core:2.0:User"
	SchemaEnterpriseUser = "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"
	SchemaPatchOp        = "urn:ietf:params:scim:api:messages:2.0:PatchOp"
)

// Name is the structured name of a user.
type Name struct {
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	Formatted  string `json:"formatted,omitempty"`
}

// Email is one email entry.
type Email struct {
	Value    string `json:"value"`
	Type     string `json:"type,omitempty"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// PhoneNumber is one phone entry.
type PhoneNumber struct {
	Value   string `json:"value"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary"`
}

// Enterprise carries the enterprise extension attributes. StartDate is a
// YYYY-MM-DD calendar date.
type Enterprise struct {
	CompanyID      string `json:"companyId,omitempty"`
	EmployeeNumber string `json:"employeeNumber,omitempty"`
	StartDate      string `json:"startDate,omitempty"`
	Department     string `json:"department,omitempty"`
	CostCenter     string `json:"costCenter,omitempty"`
}

// Meta is the SCIM resource metadata block. ResourceType distinguishes User
// responses from Company responses on the /me endpoint.
type Meta struct {
	ResourceType string `json:"resourceType,omitempty"`
	Created      string `json:"created,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
}

// User is the Identity v4 user resource. ID and Meta are server-assigned.
type User struct {
	Schemas           []string      `json:"schemas,omitempty"`
	ID                string        `json:"id,omitempty"`
	ExternalID        string        `json:"externalId,omitempty"`
	UserName          string        `json:"userName"`
	DisplayName       string        `json:"displayName,omitempty"`
	Title             string        `json:"title,omitempty"`
	NickName          string        `json:"nickName,omitempty"`
	Active            bool          `json:"active"`
	PreferredLanguage string        `json:"preferredLanguage,omitempty"`
	Timezone          string        `json:"timezone,omitempty"`
	Name              *Name         `json:"name,omitempty"`
	Emails            []Email       `json:"emails,omitempty"`
	PhoneNumbers      []PhoneNumber `json:"phoneNumbers,omitempty"`
	Enterprise        *Enterprise   `json:"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User,omitempty"`
	Meta              *Meta         `json:"meta,omitempty"`
}

// PatchOperation is one SCIM PATCH operation.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// PatchRequest is the body of a SCIM PATCH call.
type PatchRequest struct {
	Schemas    []string         `json:"schemas"`
	Operations []PatchOperation `json:"Operations"`
}

// NewPatchRequest wraps operations with the PatchOp schema URN.
func NewPatchRequest(ops ...PatchOperation) PatchRequest {
	return PatchRequest{
		Schemas:    []string{SchemaPatchOp},
		Operations: ops,
	}
}

// ListResponse is a SCIM search result page.
type ListResponse struct {
	TotalResults int    `json:"totalResults"`
	Resources    []User `json:"Resources"`
}
