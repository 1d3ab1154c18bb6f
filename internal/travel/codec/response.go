package codec

import "encoding/xml"

// RemoteError is a parsed vendor error body. The vendor uses several shapes;
// ParseRemoteError normalizes all of them.
type RemoteError struct {
	Code    string
	Message string
}

type errorsXML struct {
	XMLName xml.Name
	Text    string `xml:"Text"`
	Code    string `xml:"Code"`
	Error   struct {
		Text string `xml:"Text"`
		Code string `xml:"Code"`
	} `xml:"Error"`
	ErrorDescription string `xml:"ErrorDescription"`
	Chardata         string `xml:",chardata"`
}

// ParseRemoteError extracts the message and code from an error body. It
// never fails: an unparseable body yields the raw text so the server's words
// are preserved verbatim.
func ParseRemoteError(data []byte) RemoteError {
	var doc errorsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return RemoteError{Message: string(data)}
	}

	switch doc.XMLName.Local {
	case "Errors":
		if doc.Error.Text != "" {
			return RemoteError{Code: doc.Error.Code, Message: doc.Error.Text}
		}
	case "Error":
		if doc.Text != "" {
			return RemoteError{Code: doc.Code, Message: doc.Text}
		}
	}
	if doc.ErrorDescription != "" {
		return RemoteError{Message: doc.ErrorDescription}
	}
	return RemoteError{Message: "unknown error"}
}

// ParseUpdateOutcome inspects a 200-level profile write response. The
// vendor sometimes reports validation failures inside a 200 body with an
// Errors document.
func ParseUpdateOutcome(data []byte) (ok bool, message string) {
	var doc errorsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return false, "unparseable update response"
	}
	if doc.XMLName.Local == "Errors" || doc.XMLName.Local == "Error" {
		remote := ParseRemoteError(data)
		return false, remote.Message
	}
	return true, ""
}

type loyaltyResponseXML struct {
	Status           string `xml:"Status"`
	ErrorDescription string `xml:"ErrorDescription"`
}

// ParseLoyaltyOutcome reads the Loyalty v1 response body. The endpoint
// reports rejection in-band with Status ERROR rather than an HTTP error.
func ParseLoyaltyOutcome(data []byte) (ok bool, errDescription string) {
	var doc loyaltyResponseXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return false, "unparseable loyalty response"
	}
	if doc.Status == "ERROR" {
		desc := doc.ErrorDescription
		if desc == "" {
			desc = "unknown error"
		}
		return false, desc
	}
	return true, ""
}
