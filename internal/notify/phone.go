// internal/notify/phone.go
package notify

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// NormalizePhone converts a raw cell number into E.164 for Twilio.
// Returns "" when the input is not a plausible phone number, including
// email-looking strings captains paste into the wrong field.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "@") {
		return ""
	}

	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsValidNumber(num) {
		return ""
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// IsPhoneNumber reports whether raw normalizes to a deliverable number.
func IsPhoneNumber(raw string) bool {
	return NormalizePhone(raw) != ""
}
