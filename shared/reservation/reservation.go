// Package reservation issues the short reference codes printed on bookings.
package reservation

import (
	"strings"

	"github.com/google/uuid"
)

// CodeLength is the size of the booking code column.
const CodeLength = 8

// Generate returns an upper-case hex code of CodeLength characters.
func Generate() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:CodeLength])
}
