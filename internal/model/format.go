package model

import (
	"fmt"
	"time"
)

// IDString renders an id as a zero-padded 4-digit number.
func IDString(id int) string {
	return fmt.Sprintf("%04d", id)
}

// DateString renders a date the way changelog headers expect it (DD/Mon/YYYY).
func DateString(t time.Time) string {
	return t.Format("02/Jan/2006")
}

// CompactDate renders a date for use inside file names (DDMonYYYY).
func CompactDate(t time.Time) string {
	return t.Format("02Jan2006")
}
