// Package timeutil centralizes the fixed date-string formats the ledger
// persists and displays. Frames store timestamps as text so prefix search
// and ordering work the same on every driver.
package timeutil

import (
	"fmt"
	"time"
)

const (
	// TimestampLayout is the storage format for frame dates.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is the user-facing lookup prefix format.
	DateLayout = "2006-01-02"
	// MonthLayout prefixes a month's worth of frame dates.
	MonthLayout = "2006-01"

	compressedLayout = "02-01-2006"
	displayLayout    = "02/01/2006"
)

// NowTimestamp returns the current time in the storage format.
func NowTimestamp() string {
	return time.Now().Format(TimestampLayout)
}

// ParseTimestamp validates a storage-format timestamp.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(TimestampLayout, value)
}

// ValidDatePrefix reports whether value can prefix-match stored dates,
// accepting a full date or a month.
func ValidDatePrefix(value string) bool {
	if _, err := time.Parse(DateLayout, value); err == nil {
		return true
	}
	_, err := time.Parse(MonthLayout, value)
	return err == nil
}

// CurrentMonthPrefix returns the prefix matching every frame committed
// during the current calendar month.
func CurrentMonthPrefix() string {
	return time.Now().Format(MonthLayout)
}

// ToCompressed converts a stored timestamp to dd-MM-yyyy.
func ToCompressed(timestamp string) (string, error) {
	t, err := ParseTimestamp(timestamp)
	if err != nil {
		return "", err
	}
	return t.Format(compressedLayout), nil
}

// ToDisplay converts a yyyy-MM-dd date to dd/MM/yyyy.
func ToDisplay(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return t.Format(displayLayout), nil
}

// FormatSerial renders a ledger ID as a zero-padded document serial.
func FormatSerial(id int64) string {
	return fmt.Sprintf("#%010d", id)
}
