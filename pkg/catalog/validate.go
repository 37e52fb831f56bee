package catalog

import (
	"strings"
)

// fakePatterns are substrings that mark an obviously fabricated part
// number. Hallucinated identifiers tend to read like these.
var fakePatterns = []string{
	"MAGIC", "UNICORN", "FAKE", "TEST", "QUANTUM", "SPACE", "ALIEN",
	"DRAGON", "WIZARD", "ROBOT", "CYBER", "MATRIX", "INFINITY",
}

const (
	minPartNumberLen = 4
	maxPartNumberLen = 15

	minPrice = 1.0
	maxPrice = 2000.0
)

// ValidPartNumber rejects obviously fake identifiers and anything outside
// the 4-15 alphanumeric format (dashes permitted).
func ValidPartNumber(partNumber string) bool {
	partNumber = strings.ToUpper(strings.TrimSpace(partNumber))
	if partNumber == "" {
		return false
	}

	for _, pattern := range fakePatterns {
		if strings.Contains(partNumber, pattern) {
			return false
		}
	}

	stripped := strings.ReplaceAll(partNumber, "-", "")
	if len(partNumber) < minPartNumberLen || len(partNumber) > maxPartNumberLen {
		return false
	}
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// ValidPrice bounds appliance part prices to a plausible retail range.
func ValidPrice(price float64) bool {
	return price >= minPrice && price <= maxPrice
}

// dangerousStepMarkers flag installation steps that must never be
// surfaced to a customer.
var dangerousStepMarkers = []string{
	"while running", "with power on", "live wire", "bare hands",
	"metal fork", "without unplugging", "skip safety",
}

func safeStep(step string) bool {
	lower := strings.ToLower(step)
	for _, marker := range dangerousStepMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
