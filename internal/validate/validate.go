package validate

import (
	"regexp"
	"strings"
)

var (
	reID   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSize = regexp.MustCompile(`^[A-Za-z0-9]{0,8}$`)
)

// ID validates a simple resource identifier (product/customer/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Size validates an optional size label.
func Size(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reSize.MatchString(s)
}

// CareGrade accepts "1".."5".
func CareGrade(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) == 1 && s[0] >= '1' && s[0] <= '5'
}

// MaxQuantity bounds a single cart line.
const MaxQuantity = 1000

// Password enforces a length window on login candidates before any hashing.
func Password(s string) bool {
	l := len(s)
	return l >= 1 && l <= 72
}
