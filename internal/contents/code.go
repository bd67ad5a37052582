package contents

import (
	"fmt"
	"math/rand"
	"regexp"
)

// CodeLength is the number of digits in a content code.
const CodeLength = 6

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// NewCode returns a 6-digit numeric string drawn uniformly from 000000-999999.
// Codes are a display convenience and are not checked for uniqueness, so two
// records may share one.
func NewCode() string {
	return fmt.Sprintf("%0*d", CodeLength, rand.Intn(1_000_000))
}

// ValidCode reports whether s has the shape of a content code.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}
