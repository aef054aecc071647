package cart

import (
	"strconv"
	"strings"
)

// ParseQuantity converts user input to a quantity. Text that is not an
// integer yields 1; signs are kept so callers can route non-positive values
// through removal.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
