package utils

import (
	"strconv"
	"strings"
)

// IntsToCSV renders a slice of ids as a comma-separated query parameter value.
func IntsToCSV(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}
