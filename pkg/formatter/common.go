package formatter

import (
	"fmt"
	"io"
	"time"
)

// printTimestamp prints the audit timestamp and duration
func printTimestamp(w io.Writer, auditTime time.Time, auditDuration time.Duration) {
	// Format the audit time
	timeStr := auditTime.Format("2006-01-02 15:04:05")

	// Format the duration
	durationStr := fmt.Sprintf("%.2fs", auditDuration.Seconds())

	fmt.Fprintf(w, "Audit completed at %s (took %s)\n", timeStr, durationStr)
}

// GetPricingMarker renders the pricing source column for a table row
func GetPricingMarker(source string) string {
	switch source {
	case "API":
		return "API"
	case "Cache":
		return "CACHE"
	case "Default":
		return "DEFAULT"
	case "Fixed":
		return "FIXED"
	case "N/A":
		return "N/A"
	default:
		return "-"
	}
}
