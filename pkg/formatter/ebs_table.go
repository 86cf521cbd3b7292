package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/awsweep/awsweep/internal/models"
)

// MAX_NAME_WIDTH defines the maximum width for Name column
const MAX_NAME_WIDTH = 20

// PrintUnusedVolumesTable prints a formatted table of unused EBS volumes
func PrintUnusedVolumesTable(out io.Writer, volumes []models.VolumeInfo, auditTime time.Time, auditDuration time.Duration) {
	if len(volumes) == 0 {
		fmt.Fprintln(out, "No unused EBS volumes found.")
		return
	}

	// Sort volumes by estimated monthly cost (highest first)
	sort.Slice(volumes, func(i, j int) bool {
		return volumes[i].EstimatedMonthlyCost > volumes[j].EstimatedMonthlyCost
	})

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tVOLUME ID\tTYPE\tSIZE\tREGION\tMONTHLY COST\tPRICING")

	// Print each volume
	for _, volume := range volumes {
		name := volume.Name
		if name == "" {
			name = "N/A"
		}
		// Truncation keeps wide CJK names from breaking column alignment
		name = PadString(TruncateString(name, MAX_NAME_WIDTH), MAX_NAME_WIDTH)

		var cost string
		if volume.PricingSource == "N/A" {
			cost = "N/A"
		} else {
			cost = fmt.Sprintf("$%.2f", volume.EstimatedMonthlyCost)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%d GB\t%s\t%s\t%s\n",
			name,
			volume.VolumeID,
			volume.VolumeType,
			volume.Size,
			volume.Region,
			cost,
			GetPricingMarker(volume.PricingSource),
		)
	}

	// Print totals
	printVolumeTotals(w, volumes)

	w.Flush()
	printTimestamp(out, auditTime, auditDuration)
}

// printVolumeTotals prints the summary information at the bottom of the table
func printVolumeTotals(w *tabwriter.Writer, volumes []models.VolumeInfo) {
	totalSize := 0

	// Calculate total potential savings
	var totalCost float64

	for _, volume := range volumes {
		totalCost += volume.EstimatedMonthlyCost
		totalSize += volume.Size
	}

	// Print summary with kubernetes style alignment
	fmt.Fprintf(w, "Total:\t\t\t%d GB\t\t$%.2f\n",
		totalSize,
		totalCost,
	)
}
