package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/awsweep/awsweep/internal/models"
)

// PrintEIPsTable prints a formatted table of unattached Elastic IPs
func PrintEIPsTable(out io.Writer, eips []models.EIPInfo) {
	if len(eips) == 0 {
		fmt.Fprintln(out, "No unattached Elastic IPs found.")
		return
	}

	// Sort EIPs alphabetically by region, then by address
	sort.Slice(eips, func(i, j int) bool {
		if eips[i].Region == eips[j].Region {
			return eips[i].PublicIP < eips[j].PublicIP
		}
		return eips[i].Region < eips[j].Region
	})

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "ALLOCATION ID\tPUBLIC IP\tREGION\tCOST/MO\tPRICING")

	// Print each EIP
	for _, eip := range eips {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%s\n",
			eip.AllocationID,
			eip.PublicIP,
			eip.Region,
			eip.EstimatedMonthlyCost,
			GetPricingMarker(eip.PricingSource),
		)
	}

	// Print totals
	printEIPTotals(w, eips)

	w.Flush()
}

// printEIPTotals prints the summary information at the bottom of the table
func printEIPTotals(w *tabwriter.Writer, eips []models.EIPInfo) {
	var totalMonthlyCost float64
	for _, eip := range eips {
		totalMonthlyCost += eip.EstimatedMonthlyCost
	}

	// Print summary with kubernetes style alignment
	fmt.Fprintf(w, "Total:\t\t\t$%.2f (%d EIPs)\n",
		totalMonthlyCost,
		len(eips),
	)
}
