package formatter

import (
	"fmt"
	"io"
	"sort"

	"github.com/awsweep/awsweep/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// regionSavings accumulates the reclaimable resources found in one region
type regionSavings struct {
	volumes    int
	volumeGB   int
	volumeCost float64
	eips       int
	eipCost    float64
}

// PrintSavingsSummary renders a per-region rollup of the estimated monthly
// cost of unused volumes and unattached Elastic IPs, with a grand total.
func PrintSavingsSummary(out io.Writer, volumes []models.VolumeInfo, eips []models.EIPInfo) {
	if len(volumes) == 0 && len(eips) == 0 {
		fmt.Fprintln(out, "No reclaimable resources found.")
		return
	}

	perRegion := make(map[string]*regionSavings)
	totals := regionSavings{}

	regionOf := func(region string) *regionSavings {
		if s, exists := perRegion[region]; exists {
			return s
		}
		s := &regionSavings{}
		perRegion[region] = s
		return s
	}

	for _, volume := range volumes {
		s := regionOf(volume.Region)
		s.volumes++
		s.volumeGB += volume.Size
		s.volumeCost += volume.EstimatedMonthlyCost

		totals.volumes++
		totals.volumeGB += volume.Size
		totals.volumeCost += volume.EstimatedMonthlyCost
	}

	for _, eip := range eips {
		s := regionOf(eip.Region)
		s.eips++
		s.eipCost += eip.EstimatedMonthlyCost

		totals.eips++
		totals.eipCost += eip.EstimatedMonthlyCost
	}

	regions := make([]string, 0, len(perRegion))
	for region := range perRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Region", "Unused Volumes", "Storage", "Unattached EIPs", "Monthly Savings"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, region := range regions {
		s := perRegion[region]
		table.Append([]string{
			region,
			fmt.Sprintf("%d", s.volumes),
			humanize.IBytes(uint64(s.volumeGB) * humanize.GiByte),
			fmt.Sprintf("%d", s.eips),
			fmt.Sprintf("$%.2f", s.volumeCost+s.eipCost),
		})
	}

	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d", totals.volumes),
		humanize.IBytes(uint64(totals.volumeGB) * humanize.GiByte),
		fmt.Sprintf("%d", totals.eips),
		fmt.Sprintf("$%.2f", totals.volumeCost+totals.eipCost),
	})
	table.SetFooterAlignment(tablewriter.ALIGN_LEFT)

	table.Render()
}
