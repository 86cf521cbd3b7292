package models

// EIPInfo represents an Elastic IP address with no association
type EIPInfo struct {
	AllocationID         string
	PublicIP             string
	Region               string
	EstimatedMonthlyCost float64
	PricingSource        string // EIP pricing is fixed
}
