package models

import "time"

// VolumeInfo represents EBS volume information
type VolumeInfo struct {
	VolumeID             string
	Name                 string
	Size                 int
	VolumeType           string
	State                string
	Region               string
	AttachmentState      string
	AttachmentTime       *time.Time
	AttachedInstanceID   string
	AttachedDevice       string
	EstimatedMonthlyCost float64
	PricingSource        string // "API", "Cache", or "Default"; filled for unused volumes only
}

// SnapshotInfo represents an EBS snapshot derived from an unused volume
type SnapshotInfo struct {
	SnapshotID  string
	VolumeID    string
	StartTime   time.Time
	Description string
	Region      string
}
