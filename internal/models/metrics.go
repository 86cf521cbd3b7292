package models

import "time"

// MetricDatapoint is a single aggregated value from CloudWatch.
type MetricDatapoint struct {
	Timestamp time.Time
	Value     float64
}

// CPUMetricRow is one row of the instance CPU report: one datapoint of
// average CPU utilization joined with the instance it belongs to.
type CPUMetricRow struct {
	Region          string
	InstanceID      string
	InstanceType    string
	Platform        string
	PlatformDetails string
	Timestamp       time.Time
	AveragePct      float64
}

// VolumeMetricRow is one row of the volume activity report. Read and
// write datapoints are reported as separate rows: exactly one of ReadOps
// and WriteOps is set, the other stays nil and renders as an empty column.
type VolumeMetricRow struct {
	Region             string
	VolumeID           string
	State              string
	AttachmentTime     *time.Time
	AttachedInstanceID string
	Timestamp          time.Time
	ReadOps            *float64
	WriteOps           *float64
}
