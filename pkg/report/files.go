package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/awsweep/awsweep/internal/models"
	"github.com/awsweep/awsweep/pkg/utils"
)

// Report file names. The names and column order are a contract with
// downstream consumers and must not change.
const (
	FileVolumeMetrics = "ebs_volume_metrics.csv"
	FileCPUMetrics    = "ec2_cpu_metrics.csv"
	FileSnapshots     = "unused_ebs_snapshots.csv"
	FileEIPs          = "unused_eips.csv"

	// FileCount is the number of report files a run produces
	FileCount = 4
)

var (
	headerVolumeMetrics = []string{"region", "volume_id", "state", "attachment_time", "instance_id", "timestamp", "read_ops", "write_ops"}
	headerCPUMetrics    = []string{"region", "instance_id", "instance_type", "platform", "platform_details", "timestamp", "average_pct"}
	headerSnapshots     = []string{"region", "snapshot_id", "volume_id", "start_time", "description"}
	headerEIPs          = []string{"region", "public_ip", "allocation_id"}
)

// Set owns the four report sinks for one run. Rows from all regions
// interleave in the same files, so every row carries its region.
type Set struct {
	VolumeMetrics *CSVSink
	CPUMetrics    *CSVSink
	Snapshots     *CSVSink
	EIPs          *CSVSink
}

// OpenSet creates the output directory if needed and opens all four
// report files, truncating any previous run's output.
func OpenSet(dir string) (*Set, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating output directory %s: %w", dir, err)
	}

	set := &Set{}
	files := []struct {
		sink   **CSVSink
		name   string
		header []string
	}{
		{&set.VolumeMetrics, FileVolumeMetrics, headerVolumeMetrics},
		{&set.CPUMetrics, FileCPUMetrics, headerCPUMetrics},
		{&set.Snapshots, FileSnapshots, headerSnapshots},
		{&set.EIPs, FileEIPs, headerEIPs},
	}
	for _, f := range files {
		sink, err := NewCSVSink(filepath.Join(dir, f.name), f.header)
		if err != nil {
			set.Close()
			return nil, err
		}
		*f.sink = sink
	}

	return set, nil
}

// Close closes every open sink. Safe on a partially opened set.
func (s *Set) Close() error {
	var firstErr error
	for _, sink := range []*CSVSink{s.VolumeMetrics, s.CPUMetrics, s.Snapshots, s.EIPs} {
		if sink == nil {
			continue
		}
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// AddVolumeMetric appends one volume activity row. A nil ReadOps or
// WriteOps renders as an empty column; read and write rows are never
// merged.
func (s *Set) AddVolumeMetric(row models.VolumeMetricRow) error {
	return s.VolumeMetrics.Append([]string{
		row.Region,
		row.VolumeID,
		row.State,
		utils.FormatTimestampPtr(row.AttachmentTime),
		row.AttachedInstanceID,
		utils.FormatTimestamp(row.Timestamp),
		formatOps(row.ReadOps),
		formatOps(row.WriteOps),
	})
}

// AddCPUMetric appends one instance CPU row.
func (s *Set) AddCPUMetric(row models.CPUMetricRow) error {
	return s.CPUMetrics.Append([]string{
		row.Region,
		row.InstanceID,
		row.InstanceType,
		row.Platform,
		row.PlatformDetails,
		utils.FormatTimestamp(row.Timestamp),
		formatFloat(row.AveragePct),
	})
}

// AddSnapshot appends one unused-volume snapshot row.
func (s *Set) AddSnapshot(snapshot models.SnapshotInfo) error {
	return s.Snapshots.Append([]string{
		snapshot.Region,
		snapshot.SnapshotID,
		snapshot.VolumeID,
		utils.FormatTimestamp(snapshot.StartTime),
		snapshot.Description,
	})
}

// AddEIP appends one unattached Elastic IP row.
func (s *Set) AddEIP(eip models.EIPInfo) error {
	return s.EIPs.Append([]string{
		eip.Region,
		eip.PublicIP,
		eip.AllocationID,
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOps(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
