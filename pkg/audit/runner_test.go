package audit_test

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/awsweep/awsweep/internal/models"
	"github.com/awsweep/awsweep/pkg/audit"
	"github.com/awsweep/awsweep/pkg/report"
	"github.com/inconshreveable/log15"
)

// fakeRegion implements every collector interface for one region.
type fakeRegion struct {
	instances    []models.InstanceInfo
	instancesErr error
	volumes      []models.VolumeInfo
	unused       []models.VolumeInfo
	snapshots    map[string][]models.SnapshotInfo
	eips         []models.EIPInfo

	cpu    map[string][]models.MetricDatapoint
	reads  map[string][]models.MetricDatapoint
	writes map[string][]models.MetricDatapoint
}

func (f *fakeRegion) ListInstances(ctx context.Context) ([]models.InstanceInfo, error) {
	if f.instancesErr != nil {
		return nil, f.instancesErr
	}
	return f.instances, nil
}

func (f *fakeRegion) ListVolumes(ctx context.Context) ([]models.VolumeInfo, error) {
	return f.volumes, nil
}

func (f *fakeRegion) ListUnusedVolumes(ctx context.Context) ([]models.VolumeInfo, error) {
	return f.unused, nil
}

func (f *fakeRegion) ListSnapshots(ctx context.Context, volumeID string) ([]models.SnapshotInfo, error) {
	return f.snapshots[volumeID], nil
}

func (f *fakeRegion) ListUnattachedEIPs(ctx context.Context) ([]models.EIPInfo, error) {
	return f.eips, nil
}

func (f *fakeRegion) GetInstanceCPU(ctx context.Context, instanceID string) ([]models.MetricDatapoint, error) {
	return f.cpu[instanceID], nil
}

func (f *fakeRegion) GetVolumeReadOps(ctx context.Context, volumeID string) ([]models.MetricDatapoint, error) {
	return f.reads[volumeID], nil
}

func (f *fakeRegion) GetVolumeWriteOps(ctx context.Context, volumeID string) ([]models.MetricDatapoint, error) {
	return f.writes[volumeID], nil
}

func (f *fakeRegion) scanners() audit.Scanners {
	return audit.Scanners{Instances: f, Volumes: f, Addresses: f, Metrics: f}
}

// connectFakes wires a Runner to the given per-region fakes.
func connectFakes(fakes map[string]*fakeRegion) audit.ConnectFunc {
	return func(ctx context.Context, region string) (audit.Scanners, error) {
		fake, exists := fakes[region]
		if !exists {
			return audit.Scanners{}, errors.New("no client for region " + region)
		}
		return fake.scanners(), nil
	}
}

func quietLogger() log15.Logger {
	logger := log15.New()
	logger.SetHandler(log15.DiscardHandler())
	return logger
}

func newTestRunner(t *testing.T, regions []string, fakes map[string]*fakeRegion) (*audit.Runner, string) {
	t.Helper()

	dir := t.TempDir()
	reports, err := report.OpenSet(dir)
	if err != nil {
		t.Fatalf("OpenSet: %v", err)
	}
	t.Cleanup(func() { reports.Close() })

	runner := &audit.Runner{
		Regions: regions,
		Reports: reports,
		Log:     quietLogger(),
		Connect: connectFakes(fakes),
	}
	return runner, dir
}

func readReport(t *testing.T, dir, name string) [][]string {
	t.Helper()

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return records
}

func TestRunEmptyRegionWritesHeaderOnlyFiles(t *testing.T) {
	fakes := map[string]*fakeRegion{
		"eu-north-1": {},
	}
	runner, dir := newTestRunner(t, []string{"eu-north-1"}, fakes)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.FailedRegions) != 0 {
		t.Errorf("FailedRegions = %v, want none", result.FailedRegions)
	}

	for _, name := range []string{report.FileVolumeMetrics, report.FileCPUMetrics, report.FileSnapshots, report.FileEIPs} {
		records := readReport(t, dir, name)
		if len(records) != 1 {
			t.Errorf("%s has %d records, want header only", name, len(records))
		}
	}
}

func TestRunSplitsReadAndWriteRows(t *testing.T) {
	t1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	attachTime := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	fakes := map[string]*fakeRegion{
		"us-east-1": {
			volumes: []models.VolumeInfo{
				{
					VolumeID:           "vol-0aaa",
					State:              "in-use",
					Region:             "us-east-1",
					AttachmentTime:     &attachTime,
					AttachedInstanceID: "i-0aaa",
				},
			},
			reads: map[string][]models.MetricDatapoint{
				"vol-0aaa": {{Timestamp: t1, Value: 100}, {Timestamp: t2, Value: 250}},
			},
			writes: map[string][]models.MetricDatapoint{
				"vol-0aaa": {{Timestamp: t1, Value: 30}},
			},
		},
	}
	runner, dir := newTestRunner(t, []string{"us-east-1"}, fakes)

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	records := readReport(t, dir, report.FileVolumeMetrics)
	if len(records) != 4 {
		t.Fatalf("volume metric rows = %d, want 3 (2 reads + 1 write)", len(records)-1)
	}

	// Read rows come first, write rows after, each with only its own column
	rows := records[1:]
	for i, row := range rows {
		if row[0] != "us-east-1" {
			t.Errorf("row %d region = %q, want us-east-1", i, row[0])
		}
		if row[1] != "vol-0aaa" || row[2] != "in-use" || row[4] != "i-0aaa" {
			t.Errorf("row %d volume fields = %v", i, row)
		}
	}

	if rows[0][6] != "100" || rows[0][7] != "" {
		t.Errorf("first read row ops = %q/%q, want 100/empty", rows[0][6], rows[0][7])
	}
	if rows[1][6] != "250" || rows[1][7] != "" {
		t.Errorf("second read row ops = %q/%q, want 250/empty", rows[1][6], rows[1][7])
	}
	if rows[2][6] != "" || rows[2][7] != "30" {
		t.Errorf("write row ops = %q/%q, want empty/30", rows[2][6], rows[2][7])
	}
}

func TestRunJoinsInstanceFieldsWithDatapoints(t *testing.T) {
	t1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	fakes := map[string]*fakeRegion{
		"ap-northeast-2": {
			instances: []models.InstanceInfo{
				{InstanceID: "i-0aaa", InstanceType: "m5.large", PlatformDetails: "Linux/UNIX", Region: "ap-northeast-2"},
				{InstanceID: "i-idle", InstanceType: "t3.nano", Region: "ap-northeast-2"},
			},
			cpu: map[string][]models.MetricDatapoint{
				"i-0aaa": {{Timestamp: t1, Value: 55.5}, {Timestamp: t2, Value: 60}},
				// i-idle has no datapoints in the window
			},
		},
	}
	runner, dir := newTestRunner(t, []string{"ap-northeast-2"}, fakes)

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	records := readReport(t, dir, report.FileCPUMetrics)
	if len(records) != 3 {
		t.Fatalf("cpu rows = %d, want 2", len(records)-1)
	}

	first := records[1]
	if first[0] != "ap-northeast-2" || first[1] != "i-0aaa" || first[2] != "m5.large" || first[4] != "Linux/UNIX" {
		t.Errorf("first row = %v", first)
	}
	if first[5] != "2025-06-01T00:00:00Z" || first[6] != "55.5" {
		t.Errorf("first row timestamp/value = %q/%q", first[5], first[6])
	}

	for _, row := range records[1:] {
		if row[1] == "i-idle" {
			t.Errorf("instance without datapoints produced a row: %v", row)
		}
	}
}

func TestRunCollectsSnapshotsAndEIPs(t *testing.T) {
	started := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	fakes := map[string]*fakeRegion{
		"eu-west-2": {
			unused: []models.VolumeInfo{
				{VolumeID: "vol-unused", State: "available", Region: "eu-west-2", Size: 50},
			},
			snapshots: map[string][]models.SnapshotInfo{
				"vol-unused": {
					{SnapshotID: "snap-1", VolumeID: "vol-unused", StartTime: started, Description: "pre-delete", Region: "eu-west-2"},
					{SnapshotID: "snap-2", VolumeID: "vol-unused", StartTime: started.AddDate(0, 1, 0), Region: "eu-west-2"},
				},
			},
			eips: []models.EIPInfo{
				{AllocationID: "eipalloc-1", PublicIP: "34.9.9.9", Region: "eu-west-2", EstimatedMonthlyCost: 3.60},
			},
		},
	}
	runner, dir := newTestRunner(t, []string{"eu-west-2"}, fakes)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	snapRecords := readReport(t, dir, report.FileSnapshots)
	if len(snapRecords) != 3 {
		t.Fatalf("snapshot rows = %d, want 2", len(snapRecords)-1)
	}
	if snapRecords[1][0] != "eu-west-2" || snapRecords[1][1] != "snap-1" {
		t.Errorf("snapshot row = %v", snapRecords[1])
	}

	eipRecords := readReport(t, dir, report.FileEIPs)
	if len(eipRecords) != 2 {
		t.Fatalf("eip rows = %d, want 1", len(eipRecords)-1)
	}
	if eipRecords[1][0] != "eu-west-2" || eipRecords[1][1] != "34.9.9.9" || eipRecords[1][2] != "eipalloc-1" {
		t.Errorf("eip row = %v", eipRecords[1])
	}

	// The run result carries what the summary needs
	if len(result.UnusedVolumes) != 1 || result.UnusedVolumes[0].VolumeID != "vol-unused" {
		t.Errorf("UnusedVolumes = %+v", result.UnusedVolumes)
	}
	if len(result.UnattachedEIPs) != 1 || result.UnattachedEIPs[0].AllocationID != "eipalloc-1" {
		t.Errorf("UnattachedEIPs = %+v", result.UnattachedEIPs)
	}
}

func TestRunIsolatesRegionFailures(t *testing.T) {
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	fakes := map[string]*fakeRegion{
		"us-east-1": {
			instancesErr: errors.New("UnauthorizedOperation"),
		},
		"us-west-2": {
			instances: []models.InstanceInfo{
				{InstanceID: "i-good", InstanceType: "t3.micro", Region: "us-west-2"},
			},
			cpu: map[string][]models.MetricDatapoint{
				"i-good": {{Timestamp: ts, Value: 42}},
			},
		},
	}
	runner, dir := newTestRunner(t, []string{"us-east-1", "us-west-2"}, fakes)

	result, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("Run returned nil error, want failure for us-east-1")
	}

	if len(result.FailedRegions) != 1 || result.FailedRegions[0] != "us-east-1" {
		t.Errorf("FailedRegions = %v, want [us-east-1]", result.FailedRegions)
	}

	// The healthy region's rows still made it into the report
	records := readReport(t, dir, report.FileCPUMetrics)
	if len(records) != 2 {
		t.Fatalf("cpu rows = %d, want 1 from us-west-2", len(records)-1)
	}
	if records[1][0] != "us-west-2" || records[1][1] != "i-good" {
		t.Errorf("row = %v", records[1])
	}
}

func TestRunConnectFailureMarksRegion(t *testing.T) {
	fakes := map[string]*fakeRegion{}
	runner, _ := newTestRunner(t, []string{"ca-central-1"}, fakes)

	result, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("Run returned nil error, want connect failure")
	}
	if len(result.FailedRegions) != 1 || result.FailedRegions[0] != "ca-central-1" {
		t.Errorf("FailedRegions = %v, want [ca-central-1]", result.FailedRegions)
	}
}
