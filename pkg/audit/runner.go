// Package audit orchestrates the per-region collection run.
package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/smithy-go"
	"github.com/awsweep/awsweep/internal/models"
	"github.com/awsweep/awsweep/pkg/aws"
	"github.com/awsweep/awsweep/pkg/report"
	"github.com/inconshreveable/log15"
)

// InstanceLister enumerates EC2 instances in one region.
type InstanceLister interface {
	ListInstances(ctx context.Context) ([]models.InstanceInfo, error)
}

// VolumeLister enumerates EBS volumes and snapshots in one region.
type VolumeLister interface {
	ListVolumes(ctx context.Context) ([]models.VolumeInfo, error)
	ListUnusedVolumes(ctx context.Context) ([]models.VolumeInfo, error)
	ListSnapshots(ctx context.Context, volumeID string) ([]models.SnapshotInfo, error)
}

// AddressLister enumerates Elastic IPs in one region.
type AddressLister interface {
	ListUnattachedEIPs(ctx context.Context) ([]models.EIPInfo, error)
}

// MetricSource fetches CloudWatch datapoints for one region.
type MetricSource interface {
	GetInstanceCPU(ctx context.Context, instanceID string) ([]models.MetricDatapoint, error)
	GetVolumeReadOps(ctx context.Context, volumeID string) ([]models.MetricDatapoint, error)
	GetVolumeWriteOps(ctx context.Context, volumeID string) ([]models.MetricDatapoint, error)
}

// Scanners bundles the collectors for one region.
type Scanners struct {
	Instances InstanceLister
	Volumes   VolumeLister
	Addresses AddressLister
	Metrics   MetricSource
}

// ConnectFunc builds the scanners for one region.
type ConnectFunc func(ctx context.Context, region string) (Scanners, error)

// Runner walks the region list in order and feeds every collector's rows
// into the report set. Regions and collectors run strictly sequentially;
// an error in one region is logged and the run continues with the next.
type Runner struct {
	Regions []string
	Profile string
	Window  aws.MetricWindow
	Reports *report.Set
	Log     log15.Logger

	// Connect builds the scanners for one region. Left nil, it dials AWS.
	Connect ConnectFunc
}

// Result aggregates what a run collected beyond the CSV rows themselves.
type Result struct {
	UnusedVolumes  []models.VolumeInfo
	UnattachedEIPs []models.EIPInfo
	FailedRegions  []string
	Duration       time.Duration
}

// Run executes the audit over every region in order. It returns an error
// if any region had failures; the report files still hold the rows of
// every collector that succeeded.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Log == nil {
		r.Log = log15.New()
		r.Log.SetHandler(log15.LvlFilterHandler(log15.LvlInfo, log15.StreamHandler(os.Stdout, log15.LogfmtFormat())))
	}

	connect := r.Connect
	if connect == nil {
		connect = r.connectAWS
	}

	start := time.Now()
	result := &Result{}

	for _, region := range r.Regions {
		if err := r.scanRegion(ctx, region, connect, result); err != nil {
			result.FailedRegions = append(result.FailedRegions, region)
		}
	}

	result.Duration = time.Since(start)

	if n := len(result.FailedRegions); n > 0 {
		return result, fmt.Errorf("%d of %d regions reported errors", n, len(r.Regions))
	}

	return result, nil
}

// scanRegion runs the four collectors for one region in declared order:
// instance CPU metrics, volume activity metrics, unused-volume snapshots,
// unattached addresses. A collector failure is logged and the remaining
// collectors still run.
func (r *Runner) scanRegion(ctx context.Context, region string, connect ConnectFunc, result *Result) error {
	start := time.Now()
	r.Log.Info("auditing region", "region", region)

	sc, err := connect(ctx, region)
	if err != nil {
		r.Log.Error("cannot build clients for region", "region", region, "err", err)
		return err
	}

	var errs []error
	fail := func(step string, err error) {
		r.Log.Error("collector failed", "region", region, "step", step, "code", errorCode(err), "err", err)
		errs = append(errs, err)
	}

	cpuRows, err := r.collectInstanceMetrics(ctx, sc)
	if err != nil {
		fail("instances", err)
	}

	volumeRows, err := r.collectVolumeMetrics(ctx, sc)
	if err != nil {
		fail("volumes", err)
	}

	unused, snapshotRows, err := r.collectUnusedVolumes(ctx, sc)
	if err != nil {
		fail("snapshots", err)
	}
	result.UnusedVolumes = append(result.UnusedVolumes, unused...)

	eips, err := r.collectAddresses(ctx, sc)
	if err != nil {
		fail("addresses", err)
	}
	result.UnattachedEIPs = append(result.UnattachedEIPs, eips...)

	r.Log.Info("region audited",
		"region", region,
		"cpu_rows", cpuRows,
		"volume_rows", volumeRows,
		"snapshot_rows", snapshotRows,
		"unused_volumes", len(unused),
		"unattached_eips", len(eips),
		"took", time.Since(start),
	)

	if len(errs) > 0 {
		return fmt.Errorf("%d collectors failed in %s, first error: %w", len(errs), region, errs[0])
	}

	return nil
}

// collectInstanceMetrics joins every instance with its CPU datapoints.
// Instances without datapoints in the window contribute no rows.
func (r *Runner) collectInstanceMetrics(ctx context.Context, sc Scanners) (int, error) {
	instances, err := sc.Instances.ListInstances(ctx)
	if err != nil {
		return 0, err
	}

	rows := 0
	for _, instance := range instances {
		datapoints, err := sc.Metrics.GetInstanceCPU(ctx, instance.InstanceID)
		if err != nil {
			return rows, err
		}

		for _, dp := range datapoints {
			row := models.CPUMetricRow{
				Region:          instance.Region,
				InstanceID:      instance.InstanceID,
				InstanceType:    instance.InstanceType,
				Platform:        instance.Platform,
				PlatformDetails: instance.PlatformDetails,
				Timestamp:       dp.Timestamp,
				AveragePct:      dp.Value,
			}
			if err := r.Reports.AddCPUMetric(row); err != nil {
				return rows, err
			}
			rows++
		}
	}

	return rows, nil
}

// collectVolumeMetrics emits read and write datapoints as separate rows,
// reads first, then writes, per volume.
func (r *Runner) collectVolumeMetrics(ctx context.Context, sc Scanners) (int, error) {
	volumes, err := sc.Volumes.ListVolumes(ctx)
	if err != nil {
		return 0, err
	}

	rows := 0
	for _, volume := range volumes {
		reads, err := sc.Metrics.GetVolumeReadOps(ctx, volume.VolumeID)
		if err != nil {
			return rows, err
		}
		for _, dp := range reads {
			value := dp.Value
			row := volumeRow(volume, dp.Timestamp)
			row.ReadOps = &value
			if err := r.Reports.AddVolumeMetric(row); err != nil {
				return rows, err
			}
			rows++
		}

		writes, err := sc.Metrics.GetVolumeWriteOps(ctx, volume.VolumeID)
		if err != nil {
			return rows, err
		}
		for _, dp := range writes {
			value := dp.Value
			row := volumeRow(volume, dp.Timestamp)
			row.WriteOps = &value
			if err := r.Reports.AddVolumeMetric(row); err != nil {
				return rows, err
			}
			rows++
		}
	}

	return rows, nil
}

// collectUnusedVolumes lists available volumes and emits one row per
// snapshot derived from them. The volumes themselves feed the summary.
func (r *Runner) collectUnusedVolumes(ctx context.Context, sc Scanners) ([]models.VolumeInfo, int, error) {
	unused, err := sc.Volumes.ListUnusedVolumes(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows := 0
	for _, volume := range unused {
		snapshots, err := sc.Volumes.ListSnapshots(ctx, volume.VolumeID)
		if err != nil {
			return unused, rows, err
		}

		for _, snapshot := range snapshots {
			if err := r.Reports.AddSnapshot(snapshot); err != nil {
				return unused, rows, err
			}
			rows++
		}
	}

	return unused, rows, nil
}

// collectAddresses emits one row per unassociated Elastic IP.
func (r *Runner) collectAddresses(ctx context.Context, sc Scanners) ([]models.EIPInfo, error) {
	eips, err := sc.Addresses.ListUnattachedEIPs(ctx)
	if err != nil {
		return nil, err
	}

	for _, eip := range eips {
		if err := r.Reports.AddEIP(eip); err != nil {
			return eips, err
		}
	}

	return eips, nil
}

func (r *Runner) connectAWS(ctx context.Context, region string) (Scanners, error) {
	cfg, err := aws.NewConfig(ctx, region, r.Profile)
	if err != nil {
		return Scanners{}, err
	}

	return Scanners{
		Instances: aws.NewEC2Scanner(cfg),
		Volumes:   aws.NewEBSScanner(cfg),
		Addresses: aws.NewEIPScanner(cfg),
		Metrics:   aws.NewMetricsFetcher(cfg, r.Window),
	}, nil
}

func volumeRow(volume models.VolumeInfo, ts time.Time) models.VolumeMetricRow {
	return models.VolumeMetricRow{
		Region:             volume.Region,
		VolumeID:           volume.VolumeID,
		State:              volume.State,
		AttachmentTime:     volume.AttachmentTime,
		AttachedInstanceID: volume.AttachedInstanceID,
		Timestamp:          ts,
	}
}

// errorCode extracts the AWS error code when err wraps an API error, so
// throttling and authorization failures carry their code into the logs.
func errorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}
