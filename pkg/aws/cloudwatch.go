package aws

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/awsweep/awsweep/internal/models"
	"github.com/awsweep/awsweep/pkg/utils"
)

const (
	// Analysis window and aggregation period shared by every metric query
	metricLookbackDays = 90
	metricPeriodDays   = 30

	// AWS CloudWatch Namespaces
	namespaceEC2 = "AWS/EC2"
	namespaceEBS = "AWS/EBS"

	// AWS CloudWatch Metric Names
	metricCPUUtilization = "CPUUtilization"
	metricVolumeReadOps  = "VolumeReadOps"
	metricVolumeWriteOps = "VolumeWriteOps"

	// CloudWatch dimension keys
	dimensionInstanceID = "InstanceId"
	dimensionVolumeID   = "VolumeId"
)

// MetricWindow is the time range and aggregation period shared by every
// metric query of one run.
type MetricWindow struct {
	Start  time.Time
	End    time.Time
	Period int32 // seconds
}

// NewMetricWindow computes the window ending at now: 90 days back,
// aggregated into 30-day buckets.
func NewMetricWindow(now time.Time) MetricWindow {
	end := now.UTC()
	return MetricWindow{
		Start:  end.Add(-metricLookbackDays * 24 * time.Hour),
		End:    end,
		Period: int32(metricPeriodDays * 24 * 60 * 60),
	}
}

// MetricsAPI is the slice of the CloudWatch API the fetcher needs.
type MetricsAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// MetricsFetcher queries CloudWatch statistics for a single region over a
// fixed window.
type MetricsFetcher struct {
	Client MetricsAPI
	Window MetricWindow
}

// NewMetricsFetcher creates a MetricsFetcher for the config's region.
func NewMetricsFetcher(cfg aws.Config, window MetricWindow) *MetricsFetcher {
	return &MetricsFetcher{
		Client: cloudwatch.NewFromConfig(cfg),
		Window: window,
	}
}

// GetInstanceCPU returns the average CPU utilization datapoints for an
// instance in timestamp order. Zero datapoints means the instance had no
// metrics in the window; that is not an error.
func (f *MetricsFetcher) GetInstanceCPU(ctx context.Context, instanceID string) ([]models.MetricDatapoint, error) {
	return f.getStatistics(ctx, namespaceEC2, metricCPUUtilization, dimensionInstanceID, instanceID, cwTypes.StatisticAverage)
}

// GetVolumeReadOps returns the maximum read ops datapoints for a volume.
func (f *MetricsFetcher) GetVolumeReadOps(ctx context.Context, volumeID string) ([]models.MetricDatapoint, error) {
	return f.getStatistics(ctx, namespaceEBS, metricVolumeReadOps, dimensionVolumeID, volumeID, cwTypes.StatisticMaximum)
}

// GetVolumeWriteOps returns the maximum write ops datapoints for a volume.
func (f *MetricsFetcher) GetVolumeWriteOps(ctx context.Context, volumeID string) ([]models.MetricDatapoint, error) {
	return f.getStatistics(ctx, namespaceEBS, metricVolumeWriteOps, dimensionVolumeID, volumeID, cwTypes.StatisticMaximum)
}

func (f *MetricsFetcher) getStatistics(ctx context.Context, namespace, metricName, dimensionName, dimensionValue string, statistic cwTypes.Statistic) ([]models.MetricDatapoint, error) {
	input := &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(namespace),
		MetricName: aws.String(metricName),
		Dimensions: []cwTypes.Dimension{
			{
				Name:  aws.String(dimensionName),
				Value: aws.String(dimensionValue),
			},
		},
		StartTime:  aws.Time(f.Window.Start),
		EndTime:    aws.Time(f.Window.End),
		Period:     aws.Int32(f.Window.Period),
		Statistics: []cwTypes.Statistic{statistic},
	}

	resp, err := f.Client.GetMetricStatistics(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("error getting %s for %s %s: %w", metricName, dimensionName, dimensionValue, err)
	}

	datapoints := make([]models.MetricDatapoint, 0, len(resp.Datapoints))
	for _, dp := range resp.Datapoints {
		if dp.Timestamp == nil {
			continue
		}

		var value float64
		switch statistic {
		case cwTypes.StatisticAverage:
			value = utils.SafeDerefFloat64(dp.Average)
		case cwTypes.StatisticMaximum:
			value = utils.SafeDerefFloat64(dp.Maximum)
		}

		datapoints = append(datapoints, models.MetricDatapoint{
			Timestamp: *dp.Timestamp,
			Value:     value,
		})
	}

	// CloudWatch returns datapoints in no particular order
	sort.Slice(datapoints, func(i, j int) bool {
		return datapoints[i].Timestamp.Before(datapoints[j].Timestamp)
	})

	return datapoints, nil
}
