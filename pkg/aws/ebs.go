package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/awsweep/awsweep/internal/models"
	"github.com/awsweep/awsweep/pkg/utils"
)

// VolumeAPI is the slice of the EC2 API the EBS scanner needs.
type VolumeAPI interface {
	ec2.DescribeVolumesAPIClient
	ec2.DescribeSnapshotsAPIClient
}

// EBSScanner lists EBS volumes and their snapshots in a single region.
type EBSScanner struct {
	Client VolumeAPI
	Region string
}

// NewEBSScanner creates an EBSScanner bound to the config's region.
func NewEBSScanner(cfg aws.Config) *EBSScanner {
	return &EBSScanner{
		Client: ec2.NewFromConfig(cfg),
		Region: cfg.Region,
	}
}

// ListVolumes returns every volume in the region. The volume activity
// report is keyed on the first attachment, so only that one is projected.
func (s *EBSScanner) ListVolumes(ctx context.Context) ([]models.VolumeInfo, error) {
	return s.listVolumes(ctx, &ec2.DescribeVolumesInput{})
}

// ListUnusedVolumes returns volumes in the 'available' state, meaning not
// attached to any instance. The state filter is server-side.
func (s *EBSScanner) ListUnusedVolumes(ctx context.Context) ([]models.VolumeInfo, error) {
	filter := types.Filter{
		Name:   aws.String("status"),
		Values: []string{"available"},
	}

	return s.listVolumes(ctx, &ec2.DescribeVolumesInput{
		Filters: []types.Filter{filter},
	})
}

func (s *EBSScanner) listVolumes(ctx context.Context, input *ec2.DescribeVolumesInput) ([]models.VolumeInfo, error) {
	volumes := []models.VolumeInfo{}

	paginator := ec2.NewDescribeVolumesPaginator(s.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EBS volumes in %s: %w", s.Region, err)
		}

		for _, volume := range page.Volumes {
			info := models.VolumeInfo{
				VolumeID:   utils.SafeDeref(volume.VolumeId),
				Name:       utils.GetName(volume.Tags),
				VolumeType: string(volume.VolumeType),
				State:      string(volume.State),
				Region:     s.Region,
			}
			if volume.Size != nil {
				info.Size = int(*volume.Size)
			}
			if len(volume.Attachments) > 0 {
				attachment := volume.Attachments[0]
				info.AttachmentState = string(attachment.State)
				info.AttachmentTime = attachment.AttachTime
				info.AttachedInstanceID = utils.SafeDeref(attachment.InstanceId)
				info.AttachedDevice = utils.SafeDeref(attachment.Device)
			}

			volumes = append(volumes, info)
		}
	}

	return volumes, nil
}

// ListSnapshots returns the snapshots created from the given volume.
func (s *EBSScanner) ListSnapshots(ctx context.Context, volumeID string) ([]models.SnapshotInfo, error) {
	filter := types.Filter{
		Name:   aws.String("volume-id"),
		Values: []string{volumeID},
	}

	input := &ec2.DescribeSnapshotsInput{
		Filters:  []types.Filter{filter},
		OwnerIds: []string{"self"},
	}

	snapshots := []models.SnapshotInfo{}

	paginator := ec2.NewDescribeSnapshotsPaginator(s.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying snapshots of volume %s in %s: %w", volumeID, s.Region, err)
		}

		for _, snapshot := range page.Snapshots {
			info := models.SnapshotInfo{
				SnapshotID:  utils.SafeDeref(snapshot.SnapshotId),
				VolumeID:    utils.SafeDeref(snapshot.VolumeId),
				Description: utils.SafeDeref(snapshot.Description),
				Region:      s.Region,
			}
			if snapshot.StartTime != nil {
				info.StartTime = *snapshot.StartTime
			}

			snapshots = append(snapshots, info)
		}
	}

	return snapshots, nil
}
