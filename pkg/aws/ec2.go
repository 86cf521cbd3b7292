package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/awsweep/awsweep/internal/models"
	"github.com/awsweep/awsweep/pkg/utils"
)

// EC2Scanner lists EC2 instances in a single region.
type EC2Scanner struct {
	Client ec2.DescribeInstancesAPIClient
	Region string
}

// NewEC2Scanner creates an EC2Scanner bound to the config's region.
func NewEC2Scanner(cfg aws.Config) *EC2Scanner {
	return &EC2Scanner{
		Client: ec2.NewFromConfig(cfg),
		Region: cfg.Region,
	}
}

// ListInstances returns every instance in the region with the fields the
// CPU report carries. Results are paginated; an empty region yields an
// empty slice, not an error.
func (s *EC2Scanner) ListInstances(ctx context.Context) ([]models.InstanceInfo, error) {
	instances := []models.InstanceInfo{}

	paginator := ec2.NewDescribeInstancesPaginator(s.Client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances in %s: %w", s.Region, err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				instances = append(instances, models.InstanceInfo{
					InstanceID:      utils.SafeDeref(instance.InstanceId),
					InstanceType:    string(instance.InstanceType),
					Platform:        string(instance.Platform),
					PlatformDetails: utils.SafeDeref(instance.PlatformDetails),
					Region:          s.Region,
				})
			}
		}
	}

	return instances, nil
}
