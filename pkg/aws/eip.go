package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/awsweep/awsweep/internal/models"
	"github.com/awsweep/awsweep/pkg/utils"
)

// eipMonthlyCost is the fixed rate for an unassociated Elastic IP,
// currently about $0.005 per hour ($3.60 per month).
const eipMonthlyCost = 3.60

// AddressAPI is the slice of the EC2 API the EIP scanner needs.
// DescribeAddresses is not paginated; the API returns the full set in one
// response.
type AddressAPI interface {
	DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
}

// EIPScanner lists Elastic IP addresses in a single region.
type EIPScanner struct {
	Client AddressAPI
	Region string
}

// NewEIPScanner creates an EIPScanner bound to the config's region.
func NewEIPScanner(cfg aws.Config) *EIPScanner {
	return &EIPScanner{
		Client: ec2.NewFromConfig(cfg),
		Region: cfg.Region,
	}
}

// ListUnattachedEIPs returns the Elastic IPs with no association. The
// describe call cannot express "association is null" server-side, so the
// check happens on the returned field.
func (s *EIPScanner) ListUnattachedEIPs(ctx context.Context) ([]models.EIPInfo, error) {
	result, err := s.Client.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("error querying Elastic IPs in %s: %w", s.Region, err)
	}

	eips := []models.EIPInfo{}

	for _, eip := range result.Addresses {
		isUnattached := eip.AssociationId == nil || *eip.AssociationId == ""
		if !isUnattached {
			continue
		}

		eips = append(eips, models.EIPInfo{
			AllocationID:         utils.SafeDeref(eip.AllocationId),
			PublicIP:             utils.SafeDeref(eip.PublicIp),
			Region:               s.Region,
			EstimatedMonthlyCost: eipMonthlyCost,
			PricingSource:        "Fixed",
		})
	}

	return eips, nil
}
