package aws_test

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/awsweep/awsweep/pkg/aws"
)

type fakeAddressClient struct {
	output *ec2.DescribeAddressesOutput
}

func (f *fakeAddressClient) DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	return f.output, nil
}

func TestListUnattachedEIPsFiltersAssociated(t *testing.T) {
	fake := &fakeAddressClient{
		output: &ec2.DescribeAddressesOutput{
			Addresses: []ec2Types.Address{
				{
					AllocationId:  awssdk.String("eipalloc-used"),
					PublicIp:      awssdk.String("34.1.1.1"),
					AssociationId: awssdk.String("eipassoc-1"),
				},
				{
					AllocationId: awssdk.String("eipalloc-free"),
					PublicIp:     awssdk.String("34.2.2.2"),
				},
				{
					AllocationId:  awssdk.String("eipalloc-empty"),
					PublicIp:      awssdk.String("34.3.3.3"),
					AssociationId: awssdk.String(""),
				},
			},
		},
	}

	scanner := &aws.EIPScanner{Client: fake, Region: "sa-east-1"}
	eips, err := scanner.ListUnattachedEIPs(context.Background())
	if err != nil {
		t.Fatalf("ListUnattachedEIPs: %v", err)
	}

	if len(eips) != 2 {
		t.Fatalf("len(eips) = %d, want 2", len(eips))
	}

	if eips[0].AllocationID != "eipalloc-free" || eips[0].PublicIP != "34.2.2.2" {
		t.Errorf("eips[0] = %+v", eips[0])
	}
	if eips[1].AllocationID != "eipalloc-empty" {
		t.Errorf("eips[1] = %+v", eips[1])
	}

	for _, eip := range eips {
		if eip.Region != "sa-east-1" {
			t.Errorf("Region = %q, want sa-east-1", eip.Region)
		}
		if eip.EstimatedMonthlyCost != 3.60 || eip.PricingSource != "Fixed" {
			t.Errorf("pricing = %v/%q, want 3.60/Fixed", eip.EstimatedMonthlyCost, eip.PricingSource)
		}
	}
}

func TestListUnattachedEIPsEmptyRegion(t *testing.T) {
	fake := &fakeAddressClient{output: &ec2.DescribeAddressesOutput{}}
	scanner := &aws.EIPScanner{Client: fake, Region: "eu-west-3"}

	eips, err := scanner.ListUnattachedEIPs(context.Background())
	if err != nil {
		t.Fatalf("ListUnattachedEIPs: %v", err)
	}
	if eips == nil || len(eips) != 0 {
		t.Fatalf("eips = %#v, want empty non-nil slice", eips)
	}
}
