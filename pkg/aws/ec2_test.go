package aws_test

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/awsweep/awsweep/pkg/aws"
)

type fakeInstancesClient struct {
	pages []*ec2.DescribeInstancesOutput
	calls int
}

func (f *fakeInstancesClient) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	out := f.pages[f.calls]
	f.calls++
	return out, nil
}

func TestListInstancesFlattensPages(t *testing.T) {
	fake := &fakeInstancesClient{
		pages: []*ec2.DescribeInstancesOutput{
			{
				Reservations: []ec2Types.Reservation{
					{
						Instances: []ec2Types.Instance{
							{
								InstanceId:      awssdk.String("i-0aaa"),
								InstanceType:    ec2Types.InstanceTypeT3Micro,
								PlatformDetails: awssdk.String("Linux/UNIX"),
							},
							{
								InstanceId:      awssdk.String("i-0bbb"),
								InstanceType:    ec2Types.InstanceTypeM5Large,
								Platform:        ec2Types.PlatformValuesWindows,
								PlatformDetails: awssdk.String("Windows"),
							},
						},
					},
				},
				NextToken: awssdk.String("page-2"),
			},
			{
				Reservations: []ec2Types.Reservation{
					{
						Instances: []ec2Types.Instance{
							{
								InstanceId:   awssdk.String("i-0ccc"),
								InstanceType: ec2Types.InstanceTypeC5Xlarge,
							},
						},
					},
				},
			},
		},
	}

	scanner := &aws.EC2Scanner{Client: fake, Region: "us-east-2"}
	instances, err := scanner.ListInstances(context.Background())
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}

	if len(instances) != 3 {
		t.Fatalf("len(instances) = %d, want 3", len(instances))
	}
	if fake.calls != 2 {
		t.Errorf("DescribeInstances called %d times, want 2", fake.calls)
	}

	first := instances[0]
	if first.InstanceID != "i-0aaa" || first.InstanceType != "t3.micro" || first.Region != "us-east-2" {
		t.Errorf("instances[0] = %+v", first)
	}
	if first.Platform != "" {
		t.Errorf("Platform = %q, want empty for Linux instances", first.Platform)
	}

	second := instances[1]
	if second.Platform != "windows" || second.PlatformDetails != "Windows" {
		t.Errorf("instances[1] = %+v", second)
	}

	if instances[2].InstanceID != "i-0ccc" || instances[2].InstanceType != "c5.xlarge" {
		t.Errorf("instances[2] = %+v", instances[2])
	}
}

func TestListInstancesEmptyRegion(t *testing.T) {
	fake := &fakeInstancesClient{pages: []*ec2.DescribeInstancesOutput{{}}}
	scanner := &aws.EC2Scanner{Client: fake, Region: "eu-north-1"}

	instances, err := scanner.ListInstances(context.Background())
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if instances == nil || len(instances) != 0 {
		t.Fatalf("instances = %#v, want empty non-nil slice", instances)
	}
}
