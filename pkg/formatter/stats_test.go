package formatter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/awsweep/awsweep/pkg/formatter"
	"github.com/awsweep/awsweep/pkg/pricing"
)

func TestPrintPricingAPIStatsSilentWhenEmpty(t *testing.T) {
	pricing.ResetAPIStats()

	var buf bytes.Buffer
	formatter.PrintPricingAPIStats(&buf)

	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing", buf.String())
	}
}

func TestPrintPricingAPIStats(t *testing.T) {
	pricing.ResetAPIStats()
	t.Cleanup(pricing.ResetAPIStats)

	pricing.UpdateAPISuccessStats("EBS", "us-east-1")
	pricing.UpdateAPISuccessStats("EBS", "us-east-1")
	pricing.UpdateAPISuccessStats("EBS", "us-east-1")
	pricing.UpdateAPIFailureStats("EBS", "us-east-1")
	pricing.UpdateCacheHitStats("EBS", "us-east-1")

	var buf bytes.Buffer
	formatter.PrintPricingAPIStats(&buf)
	out := buf.String()

	for _, want := range []string{
		"## AWS Pricing API Call Statistics",
		"SERVICE", "SUCCESS RATE",
		"EBS", "us-east-1",
		"75.0%", // 3 of 4 calls succeeded
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
