package pricing_test

import (
	"math"
	"testing"

	"github.com/awsweep/awsweep/pkg/pricing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func resetPricing(t *testing.T) {
	t.Helper()
	pricing.ResetAPIStats()
	t.Cleanup(pricing.ResetAPIStats)
}

func TestCalculateEBSMonthlyCostUsesDefaultTable(t *testing.T) {
	resetPricing(t)

	cost, source := pricing.CalculateEBSMonthlyCostWithSource("gp3", 100, "us-east-1")
	if !almostEqual(cost, 8.0) {
		t.Errorf("cost = %v, want 8.0", cost)
	}
	if source != string(pricing.PricingSourceDefault) {
		t.Errorf("source = %q, want %q", source, pricing.PricingSourceDefault)
	}
}

func TestCalculateEBSMonthlyCostUnknownRegion(t *testing.T) {
	resetPricing(t)

	// Regions outside the table use us-east-1 prices
	cost, source := pricing.CalculateEBSMonthlyCostWithSource("gp2", 10, "mars-east-1")
	if !almostEqual(cost, 1.0) {
		t.Errorf("cost = %v, want 1.0", cost)
	}
	if source != string(pricing.PricingSourceDefault) {
		t.Errorf("source = %q, want %q", source, pricing.PricingSourceDefault)
	}
}

func TestCalculateEBSMonthlyCostUnknownVolumeType(t *testing.T) {
	resetPricing(t)

	// Unknown volume types price as gp2
	cost, _ := pricing.CalculateEBSMonthlyCostWithSource("gp9", 10, "eu-west-1")
	if !almostEqual(cost, 1.1) {
		t.Errorf("cost = %v, want 1.1 (gp2 fallback)", cost)
	}
}

func TestGetEBSVolumePrice(t *testing.T) {
	resetPricing(t)

	if price := pricing.GetEBSVolumePrice("st1", "ap-northeast-2"); !almostEqual(price, 0.051) {
		t.Errorf("price = %v, want 0.051", price)
	}
}

func TestCachedPriceWins(t *testing.T) {
	resetPricing(t)

	pricing.EBSPricingCacheLock.Lock()
	pricing.EBSPricingCache["ebs:gp3:eu-west-1"] = 0.5
	pricing.EBSPricingCacheLock.Unlock()

	cost, source := pricing.CalculateEBSMonthlyCostWithSource("gp3", 100, "eu-west-1")
	if !almostEqual(cost, 50.0) {
		t.Errorf("cost = %v, want 50.0 from cache", cost)
	}
	if source != string(pricing.PricingSourceCache) {
		t.Errorf("source = %q, want %q", source, pricing.PricingSourceCache)
	}

	stats := pricing.GetAPIStats()
	if stats["EBS"]["eu-west-1"]["cache"] != 1 {
		t.Errorf("cache hits = %d, want 1", stats["EBS"]["eu-west-1"]["cache"])
	}
}

func TestDefaultLookupsRecordNoStats(t *testing.T) {
	resetPricing(t)

	pricing.CalculateEBSMonthlyCost("gp2", 20, "us-west-2")
	pricing.CalculateEBSMonthlyCost("sc1", 500, "ap-southeast-1")

	if pricing.HasAPIStats() {
		t.Errorf("default table lookups recorded stats: %v", pricing.GetAPIStats())
	}
}
