package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/awsweep/awsweep/pkg/utils"
)

// GetEBSVolumePrice returns the price per GB-month for a given EBS volume type and region
func GetEBSVolumePrice(volumeType string, region string) float64 {
	price, _ := lookupPricePerGB(volumeType, region)
	return price
}

// CalculateEBSMonthlyCostWithSource calculates the monthly cost of an EBS volume and returns the pricing source
func CalculateEBSMonthlyCostWithSource(volumeType string, sizeGB int, region string) (float64, string) {
	price, source := lookupPricePerGB(volumeType, region)
	if source == PricingSourceNA {
		return 0, string(PricingSourceNA)
	}

	return float64(sizeGB) * price, string(source)
}

// CalculateEBSMonthlyCost is a wrapper around CalculateEBSMonthlyCostWithSource
// that returns only the cost
func CalculateEBSMonthlyCost(volumeType string, sizeGB int, region string) float64 {
	cost, _ := CalculateEBSMonthlyCostWithSource(volumeType, sizeGB, region)
	return cost
}

// lookupPricePerGB resolves the per GB-month price for a volume type,
// consulting the cache, then the Pricing API, then the default table.
// Without an initialized client it goes straight to the default table.
func lookupPricePerGB(volumeType, region string) (float64, PricingSource) {
	cacheKey := fmt.Sprintf("ebs:%s:%s", volumeType, region)

	// Check cache first
	EBSPricingCacheLock.RLock()
	if price, found := EBSPricingCache[cacheKey]; found {
		EBSPricingCacheLock.RUnlock()
		UpdateCacheHitStats("EBS", region)
		return price, PricingSourceCache
	}
	EBSPricingCacheLock.RUnlock()

	if PricingClient != nil {
		price, err := getEBSPriceFromAPI(volumeType, region)
		if err == nil {
			UpdateAPISuccessStats("EBS", region)

			EBSPricingCacheLock.Lock()
			EBSPricingCache[cacheKey] = price
			EBSPricingCacheLock.Unlock()

			return price, PricingSourceAPI
		}

		Log.Warn("pricing API lookup failed, using default prices",
			"volumeType", volumeType, "region", region, "err", err)
		UpdateAPIFailureStats("EBS", region)
	}

	if price, found := defaultEBSPrice(volumeType, region); found {
		return price, PricingSourceDefault
	}

	return 0, PricingSourceNA
}

// defaultEBSPrice resolves a price from the built-in table. Unknown volume
// types fall back to gp2, unknown regions to us-east-1.
func defaultEBSPrice(volumeType, region string) (float64, bool) {
	regionPrices, found := DefaultEBSPrices[region]
	if !found {
		regionPrices = DefaultEBSPrices["us-east-1"]
	}

	if price, found := regionPrices[volumeType]; found {
		return price, true
	}
	if price, found := regionPrices["gp2"]; found {
		return price, true
	}

	return 0, false
}

// getEBSPriceFromAPI retrieves EBS volume pricing from the AWS Pricing API
func getEBSPriceFromAPI(volumeType, region string) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Construct filters for EBS volume types
	filters := []types.Filter{
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("volumeType"),
			Value: aws.String(mapVolumeTypeToAPIValue(volumeType)),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("location"),
			Value: aws.String(GetRegionDescriptiveName(region)),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("productFamily"),
			Value: aws.String("Storage"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("regionCode"),
			Value: aws.String(region),
		},
	}

	// Get multiple products to find exact match
	pricingProducts, err := GetPricingProducts(ctx, "AmazonEC2", filters, "EBS", volumeType, region)
	if err != nil {
		return 0, err
	}

	// The volumeType filter matches a family (e.g. General Purpose covers
	// both gp2 and gp3), so narrow to the exact API name.
	var matchedProduct string
	for _, product := range pricingProducts {
		priceData, err := utils.ParseJSON(product)
		if err != nil {
			continue
		}

		productAttrs, ok := priceData["product"].(map[string]interface{})
		if !ok {
			continue
		}

		attributes, ok := productAttrs["attributes"].(map[string]interface{})
		if !ok {
			continue
		}

		if volAPIName, ok := attributes["volumeApiName"].(string); ok && volAPIName == volumeType {
			matchedProduct = product
			break
		}
	}

	if matchedProduct == "" {
		return 0, fmt.Errorf("no exact match found for EBS volume type %s in region %s", volumeType, region)
	}

	price, unit, err := ExtractOnDemandPrice(matchedProduct)
	if err != nil {
		return 0, err
	}

	if unit != "GB-Mo" && unit != "GB-month" {
		return 0, fmt.Errorf("unexpected pricing unit: %s", unit)
	}

	return price, nil
}

// mapVolumeTypeToAPIValue maps EBS volume types to their API filter values
func mapVolumeTypeToAPIValue(volumeType string) string {
	switch volumeType {
	case "gp2", "gp3":
		return "General Purpose"
	case "io1", "io2":
		return "Provisioned IOPS"
	case "st1":
		return "Throughput Optimized HDD"
	case "sc1":
		return "Cold HDD"
	case "standard":
		return "Magnetic"
	default:
		return "General Purpose" // Default value
	}
}
