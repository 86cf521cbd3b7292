package pricing

import (
	"sync"
)

// PricingSource represents the source of pricing information
type PricingSource string

const (
	// PricingSourceAPI indicates pricing data came from AWS API
	PricingSourceAPI PricingSource = "API"

	// PricingSourceCache indicates pricing data came from cache
	PricingSourceCache PricingSource = "Cache"

	// PricingSourceDefault indicates pricing data came from hardcoded defaults
	PricingSourceDefault PricingSource = "Default"

	// PricingSourceFixed indicates a flat rate that AWS bills regardless of region
	PricingSourceFixed PricingSource = "Fixed"

	// PricingSourceNA indicates pricing data is not available
	PricingSourceNA PricingSource = "N/A"
)

// Stats tracking for pricing API calls
var (
	// PricingAPIStats tracks API call statistics by service and region
	PricingAPIStats = make(map[string]map[string]map[string]int) // service -> region -> {success, failure, cache}

	// PricingAPIStatsLock protects the stats map from concurrent access
	PricingAPIStatsLock sync.RWMutex
)

// EBS cache
var (
	// EBSPricingCache caches EBS volume pricing data
	EBSPricingCache = make(map[string]float64)

	// EBSPricingCacheLock protects the EBS cache from concurrent access
	EBSPricingCacheLock sync.RWMutex
)

// Default EBS volume prices in USD per GB-month
// These are fallback prices if Pricing API fails
var DefaultEBSPrices = map[string]map[string]float64{
	"us-east-1": { // US East (N. Virginia)
		"gp2":      0.10,
		"gp3":      0.08,
		"io1":      0.125,
		"io2":      0.125,
		"st1":      0.045,
		"sc1":      0.025,
		"standard": 0.05,
	},
	"us-west-2": { // US West (Oregon)
		"gp2":      0.10,
		"gp3":      0.08,
		"io1":      0.125,
		"io2":      0.125,
		"st1":      0.045,
		"sc1":      0.025,
		"standard": 0.05,
	},
	"eu-west-1": { // Europe (Ireland)
		"gp2":      0.11,
		"gp3":      0.088,
		"io1":      0.138,
		"io2":      0.138,
		"st1":      0.05,
		"sc1":      0.028,
		"standard": 0.055,
	},
	"eu-central-1": { // Europe (Frankfurt)
		"gp2":      0.119,
		"gp3":      0.0952,
		"io1":      0.149,
		"io2":      0.149,
		"st1":      0.054,
		"sc1":      0.03,
		"standard": 0.059,
	},
	"ap-northeast-1": { // Asia Pacific (Tokyo)
		"gp2":      0.12,
		"gp3":      0.096,
		"io1":      0.142,
		"io2":      0.142,
		"st1":      0.054,
		"sc1":      0.03,
		"standard": 0.08,
	},
	"ap-northeast-2": { // Asia Pacific (Seoul)
		"gp2":      0.114, // Seoul region is about 14% more expensive
		"gp3":      0.092,
		"io1":      0.142,
		"io2":      0.142,
		"st1":      0.051,
		"sc1":      0.029,
		"standard": 0.057,
	},
	"ap-southeast-1": { // Asia Pacific (Singapore)
		"gp2":      0.12,
		"gp3":      0.096,
		"io1":      0.138,
		"io2":      0.138,
		"st1":      0.054,
		"sc1":      0.03,
		"standard": 0.08,
	},
	// Other regions fall back to us-east-1 prices
}
