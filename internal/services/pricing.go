package services

import "fmt"

// IsOnSale reports whether compareAt marks price as a discount.
func IsOnSale(price float64, compareAt *float64) bool {
	return compareAt != nil && *compareAt > price && price > 0
}

func validatePricing(price float64, compareAt *float64) error {
	if price < 0 {
		return fmt.Errorf("price must be zero or greater")
	}
	if compareAt == nil {
		return nil
	}
	if *compareAt <= 0 {
		return fmt.Errorf("compareAtPrice must be greater than 0")
	}
	if *compareAt <= price {
		return fmt.Errorf("compareAtPrice must be greater than price")
	}
	return nil
}
