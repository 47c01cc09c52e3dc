package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePricing(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		compareAt *float64
		wantErr   string
	}{
		{name: "no compare price", price: 10},
		{name: "valid discount", price: 80, compareAt: price(100)},
		{name: "negative price", price: -1, wantErr: "price must be zero or greater"},
		{name: "compare equal", price: 100, compareAt: price(100), wantErr: "compareAtPrice must be greater than price"},
		{name: "compare below", price: 100, compareAt: price(90), wantErr: "compareAtPrice must be greater than price"},
		{name: "compare zero", price: 0, compareAt: price(0), wantErr: "compareAtPrice must be greater than 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePricing(tc.price, tc.compareAt)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestIsOnSale(t *testing.T) {
	assert.True(t, IsOnSale(80, price(100)))
	assert.False(t, IsOnSale(100, price(100)))
	assert.False(t, IsOnSale(80, nil))
	assert.False(t, IsOnSale(0, price(10)))
}
