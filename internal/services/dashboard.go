package services

import (
	"time"

	"github.com/AKhanjyan/WhiteShopML/internal/models"
)

const recentOrdersLimit = 5

type DashboardStats struct {
	TotalOrders     int            `json:"totalOrders"`
	PendingOrders   int            `json:"pendingOrders"`
	CompletedOrders int            `json:"completedOrders"`
	TotalSpent      float64        `json:"totalSpent"`
	AddressesCount  int64          `json:"addressesCount"`
	OrdersByStatus  map[string]int `json:"ordersByStatus"`
}

type RecentOrder struct {
	ID                string  `json:"id"`
	Number            string  `json:"number"`
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"paymentStatus"`
	FulfillmentStatus string  `json:"fulfillmentStatus"`
	Total             float64 `json:"total"`
	Currency          string  `json:"currency"`
	ItemsCount        int     `json:"itemsCount"`
	CreatedAt         string  `json:"createdAt"`
}

type Dashboard struct {
	Stats        DashboardStats `json:"stats"`
	RecentOrders []RecentOrder  `json:"recentOrders"`
}

// BuildDashboard reduces orders, newest first, into account statistics.
// An order counts towards totalSpent when it is completed or paid.
func BuildDashboard(orders []models.Order, addressesCount int64) Dashboard {
	stats := DashboardStats{
		TotalOrders:    len(orders),
		AddressesCount: addressesCount,
		OrdersByStatus: make(map[string]int),
	}

	for _, o := range orders {
		stats.OrdersByStatus[o.Status]++
		switch o.Status {
		case models.OrderStatusPending:
			stats.PendingOrders++
		case models.OrderStatusCompleted:
			stats.CompletedOrders++
		}
		if o.Status == models.OrderStatusCompleted || o.PaymentStatus == models.PaymentStatusPaid {
			stats.TotalSpent += o.Total
		}
	}

	recent := make([]RecentOrder, 0, recentOrdersLimit)
	for i, o := range orders {
		if i == recentOrdersLimit {
			break
		}
		recent = append(recent, RecentOrder{
			ID:                o.ID.Hex(),
			Number:            o.Number,
			Status:            o.Status,
			PaymentStatus:     o.PaymentStatus,
			FulfillmentStatus: o.FulfillmentStatus,
			Total:             o.Total,
			Currency:          o.Currency,
			ItemsCount:        len(o.Items),
			CreatedAt:         o.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return Dashboard{Stats: stats, RecentOrders: recent}
}
