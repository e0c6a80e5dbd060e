package events

import "time"

type RecommendationServedEvent struct {
	TenantID         string    `json:"tenant_id"`
	Category         string    `json:"category"`
	Urgency          string    `json:"urgency"`
	Candidates       int       `json:"candidates"`
	Returned         int       `json:"returned"`
	TopProviderID    string    `json:"top_provider_id,omitempty"`
	TopScore         float64   `json:"top_score,omitempty"`
	CategoryFallback bool      `json:"category_fallback"`
	ServedAt         time.Time `json:"served_at"`
}

type WorkOrderEvent struct {
	WorkOrderID string `json:"work_order_id"`
	TenantID    string `json:"tenant_id"`
	ProviderID  string `json:"provider_id"`
	Status      string `json:"status"`
}

type ProviderEvent struct {
	ProviderID string `json:"provider_id"`
	TenantID   string `json:"tenant_id"`
	Category   string `json:"category"`
	Active     bool   `json:"active"`
}

type ReviewRecordedEvent struct {
	ProviderID  string    `json:"provider_id"`
	WorkOrderID string    `json:"work_order_id,omitempty"`
	Rating      int       `json:"rating"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type StatsEvent struct {
	Providers     int       `json:"providers"`
	WorkOrders    int       `json:"work_orders"`
	Reviews       int       `json:"reviews"`
	AverageRating float64   `json:"average_rating"`
	Timestamp     time.Time `json:"timestamp"`
}
