package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type WorkOrderStatus string

const (
	StatusAssigned   WorkOrderStatus = "assigned"
	StatusInProgress WorkOrderStatus = "in_progress"
	StatusCompleted  WorkOrderStatus = "completed"
	StatusCancelled  WorkOrderStatus = "cancelled"
)

type AvailabilityState string

const (
	AvailabilityAvailable         AvailabilityState = "available"
	AvailabilityPartiallyOccupied AvailabilityState = "partially_occupied"
	AvailabilityUnavailable       AvailabilityState = "unavailable"
)

// Provider is a service vendor (contractor, maintenance company) owned by a
// tenant. The recommendation engine only reads providers; mutation happens
// through the ingest API.
type Provider struct {
	ID       uuid.UUID `json:"id"`
	TenantID string    `json:"tenant_id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Rating   float64   `json:"rating"` // 0–5 average rating
	Active   bool      `json:"active"`

	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkOrder is a historical assignment of a provider to a job.
type WorkOrder struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   string          `json:"tenant_id"`
	ProviderID uuid.UUID       `json:"provider_id"`
	Title      string          `json:"title"`
	Status     WorkOrderStatus `json:"status"`

	AssignedAt            time.Time  `json:"assigned_at"`
	EstimatedCompletionAt *time.Time `json:"estimated_completion_at,omitempty"`
	StartedAt             *time.Time `json:"started_at,omitempty"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Review is a post-completion rating (1–5) tied to a provider.
type Review struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    string     `json:"tenant_id"`
	ProviderID  uuid.UUID  `json:"provider_id"`
	WorkOrderID *uuid.UUID `json:"work_order_id,omitempty"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AvailabilityWindow is a provider's declared availability over a date range.
// Absence of a window covering a point in time means "available".
type AvailabilityWindow struct {
	ID         uuid.UUID         `json:"id"`
	ProviderID uuid.UUID         `json:"provider_id"`
	State      AvailabilityState `json:"state"`
	StartsAt   time.Time         `json:"starts_at"`
	EndsAt     time.Time         `json:"ends_at"`
	CreatedAt  time.Time         `json:"created_at"`
}

type ProviderFilter struct {
	TenantID   string
	Category   string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type TenantStats struct {
	TotalProviders  int     `json:"total_providers"`
	ActiveProviders int     `json:"active_providers"`
	OpenWorkOrders  int     `json:"open_work_orders"`
	CompletedOrders int     `json:"completed_orders"`
	AvgRating       float64 `json:"avg_rating"`
}

type Store interface {
	CreateProvider(ctx context.Context, p *Provider) error
	GetProvider(ctx context.Context, id uuid.UUID) (*Provider, error)
	ListProviders(ctx context.Context, filter ProviderFilter) ([]*Provider, error)
	UpdateProvider(ctx context.Context, p *Provider) error

	// ListActiveProviders returns the full active population for a tenant,
	// the candidate-selection input.
	ListActiveProviders(ctx context.Context, tenantID string) ([]*Provider, error)

	CreateWorkOrder(ctx context.Context, wo *WorkOrder) error
	GetWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, wo *WorkOrder) error

	// ListWorkOrdersSince returns a provider's work orders assigned at or
	// after the cutoff, newest first.
	ListWorkOrdersSince(ctx context.Context, providerID uuid.UUID, since time.Time) ([]*WorkOrder, error)
	CountPendingWorkOrders(ctx context.Context, providerID uuid.UUID) (int, error)

	CreateReview(ctx context.Context, r *Review) error
	ListReviewsSince(ctx context.Context, providerID uuid.UUID, since time.Time) ([]*Review, error)

	CreateAvailabilityWindow(ctx context.Context, w *AvailabilityWindow) error
	// CurrentAvailability returns the window covering the given instant, or
	// nil when none covers it.
	CurrentAvailability(ctx context.Context, providerID uuid.UUID, at time.Time) (*AvailabilityWindow, error)

	GetStats(ctx context.Context, tenantID string) (*TenantStats, error)

	Close() error
}
