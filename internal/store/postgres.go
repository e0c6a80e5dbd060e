package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const providerColumns = `id, tenant_id, name, category, rating, active,
	contact_email, phone, created_at, updated_at`

func (s *PostgresStore) CreateProvider(ctx context.Context, p *Provider) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO providers (tenant_id, name, category, rating, active, contact_email, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.TenantID, p.Name, p.Category, p.Rating, p.Active, p.ContactEmail, p.Phone,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) GetProvider(ctx context.Context, id uuid.UUID) (*Provider, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+providerColumns+`
		FROM providers WHERE id = $1`, id)
	p, err := scanProvider(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListProviders(ctx context.Context, filter ProviderFilter) ([]*Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.TenantID != "" {
		n++
		query += fmt.Sprintf(" AND tenant_id = $%d", n)
		args = append(args, filter.TenantID)
	}
	if filter.Category != "" {
		n++
		query += fmt.Sprintf(" AND category ILIKE $%d", n)
		args = append(args, "%"+filter.Category+"%")
	}
	if filter.ActiveOnly {
		query += " AND active = TRUE"
	}

	query += " ORDER BY name ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProviders(rows)
}

func (s *PostgresStore) UpdateProvider(ctx context.Context, p *Provider) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE providers SET
			name = $2, category = $3, rating = $4, active = $5,
			contact_email = $6, phone = $7, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Category, p.Rating, p.Active, p.ContactEmail, p.Phone,
	)
	return err
}

func (s *PostgresStore) ListActiveProviders(ctx context.Context, tenantID string) ([]*Provider, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+providerColumns+`
		FROM providers WHERE tenant_id = $1 AND active = TRUE
		ORDER BY name ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProviders(rows)
}

const workOrderColumns = `id, tenant_id, provider_id, title, status,
	assigned_at, estimated_completion_at, started_at, completed_at,
	created_at, updated_at`

func (s *PostgresStore) CreateWorkOrder(ctx context.Context, wo *WorkOrder) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO work_orders (tenant_id, provider_id, title, status, assigned_at, estimated_completion_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		wo.TenantID, wo.ProviderID, wo.Title, wo.Status, wo.AssignedAt, wo.EstimatedCompletionAt,
	).Scan(&wo.ID, &wo.CreatedAt, &wo.UpdatedAt)
}

func (s *PostgresStore) GetWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+workOrderColumns+`
		FROM work_orders WHERE id = $1`, id)
	wo, err := scanWorkOrder(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return wo, nil
}

func (s *PostgresStore) UpdateWorkOrder(ctx context.Context, wo *WorkOrder) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE work_orders SET
			title = $2, status = $3,
			estimated_completion_at = $4, started_at = $5, completed_at = $6,
			updated_at = now()
		WHERE id = $1`,
		wo.ID, wo.Title, wo.Status,
		wo.EstimatedCompletionAt, wo.StartedAt, wo.CompletedAt,
	)
	return err
}

func (s *PostgresStore) ListWorkOrdersSince(ctx context.Context, providerID uuid.UUID, since time.Time) ([]*WorkOrder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+workOrderColumns+`
		FROM work_orders WHERE provider_id = $1 AND assigned_at >= $2
		ORDER BY assigned_at DESC`, providerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, wo)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) CountPendingWorkOrders(ctx context.Context, providerID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM work_orders
		WHERE provider_id = $1 AND status IN ('assigned', 'in_progress')`, providerID,
	).Scan(&count)
	return count, err
}

func (s *PostgresStore) CreateReview(ctx context.Context, r *Review) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO reviews (tenant_id, provider_id, work_order_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		r.TenantID, r.ProviderID, r.WorkOrderID, r.Rating, r.Comment,
	).Scan(&r.ID, &r.CreatedAt)
}

func (s *PostgresStore) ListReviewsSince(ctx context.Context, providerID uuid.UUID, since time.Time) ([]*Review, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, provider_id, work_order_id, rating, comment, created_at
		FROM reviews WHERE provider_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`, providerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		r := &Review{}
		var comment sql.NullString
		if err := rows.Scan(&r.ID, &r.TenantID, &r.ProviderID, &r.WorkOrderID, &r.Rating, &comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		if comment.Valid {
			r.Comment = comment.String
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *PostgresStore) CreateAvailabilityWindow(ctx context.Context, w *AvailabilityWindow) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO availability_windows (provider_id, state, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		w.ProviderID, w.State, w.StartsAt, w.EndsAt,
	).Scan(&w.ID, &w.CreatedAt)
}

func (s *PostgresStore) CurrentAvailability(ctx context.Context, providerID uuid.UUID, at time.Time) (*AvailabilityWindow, error) {
	w := &AvailabilityWindow{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, provider_id, state, starts_at, ends_at, created_at
		FROM availability_windows
		WHERE provider_id = $1 AND starts_at <= $2 AND ends_at >= $2
		ORDER BY created_at DESC
		LIMIT 1`, providerID, at,
	).Scan(&w.ID, &w.ProviderID, &w.State, &w.StartsAt, &w.EndsAt, &w.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *PostgresStore) GetStats(ctx context.Context, tenantID string) (*TenantStats, error) {
	stats := &TenantStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN active THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(rating), 0)
		FROM providers WHERE tenant_id = $1`, tenantID,
	).Scan(&stats.TotalProviders, &stats.ActiveProviders, &stats.AvgRating)
	if err != nil {
		return nil, err
	}
	err = s.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status IN ('assigned','in_progress') THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0)
		FROM work_orders WHERE tenant_id = $1`, tenantID,
	).Scan(&stats.OpenWorkOrders, &stats.CompletedOrders)
	return stats, err
}

func scanProvider(row pgx.Row) (*Provider, error) {
	p := &Provider{}
	var email, phone sql.NullString
	if err := row.Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Category, &p.Rating, &p.Active,
		&email, &phone, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if email.Valid {
		p.ContactEmail = email.String
	}
	if phone.Valid {
		p.Phone = phone.String
	}
	return p, nil
}

func scanProviders(rows pgx.Rows) ([]*Provider, error) {
	var providers []*Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func scanWorkOrder(row pgx.Row) (*WorkOrder, error) {
	wo := &WorkOrder{}
	if err := row.Scan(
		&wo.ID, &wo.TenantID, &wo.ProviderID, &wo.Title, &wo.Status,
		&wo.AssignedAt, &wo.EstimatedCompletionAt, &wo.StartedAt, &wo.CompletedAt,
		&wo.CreatedAt, &wo.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return wo, nil
}
