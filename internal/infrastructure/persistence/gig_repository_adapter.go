package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const gigColumns = `id, owner_id, title, description, budget, deadline, skills, category, status,
	hired_freelancer_id, accepted_bid_id, created_at, updated_at`

// GigRepositoryAdapter работает и поверх *sqlx.DB, и поверх *sqlx.Tx.
type GigRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewGigRepositoryAdapter(db *sqlx.DB) *GigRepositoryAdapter {
	return &GigRepositoryAdapter{db: db}
}

func (r *GigRepositoryAdapter) Create(ctx context.Context, gig *entity.Gig) error {
	query := `
		INSERT INTO gigs (` + gigColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		gig.ID,
		gig.OwnerID,
		gig.Title,
		gig.Description,
		gig.Budget.Float64(),
		gig.Deadline,
		pq.Array(gig.Skills),
		string(gig.Category),
		string(gig.Status),
		gig.HiredFreelancerID,
		gig.AcceptedBidID,
		gig.CreatedAt,
		gig.UpdatedAt,
	)
	if err != nil {
		return apperror.Storage(err, "не удалось создать заказ")
	}
	return nil
}

func (r *GigRepositoryAdapter) Update(ctx context.Context, gig *entity.Gig) error {
	query := `
		UPDATE gigs
		SET title = $2, description = $3, budget = $4, deadline = $5, skills = $6,
		    category = $7, status = $8, hired_freelancer_id = $9, accepted_bid_id = $10,
		    updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		gig.ID,
		gig.Title,
		gig.Description,
		gig.Budget.Float64(),
		gig.Deadline,
		pq.Array(gig.Skills),
		string(gig.Category),
		string(gig.Status),
		gig.HiredFreelancerID,
		gig.AcceptedBidID,
		gig.UpdatedAt,
	)
	if err != nil {
		return apperror.Storage(err, "не удалось обновить заказ")
	}
	return expectAffected(result, apperror.ErrGigNotFound)
}

func (r *GigRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gigs WHERE id = $1`, id)
	if err != nil {
		return apperror.Storage(err, "не удалось удалить заказ")
	}
	return expectAffected(result, apperror.ErrGigNotFound)
}

func (r *GigRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.findOne(ctx, `SELECT `+gigColumns+` FROM gigs WHERE id = $1`, id)
}

func (r *GigRepositoryAdapter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.findOne(ctx, `SELECT `+gigColumns+` FROM gigs WHERE id = $1 FOR UPDATE`, id)
}

func (r *GigRepositoryAdapter) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.findOne(ctx, `SELECT `+gigColumns+` FROM gigs WHERE id = $1 FOR SHARE`, id)
}

func (r *GigRepositoryAdapter) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Gig, error) {
	query := `SELECT ` + gigColumns + ` FROM gigs WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	var rows []gigRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, ownerID); err != nil {
		return nil, apperror.Storage(err, "не удалось получить заказы")
	}
	return toGigEntities(rows), nil
}

func (r *GigRepositoryAdapter) List(ctx context.Context, filter repository.GigFilter) ([]*entity.Gig, int, error) {
	where, args := buildGigFilter(filter)

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM gigs`+where, args...); err != nil {
		return nil, 0, apperror.Storage(err, "не удалось посчитать заказы")
	}

	query := `SELECT ` + gigColumns + ` FROM gigs` + where + ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []gigRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, 0, apperror.Storage(err, "не удалось получить заказы")
	}
	return toGigEntities(rows), total, nil
}

func (r *GigRepositoryAdapter) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Gig, error) {
	var row gigRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		return nil, wrapQueryError(err, apperror.ErrGigNotFound, "не удалось получить заказ")
	}
	return row.toEntity(), nil
}

func buildGigFilter(filter repository.GigFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.Category != "" {
		add("category = $%d", string(filter.Category))
	}
	if filter.MinBudget != nil {
		add("budget >= $%d", *filter.MinBudget)
	}
	if filter.MaxBudget != nil {
		add("budget <= $%d", *filter.MaxBudget)
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type gigRow struct {
	ID                uuid.UUID      `db:"id"`
	OwnerID           uuid.UUID      `db:"owner_id"`
	Title             string         `db:"title"`
	Description       string         `db:"description"`
	Budget            float64        `db:"budget"`
	Deadline          time.Time      `db:"deadline"`
	Skills            pq.StringArray `db:"skills"`
	Category          string         `db:"category"`
	Status            string         `db:"status"`
	HiredFreelancerID uuid.NullUUID  `db:"hired_freelancer_id"`
	AcceptedBidID     uuid.NullUUID  `db:"accepted_bid_id"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func (g *gigRow) toEntity() *entity.Gig {
	gig := &entity.Gig{
		ID:          g.ID,
		OwnerID:     g.OwnerID,
		Title:       g.Title,
		Description: g.Description,
		Budget:      valueobject.Money(g.Budget),
		Deadline:    g.Deadline,
		Skills:      []string(g.Skills),
		Category:    valueobject.Category(g.Category),
		Status:      valueobject.GigStatus(g.Status),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if g.HiredFreelancerID.Valid {
		id := g.HiredFreelancerID.UUID
		gig.HiredFreelancerID = &id
	}
	if g.AcceptedBidID.Valid {
		id := g.AcceptedBidID.UUID
		gig.AcceptedBidID = &id
	}
	return gig
}

func toGigEntities(rows []gigRow) []*entity.Gig {
	result := make([]*entity.Gig, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toEntity())
	}
	return result
}
