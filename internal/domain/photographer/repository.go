package photographer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Repository runs directory queries
type Repository interface {
	Search(ctx context.Context, filter *Filter, limit, offset int) ([]*Card, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates directory repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// whereClause builds the filter conditions. Arguments are numbered from $1.
func whereClause(filter *Filter) (string, []interface{}) {
	conditions := []string{"u.role = 'photographer'"}
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Specialty != "" {
		p := arg(likePattern(filter.Specialty))
		conditions = append(conditions, fmt.Sprintf("(u.specialty ILIKE %s OR p.specialty ILIKE %s)", p, p))
	}
	if filter.Location != "" {
		conditions = append(conditions, "p.location ILIKE "+arg(likePattern(filter.Location)))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "p.hourly_rate >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "p.hourly_rate <= "+arg(*filter.MaxPrice))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg(likePattern(q))
		conditions = append(conditions, fmt.Sprintf(`(
			u.first_name ILIKE %[1]s OR u.last_name ILIKE %[1]s OR u.email ILIKE %[1]s
			OR u.specialty ILIKE %[1]s OR p.specialty ILIKE %[1]s
			OR p.bio ILIKE %[1]s OR p.location ILIKE %[1]s
			OR EXISTS (
				SELECT 1 FROM portfolio_items pi
				WHERE pi.profile_id = p.id AND (pi.caption ILIKE %[1]s OR pi.category ILIKE %[1]s)
			)
		)`, p))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *repository) Search(ctx context.Context, filter *Filter, limit, offset int) ([]*Card, int, error) {
	where, args := whereClause(filter)
	from := `
		FROM users u
		LEFT JOIN photographer_profiles p ON p.user_id = u.id`

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+from+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count photographers: %w", err)
	}
	if total == 0 {
		return []*Card{}, 0, nil
	}

	query := `
		SELECT u.id AS user_id, u.first_name, u.last_name,
		       COALESCE(p.specialty, u.specialty) AS specialty,
		       p.location, p.hourly_rate, p.avatar_url,
		       img.url AS cover_image_url,
		       COALESCE(rt.average, 0) AS rating_average,
		       COALESCE(rt.count, 0) AS rating_count,
		       u.created_at` + from + `
		LEFT JOIN LATERAL (
			SELECT pi.url FROM portfolio_items pi
			WHERE pi.profile_id = p.id
			ORDER BY pi.created_at DESC
			LIMIT 1
		) img ON TRUE
		LEFT JOIN LATERAL (
			SELECT AVG(rv.rating) AS average, COUNT(*) AS count
			FROM reviews rv
			WHERE rv.photographer_id = u.id
		) rt ON TRUE` + where + fmt.Sprintf(`
		ORDER BY u.created_at DESC, u.id
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	var cards []*Card
	if err := r.db.SelectContext(ctx, &cards, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("search photographers: %w", err)
	}
	return cards, total, nil
}
