package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/trip-recommender/internal/domain/team"
	qb "github.com/riskibarqy/trip-recommender/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}

	return out, nil
}

// teamFromRow trims aliases and drops blanks, repeats and copies of the
// canonical name, all compared case-insensitively.
func teamFromRow(row teamTableModel) team.Team {
	name := strings.TrimSpace(row.Name)
	seen := map[string]struct{}{strings.ToLower(name): {}}
	aliases := make([]string, 0, len(row.Aliases))
	for _, alias := range row.Aliases {
		alias = strings.TrimSpace(alias)
		key := strings.ToLower(alias)
		if _, dup := seen[key]; dup || alias == "" {
			continue
		}
		seen[key] = struct{}{}
		aliases = append(aliases, alias)
	}
	return team.Team{ID: row.PublicID, Name: name, Aliases: aliases}
}
