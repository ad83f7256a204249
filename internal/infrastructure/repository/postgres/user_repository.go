package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
	qb "github.com/riskibarqy/trip-recommender/internal/platform/querybuilder"
	"github.com/riskibarqy/trip-recommender/internal/usecase"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID loads the user together with the full interaction history.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(
			qb.Eq("public_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by id query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by id: %w", err)
	}

	historyQuery, historyArgs, err := qb.Select("*").From("user_interactions").
		Where(qb.Eq("user_public_id", userID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user interactions query: %w", err)
	}

	var historyRows []userInteractionTableModel
	if err := r.db.SelectContext(ctx, &historyRows, historyQuery, historyArgs...); err != nil {
		return user.User{}, false, fmt.Errorf("select user interactions: %w", err)
	}

	out := user.User{
		ID:   row.PublicID,
		Tier: user.ParseTier(row.Tier),
		Preferences: user.Preferences{
			FavoriteTeams:        append([]string(nil), row.FavoriteTeams...),
			FavoriteLeagues:      append([]string(nil), row.FavoriteLeagues...),
			FavoriteVenues:       append([]string(nil), row.FavoriteVenues...),
			Strength:             user.ParsePreferenceStrength(row.PreferenceStrength),
			RecommendationRadius: row.RecommendationRadius,
		},
		History: make([]user.Interaction, 0, len(historyRows)),
	}
	for _, item := range historyRows {
		action, err := user.ParseAction(item.Action)
		if err != nil {
			continue
		}
		out.History = append(out.History, user.Interaction{
			MatchID: item.MatchID,
			TripID:  item.TripPublicID,
			Action:  action,
			At:      item.CreatedAt.UTC(),
			Score:   item.Score,
			Reason:  item.Reason,
		})
	}

	return out, true, nil
}

func (r *UserRepository) AppendInteraction(ctx context.Context, userID string, item user.Interaction) error {
	at := item.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	query, args, err := qb.InsertModel("user_interactions", userInteractionInsertModel{
		UserPublicID: strings.TrimSpace(userID),
		TripPublicID: item.TripID,
		MatchID:      item.MatchID,
		Action:       string(item.Action),
		Score:        item.Score,
		Reason:       item.Reason,
		CreatedAt:    at,
	})
	if err != nil {
		return fmt.Errorf("build insert user interaction query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user=%s", usecase.ErrNotFound, userID)
		}
		return fmt.Errorf("insert user interaction: %w", err)
	}

	return nil
}
