package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ivanoskov/awards_bot/internal/config"
	"github.com/ivanoskov/awards_bot/internal/model"
)

// Repository хранилище номинаций, участников и голосов.
// Все методы безопасны для одновременного вызова из разных сессий.
type Repository interface {
	// Номинации
	EnsureNominations(ctx context.Context, names []string) error
	ListNominations(ctx context.Context) ([]model.Nomination, error)

	// Участники
	ListParticipants(ctx context.Context, nominationID int64) ([]model.Participant, error)
	AddParticipant(ctx context.Context, nominationID int64, name string) (int64, error)
	DeleteParticipant(ctx context.Context, participantID int64) error
	GetParticipantInfo(ctx context.Context, participantID int64) (*model.ParticipantInfo, error)

	// Голоса
	CastVote(ctx context.Context, vote *model.Vote) error
	GetUserVotes(ctx context.Context, userID int64) ([]model.UserVote, error)

	// Отчеты
	GetResultsByNomination(ctx context.Context) ([]model.ResultRow, error)
	GetTotalVoteCount(ctx context.Context) (int64, error)
	GetVotersDetail(ctx context.Context) ([]model.VoterDetail, error)

	Close() error
}

// Open создает хранилище для бэкенда из конфигурации
func Open(cfg *config.Config, log *slog.Logger) (Repository, error) {
	var (
		repo Repository
		err  error
	)
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		repo, err = NewSQLiteRepository(cfg.SQLitePath, log)
	case config.BackendPostgres:
		repo, err = NewPostgresRepository(cfg.DatabaseURL, log)
	case config.BackendSupabase:
		repo, err = NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}
