package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ivanoskov/awards_bot/internal/metrics"
	"github.com/ivanoskov/awards_bot/internal/model"
)

// VotingService предоставляет сценарии голосования и администрирования
type VotingService struct {
	repo   Repository
	logger *slog.Logger
}

// Repository определяет интерфейс для работы с хранилищем данных
type Repository interface {
	EnsureNominations(ctx context.Context, names []string) error
	ListNominations(ctx context.Context) ([]model.Nomination, error)
	ListParticipants(ctx context.Context, nominationID int64) ([]model.Participant, error)
	AddParticipant(ctx context.Context, nominationID int64, name string) (int64, error)
	DeleteParticipant(ctx context.Context, participantID int64) error
	GetParticipantInfo(ctx context.Context, participantID int64) (*model.ParticipantInfo, error)
	CastVote(ctx context.Context, vote *model.Vote) error
	GetUserVotes(ctx context.Context, userID int64) ([]model.UserVote, error)
	GetResultsByNomination(ctx context.Context) ([]model.ResultRow, error)
	GetTotalVoteCount(ctx context.Context) (int64, error)
	GetVotersDetail(ctx context.Context) ([]model.VoterDetail, error)
}

// NewVotingService создает новый экземпляр VotingService
func NewVotingService(repo Repository, log *slog.Logger) *VotingService {
	if log == nil {
		log = slog.Default()
	}
	return &VotingService{
		repo:   repo,
		logger: log,
	}
}

// Seed создает недостающие номинации из конфигурации. Повторный вызов
// ничего не дублирует.
func (s *VotingService) Seed(ctx context.Context, names []string) error {
	if err := s.repo.EnsureNominations(ctx, names); err != nil {
		return fmt.Errorf("failed to seed nominations: %w", err)
	}
	return nil
}

func (s *VotingService) Nominations(ctx context.Context) ([]model.Nomination, error) {
	return s.repo.ListNominations(ctx)
}

// Nomination ищет номинацию по ID
func (s *VotingService) Nomination(ctx context.Context, nominationID int64) (*model.Nomination, error) {
	nominations, err := s.repo.ListNominations(ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range nominations {
		if n.ID == nominationID {
			return &n, nil
		}
	}
	return nil, fmt.Errorf("%w: nomination %d", model.ErrNotFound, nominationID)
}

func (s *VotingService) Participants(ctx context.Context, nominationID int64) ([]model.Participant, error) {
	return s.repo.ListParticipants(ctx, nominationID)
}

// AddParticipant добавляет участника и возвращает его вместе с номинацией
func (s *VotingService) AddParticipant(ctx context.Context, nominationID int64, name string) (*model.ParticipantInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: participant name is empty", model.ErrValidation)
	}

	id, err := s.repo.AddParticipant(ctx, nominationID, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("participant added", "participant_id", id, "nomination_id", nominationID)

	return s.repo.GetParticipantInfo(ctx, id)
}

// DeleteParticipant удаляет участника вместе с голосами за него.
// Возвращает ErrNotFound, если участника уже нет.
func (s *VotingService) DeleteParticipant(ctx context.Context, participantID int64) (*model.ParticipantInfo, error) {
	info, err := s.repo.GetParticipantInfo(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteParticipant(ctx, participantID); err != nil {
		return nil, err
	}
	s.logger.Info("participant deleted", "participant_id", participantID, "nomination_id", info.NominationID)
	return info, nil
}

// CastVote записывает (или перезаписывает) голос пользователя в номинации.
// Участник из другой номинации отклоняется здесь, хранилище этого не проверяет.
func (s *VotingService) CastVote(ctx context.Context, userID, nominationID, participantID int64, voter model.VoterInfo) (*model.ParticipantInfo, error) {
	info, err := s.repo.GetParticipantInfo(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if info.NominationID != nominationID {
		return nil, fmt.Errorf("%w: participant %d is not in nomination %d", model.ErrNotFound, participantID, nominationID)
	}

	vote := &model.Vote{
		UserID:        userID,
		NominationID:  nominationID,
		ParticipantID: participantID,
		FirstName:     voter.FirstName,
		LastName:      voter.LastName,
		Username:      voter.Username,
	}
	if err := s.repo.CastVote(ctx, vote); err != nil {
		return nil, err
	}

	metrics.VotesCastTotal.Inc()
	s.logger.Debug("vote cast", "user_id", userID, "nomination_id", nominationID, "participant_id", participantID)
	return info, nil
}

func (s *VotingService) UserVotes(ctx context.Context, userID int64) ([]model.UserVote, error) {
	return s.repo.GetUserVotes(ctx, userID)
}
