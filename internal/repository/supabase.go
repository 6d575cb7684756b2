package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	postgrest "github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/awards_bot/internal/model"
)

const (
	tableNominations  = "nominations"
	tableParticipants = "participants"
	tableVotes        = "votes"

	voteColumns = "user_id,nomination_id,participant_id,first_name,last_name,username"

	// max_rows PostgREST в Supabase по умолчанию
	defaultPageSize = 1000

	// нарушение внешнего ключа в PostgreSQL
	codeForeignKeyViolation = "(23503)"
)

// SupabaseRepository хранит данные в Supabase через PostgREST.
// Схема (уникальный индекс голосов и каскадные ключи) описана в migrations/supabase.sql.
type SupabaseRepository struct {
	client   *supabase.Client
	logger   *slog.Logger
	pageSize int
}

func NewSupabaseRepository(url, key string, log *slog.Logger) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	return &SupabaseRepository{
		client:   client,
		logger:   log,
		pageSize: defaultPageSize,
	}, nil
}

// votePayload не содержит id: при upsert строка сохраняет свой первичный ключ.
type votePayload struct {
	UserID        int64     `json:"user_id"`
	NominationID  int64     `json:"nomination_id"`
	ParticipantID int64     `json:"participant_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Username      string    `json:"username"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *SupabaseRepository) EnsureNominations(ctx context.Context, names []string) error {
	defer observe("ensure_nominations", time.Now())

	rows := make([]model.Nomination, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			rows = append(rows, model.Nomination{Name: name})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	_, _, err := r.client.From(tableNominations).Insert(rows, true, "name", "minimal", "").Execute()
	if err != nil {
		return r.logError("ensure_nominations_failed", err, "count", len(rows))
	}
	return nil
}

func (r *SupabaseRepository) ListNominations(ctx context.Context) ([]model.Nomination, error) {
	defer observe("list_nominations", time.Now())

	nominations, err := r.fetchNominations()
	if err != nil {
		return nil, r.logError("list_nominations_failed", err)
	}
	return nominations, nil
}

func (r *SupabaseRepository) ListParticipants(ctx context.Context, nominationID int64) ([]model.Participant, error) {
	defer observe("list_participants", time.Now())

	participants, err := selectAll[model.Participant](r, tableParticipants, "id,nomination_id,name",
		map[string]string{"nomination_id": strconv.FormatInt(nominationID, 10)})
	if err != nil {
		return nil, r.logError("list_participants_failed", err, "nomination_id", nominationID)
	}
	return participants, nil
}

func (r *SupabaseRepository) AddParticipant(ctx context.Context, nominationID int64, name string) (int64, error) {
	defer observe("add_participant", time.Now())

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: participant name is empty", model.ErrValidation)
	}

	var nominations []model.Nomination
	data, _, err := r.client.From(tableNominations).
		Select("id,name", "", false).
		Eq("id", strconv.FormatInt(nominationID, 10)).
		Execute()
	if err != nil {
		return 0, r.logError("add_participant_failed", err, "nomination_id", nominationID)
	}
	if err := json.Unmarshal(data, &nominations); err != nil {
		return 0, fmt.Errorf("failed to parse nomination: %w", err)
	}
	if len(nominations) == 0 {
		return 0, fmt.Errorf("%w: nomination %d", model.ErrNotFound, nominationID)
	}

	participant := model.Participant{NominationID: nominationID, Name: name}
	data, _, err = r.client.From(tableParticipants).Insert(participant, false, "", "representation", "").Execute()
	if err != nil {
		return 0, r.logError("add_participant_failed", err, "nomination_id", nominationID)
	}

	// Парсим ответ для получения ID
	var created []model.Participant
	if err := json.Unmarshal(data, &created); err != nil {
		return 0, fmt.Errorf("failed to parse created participant: %w", err)
	}
	if len(created) == 0 {
		return 0, fmt.Errorf("participant insert returned no rows")
	}
	return created[0].ID, nil
}

// DeleteParticipant сначала удаляет голоса, затем участника; внешний ключ
// ON DELETE CASCADE в схеме покрывает голоса, добавленные между запросами.
func (r *SupabaseRepository) DeleteParticipant(ctx context.Context, participantID int64) error {
	defer observe("delete_participant", time.Now())

	id := strconv.FormatInt(participantID, 10)
	if _, _, err := r.client.From(tableVotes).Delete("minimal", "").Eq("participant_id", id).Execute(); err != nil {
		return r.logError("delete_participant_failed", err, "participant_id", participantID)
	}
	if _, _, err := r.client.From(tableParticipants).Delete("minimal", "").Eq("id", id).Execute(); err != nil {
		return r.logError("delete_participant_failed", err, "participant_id", participantID)
	}
	return nil
}

func (r *SupabaseRepository) GetParticipantInfo(ctx context.Context, participantID int64) (*model.ParticipantInfo, error) {
	defer observe("get_participant_info", time.Now())

	participant, err := r.findParticipant(participantID)
	if err != nil {
		return nil, r.logError("get_participant_info_failed", err, "participant_id", participantID)
	}
	if participant == nil {
		return nil, fmt.Errorf("%w: participant %d", model.ErrNotFound, participantID)
	}

	var nominations []model.Nomination
	data, _, err := r.client.From(tableNominations).
		Select("id,name", "", false).
		Eq("id", strconv.FormatInt(participant.NominationID, 10)).
		Execute()
	if err != nil {
		return nil, r.logError("get_participant_info_failed", err, "participant_id", participantID)
	}
	if err := json.Unmarshal(data, &nominations); err != nil {
		return nil, fmt.Errorf("failed to parse nomination: %w", err)
	}
	if len(nominations) == 0 {
		return nil, fmt.Errorf("%w: nomination %d", model.ErrNotFound, participant.NominationID)
	}

	return &model.ParticipantInfo{
		ParticipantID:   participant.ID,
		ParticipantName: participant.Name,
		NominationID:    nominations[0].ID,
		NominationName:  nominations[0].Name,
	}, nil
}

// CastVote делает upsert с on_conflict=user_id,nomination_id: вставка и
// перезапись выполняются одним запросом INSERT ... ON CONFLICT на стороне БД.
// Принадлежность участника номинации проверяет вызывающий код; удаленный
// участник отсекается внешним ключом.
func (r *SupabaseRepository) CastVote(ctx context.Context, vote *model.Vote) error {
	defer observe("cast_vote", time.Now())

	payload := votePayload{
		UserID:        vote.UserID,
		NominationID:  vote.NominationID,
		ParticipantID: vote.ParticipantID,
		FirstName:     vote.FirstName,
		LastName:      vote.LastName,
		Username:      vote.Username,
		UpdatedAt:     time.Now().UTC(),
	}
	_, _, err := r.client.From(tableVotes).Insert(payload, true, "user_id,nomination_id", "minimal", "").Execute()
	if err != nil {
		if strings.Contains(err.Error(), codeForeignKeyViolation) {
			return fmt.Errorf("%w: participant %d", model.ErrNotFound, vote.ParticipantID)
		}
		return r.logError("cast_vote_failed", err,
			"user_id", vote.UserID,
			"nomination_id", vote.NominationID,
			"participant_id", vote.ParticipantID,
		)
	}
	return nil
}

func (r *SupabaseRepository) GetUserVotes(ctx context.Context, userID int64) ([]model.UserVote, error) {
	defer observe("get_user_votes", time.Now())

	votes, err := selectAll[model.Vote](r, tableVotes, voteColumns,
		map[string]string{"user_id": strconv.FormatInt(userID, 10)})
	if err != nil {
		return nil, r.logError("get_user_votes_failed", err, "user_id", userID)
	}

	nominations, participants, err := r.fetchCatalog()
	if err != nil {
		return nil, r.logError("get_user_votes_failed", err, "user_id", userID)
	}
	return tallyUserVotes(userID, nominations, participants, votes), nil
}

func (r *SupabaseRepository) GetResultsByNomination(ctx context.Context) ([]model.ResultRow, error) {
	defer observe("get_results", time.Now())

	nominations, participants, votes, err := r.fetchAll()
	if err != nil {
		return nil, r.logError("get_results_failed", err)
	}
	return tallyResults(nominations, participants, votes), nil
}

func (r *SupabaseRepository) GetTotalVoteCount(ctx context.Context) (int64, error) {
	defer observe("get_total_votes", time.Now())

	_, count, err := r.client.From(tableVotes).Select("id", "exact", true).Execute()
	if err != nil {
		return 0, r.logError("get_total_votes_failed", err)
	}
	return count, nil
}

func (r *SupabaseRepository) GetVotersDetail(ctx context.Context) ([]model.VoterDetail, error) {
	defer observe("get_voters_detail", time.Now())

	nominations, participants, votes, err := r.fetchAll()
	if err != nil {
		return nil, r.logError("get_voters_detail_failed", err)
	}
	return tallyVotersDetail(nominations, participants, votes), nil
}

func (r *SupabaseRepository) Close() error {
	return nil
}

// findParticipant возвращает nil, nil если участник не найден.
func (r *SupabaseRepository) findParticipant(participantID int64) (*model.Participant, error) {
	data, _, err := r.client.From(tableParticipants).
		Select("id,nomination_id,name", "", false).
		Eq("id", strconv.FormatInt(participantID, 10)).
		Execute()
	if err != nil {
		return nil, err
	}
	var participants []model.Participant
	if err := json.Unmarshal(data, &participants); err != nil {
		return nil, fmt.Errorf("failed to parse participant: %w", err)
	}
	if len(participants) == 0 {
		return nil, nil
	}
	return &participants[0], nil
}

// selectAll читает таблицу страницами по pageSize строк, упорядочив по id.
// PostgREST отдает не больше max_rows строк за запрос, поэтому чтение
// продолжается, пока не получено столько строк, сколько вернул count=exact.
func selectAll[T any](r *SupabaseRepository, table, columns string, filters map[string]string) ([]T, error) {
	var rows []T
	for {
		query := r.client.From(table).Select(columns, "exact", false)
		for column, value := range filters {
			query = query.Eq(column, value)
		}

		from := len(rows)
		data, total, err := query.
			Order("id", &postgrest.OrderOpts{Ascending: true}).
			Range(from, from+r.pageSize-1, "").
			Execute()
		if err != nil {
			return nil, err
		}

		var page []T
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", table, err)
		}
		rows = append(rows, page...)
		if len(page) == 0 || int64(len(rows)) >= total {
			return rows, nil
		}
	}
}

func (r *SupabaseRepository) fetchNominations() ([]model.Nomination, error) {
	return selectAll[model.Nomination](r, tableNominations, "id,name", nil)
}

func (r *SupabaseRepository) fetchCatalog() ([]model.Nomination, []model.Participant, error) {
	nominations, err := r.fetchNominations()
	if err != nil {
		return nil, nil, err
	}
	participants, err := selectAll[model.Participant](r, tableParticipants, "id,nomination_id,name", nil)
	if err != nil {
		return nil, nil, err
	}
	return nominations, participants, nil
}

func (r *SupabaseRepository) fetchAll() ([]model.Nomination, []model.Participant, []model.Vote, error) {
	nominations, participants, err := r.fetchCatalog()
	if err != nil {
		return nil, nil, nil, err
	}
	votes, err := selectAll[model.Vote](r, tableVotes, voteColumns, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return nominations, participants, votes, nil
}

func (r *SupabaseRepository) logError(event string, err error, attrs ...any) error {
	fields := append([]any{"event", event, "layer", "repository", "backend", "supabase", "error", err.Error()}, attrs...)
	r.logger.Error("storage operation failed", fields...)
	return fmt.Errorf("%s: %w", event, err)
}

var _ Repository = (*SupabaseRepository)(nil)
