package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/ivanoskov/awards_bot/internal/model"
)

// GormRepository реализует Repository поверх SQLite или PostgreSQL.
type GormRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSQLiteRepository открывает (или создает) файл базы данных SQLite.
// SQLite допускает одного писателя, поэтому пул ограничен одним соединением;
// уникальность голоса при этом обеспечивает индекс, а не пул.
func NewSQLiteRepository(path string, log *slog.Logger) (*GormRepository, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return newGormRepository(db, log)
}

func NewPostgresRepository(dsn string, log *slog.Logger) (*GormRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return newGormRepository(db, log)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
}

func newGormRepository(db *gorm.DB, log *slog.Logger) (*GormRepository, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := db.AutoMigrate(&model.Nomination{}, &model.Participant{}, &model.Vote{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &GormRepository{db: db, logger: log}, nil
}

func (r *GormRepository) EnsureNominations(ctx context.Context, names []string) error {
	defer observe("ensure_nominations", time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			nomination := model.Nomination{Name: name}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&nomination).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("ensure_nominations_failed", err, "count", len(names))
	}
	return nil
}

func (r *GormRepository) ListNominations(ctx context.Context) ([]model.Nomination, error) {
	defer observe("list_nominations", time.Now())

	var nominations []model.Nomination
	if err := r.db.WithContext(ctx).Order("id").Find(&nominations).Error; err != nil {
		return nil, r.logError("list_nominations_failed", err)
	}
	return nominations, nil
}

func (r *GormRepository) ListParticipants(ctx context.Context, nominationID int64) ([]model.Participant, error) {
	defer observe("list_participants", time.Now())

	var participants []model.Participant
	if err := r.db.WithContext(ctx).
		Where("nomination_id = ?", nominationID).
		Order("id").
		Find(&participants).Error; err != nil {
		return nil, r.logError("list_participants_failed", err, "nomination_id", nominationID)
	}
	return participants, nil
}

func (r *GormRepository) AddParticipant(ctx context.Context, nominationID int64, name string) (int64, error) {
	defer observe("add_participant", time.Now())

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: participant name is empty", model.ErrValidation)
	}

	var id int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Nomination{}).Where("id = ?", nominationID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: nomination %d", model.ErrNotFound, nominationID)
		}

		participant := model.Participant{NominationID: nominationID, Name: name}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		id = participant.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return 0, err
		}
		return 0, r.logError("add_participant_failed", err, "nomination_id", nominationID)
	}
	return id, nil
}

// DeleteParticipant удаляет участника вместе со всеми голосами за него.
// Отсутствующий участник не считается ошибкой.
func (r *GormRepository) DeleteParticipant(ctx context.Context, participantID int64) error {
	defer observe("delete_participant", time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", participantID).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", participantID).Delete(&model.Participant{}).Error
	})
	if err != nil {
		return r.logError("delete_participant_failed", err, "participant_id", participantID)
	}
	return nil
}

func (r *GormRepository) GetParticipantInfo(ctx context.Context, participantID int64) (*model.ParticipantInfo, error) {
	defer observe("get_participant_info", time.Now())

	var info model.ParticipantInfo
	res := r.db.WithContext(ctx).
		Table("participants AS p").
		Select("p.id AS participant_id, p.name AS participant_name, n.id AS nomination_id, n.name AS nomination_name").
		Joins("JOIN nominations AS n ON n.id = p.nomination_id").
		Where("p.id = ?", participantID).
		Limit(1).
		Scan(&info)
	if res.Error != nil {
		return nil, r.logError("get_participant_info_failed", res.Error, "participant_id", participantID)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: participant %d", model.ErrNotFound, participantID)
	}
	return &info, nil
}

// CastVote вставляет голос или перезаписывает участника и данные голосующего
// в уже существующем голосе за ту же номинацию одним INSERT ... ON CONFLICT.
// Принадлежность участника номинации проверяет вызывающий код; несуществующий
// участник отсекается внешним ключом.
func (r *GormRepository) CastVote(ctx context.Context, vote *model.Vote) error {
	defer observe("cast_vote", time.Now())

	vote.GenerateID()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "nomination_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"participant_id", "first_name", "last_name", "username", "updated_at"}),
	}).Create(vote).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: participant %d", model.ErrNotFound, vote.ParticipantID)
	default:
		return r.logError("cast_vote_failed", err,
			"user_id", vote.UserID,
			"nomination_id", vote.NominationID,
			"participant_id", vote.ParticipantID,
		)
	}
}

func (r *GormRepository) GetUserVotes(ctx context.Context, userID int64) ([]model.UserVote, error) {
	defer observe("get_user_votes", time.Now())

	var votes []model.UserVote
	err := r.db.WithContext(ctx).Raw(`
		SELECT n.name AS nomination_name, p.name AS participant_name
		FROM votes v
		JOIN nominations n ON n.id = v.nomination_id
		JOIN participants p ON p.id = v.participant_id
		WHERE v.user_id = ?
		ORDER BY n.id`, userID).Scan(&votes).Error
	if err != nil {
		return nil, r.logError("get_user_votes_failed", err, "user_id", userID)
	}
	return votes, nil
}

func (r *GormRepository) GetResultsByNomination(ctx context.Context) ([]model.ResultRow, error) {
	defer observe("get_results", time.Now())

	var rows []model.ResultRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT n.id AS nomination_id, n.name AS nomination_name,
		       p.id AS participant_id, p.name AS participant_name,
		       COUNT(v.id) AS votes
		FROM nominations n
		LEFT JOIN participants p ON p.nomination_id = n.id
		LEFT JOIN votes v ON v.participant_id = p.id
		GROUP BY n.id, n.name, p.id, p.name
		ORDER BY n.id, votes DESC, p.id`).Scan(&rows).Error
	if err != nil {
		return nil, r.logError("get_results_failed", err)
	}
	return rows, nil
}

func (r *GormRepository) GetTotalVoteCount(ctx context.Context) (int64, error) {
	defer observe("get_total_votes", time.Now())

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Vote{}).Count(&total).Error; err != nil {
		return 0, r.logError("get_total_votes_failed", err)
	}
	return total, nil
}

func (r *GormRepository) GetVotersDetail(ctx context.Context) ([]model.VoterDetail, error) {
	defer observe("get_voters_detail", time.Now())

	var rows []model.VoterDetail
	err := r.db.WithContext(ctx).Raw(`
		SELECT v.user_id, n.name AS nomination_name, p.name AS participant_name,
		       v.first_name, v.last_name, v.username
		FROM votes v
		JOIN nominations n ON n.id = v.nomination_id
		JOIN participants p ON p.id = v.participant_id
		ORDER BY v.user_id, n.name`).Scan(&rows).Error
	if err != nil {
		return nil, r.logError("get_voters_detail_failed", err)
	}
	return rows, nil
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *GormRepository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"layer", "repository",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("storage operation failed", fields...)
	return err
}

var _ Repository = (*GormRepository)(nil)
