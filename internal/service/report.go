package service

import (
	"context"
	"fmt"

	"github.com/ivanoskov/awards_bot/internal/model"
)

// Report сводка голосования по номинациям
type Report struct {
	Nominations []NominationResult
	// Total считается отдельным запросом и должен совпадать с Sum
	Total int64
	Sum   int64
}

// NominationResult содержит участников номинации по убыванию голосов
type NominationResult struct {
	ID           int64
	Name         string
	Participants []ParticipantResult
	Votes        int64
}

type ParticipantResult struct {
	ID    int64
	Name  string
	Votes int64
}

// Voter строка списка "кто голосовал", сгруппированная по пользователю
type Voter struct {
	UserID int64
	model.VoterInfo
	Votes []model.UserVote
}

// Consistent сообщает, совпадает ли общий счетчик с суммой по номинациям
func (r *Report) Consistent() bool {
	return r.Total == r.Sum
}

func (s *VotingService) Results(ctx context.Context) (*Report, error) {
	rows, err := s.repo.GetResultsByNomination(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	total, err := s.repo.GetTotalVoteCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total vote count: %w", err)
	}

	report := &Report{
		Nominations: GroupResults(rows),
		Total:       total,
	}
	for _, n := range report.Nominations {
		report.Sum += n.Votes
	}

	if !report.Consistent() {
		// голос мог прийти между двумя запросами
		s.logger.Warn("vote totals diverged", "total", report.Total, "sum", report.Sum)
	}
	return report, nil
}

func (s *VotingService) VoterRoster(ctx context.Context) ([]Voter, error) {
	rows, err := s.repo.GetVotersDetail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get voters: %w", err)
	}
	return GroupVoters(rows), nil
}

// GroupResults собирает строки сводки в номинации, сохраняя порядок строк
func GroupResults(rows []model.ResultRow) []NominationResult {
	var result []NominationResult
	for _, row := range rows {
		if len(result) == 0 || result[len(result)-1].ID != row.NominationID {
			result = append(result, NominationResult{ID: row.NominationID, Name: row.NominationName})
		}
		current := &result[len(result)-1]

		if row.ParticipantID == nil {
			continue
		}
		name := ""
		if row.ParticipantName != nil {
			name = *row.ParticipantName
		}
		current.Participants = append(current.Participants, ParticipantResult{
			ID:    *row.ParticipantID,
			Name:  name,
			Votes: row.Votes,
		})
		current.Votes += row.Votes
	}
	return result
}

// GroupVoters группирует голоса по пользователю. Строки уже упорядочены по
// user_id; данные голосующего берутся из первой строки.
func GroupVoters(rows []model.VoterDetail) []Voter {
	var voters []Voter
	for _, row := range rows {
		if len(voters) == 0 || voters[len(voters)-1].UserID != row.UserID {
			voters = append(voters, Voter{UserID: row.UserID, VoterInfo: row.VoterInfo})
		}
		current := &voters[len(voters)-1]
		current.Votes = append(current.Votes, model.UserVote{
			NominationName:  row.NominationName,
			ParticipantName: row.ParticipantName,
		})
	}
	return voters
}
