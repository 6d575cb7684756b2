package repository

import (
	"sort"

	"github.com/ivanoskov/awards_bot/internal/model"
)

// Агрегации для бэкендов без SQL (Supabase). Порядок строк совпадает с
// запросами GormRepository.

type voteIndex struct {
	nominations  map[int64]model.Nomination
	participants map[int64]model.Participant
}

func newVoteIndex(nominations []model.Nomination, participants []model.Participant) voteIndex {
	idx := voteIndex{
		nominations:  make(map[int64]model.Nomination, len(nominations)),
		participants: make(map[int64]model.Participant, len(participants)),
	}
	for _, n := range nominations {
		idx.nominations[n.ID] = n
	}
	for _, p := range participants {
		idx.participants[p.ID] = p
	}
	return idx
}

// resolve повторяет INNER JOIN голоса с номинацией и участником.
func (idx voteIndex) resolve(v model.Vote) (model.Nomination, model.Participant, bool) {
	n, ok := idx.nominations[v.NominationID]
	if !ok {
		return model.Nomination{}, model.Participant{}, false
	}
	p, ok := idx.participants[v.ParticipantID]
	if !ok {
		return model.Nomination{}, model.Participant{}, false
	}
	return n, p, true
}

func tallyResults(nominations []model.Nomination, participants []model.Participant, votes []model.Vote) []model.ResultRow {
	counts := make(map[int64]int64)
	for _, v := range votes {
		counts[v.ParticipantID]++
	}

	byNomination := make(map[int64][]model.Participant)
	for _, p := range participants {
		byNomination[p.NominationID] = append(byNomination[p.NominationID], p)
	}

	sorted := append([]model.Nomination(nil), nominations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	rows := make([]model.ResultRow, 0, len(sorted)+len(participants))
	for _, n := range sorted {
		list := byNomination[n.ID]
		if len(list) == 0 {
			rows = append(rows, model.ResultRow{NominationID: n.ID, NominationName: n.Name})
			continue
		}

		sort.Slice(list, func(i, j int) bool {
			ci, cj := counts[list[i].ID], counts[list[j].ID]
			if ci != cj {
				return ci > cj
			}
			return list[i].ID < list[j].ID
		})
		for _, p := range list {
			id, name := p.ID, p.Name
			rows = append(rows, model.ResultRow{
				NominationID:    n.ID,
				NominationName:  n.Name,
				ParticipantID:   &id,
				ParticipantName: &name,
				Votes:           counts[p.ID],
			})
		}
	}
	return rows
}

func tallyUserVotes(userID int64, nominations []model.Nomination, participants []model.Participant, votes []model.Vote) []model.UserVote {
	idx := newVoteIndex(nominations, participants)

	type joined struct {
		nominationID int64
		vote         model.UserVote
	}
	var list []joined
	for _, v := range votes {
		if v.UserID != userID {
			continue
		}
		n, p, ok := idx.resolve(v)
		if !ok {
			continue
		}
		list = append(list, joined{n.ID, model.UserVote{NominationName: n.Name, ParticipantName: p.Name}})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].nominationID < list[j].nominationID })

	result := make([]model.UserVote, 0, len(list))
	for _, j := range list {
		result = append(result, j.vote)
	}
	return result
}

func tallyVotersDetail(nominations []model.Nomination, participants []model.Participant, votes []model.Vote) []model.VoterDetail {
	idx := newVoteIndex(nominations, participants)

	rows := make([]model.VoterDetail, 0, len(votes))
	for _, v := range votes {
		n, p, ok := idx.resolve(v)
		if !ok {
			continue
		}
		rows = append(rows, model.VoterDetail{
			UserID:          v.UserID,
			NominationName:  n.Name,
			ParticipantName: p.Name,
			VoterInfo:       v.Voter(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].UserID != rows[j].UserID {
			return rows[i].UserID < rows[j].UserID
		}
		return rows[i].NominationName < rows[j].NominationName
	})
	return rows
}
