package model

// ResultRow строка сводки: номинация, участник и число голосов за него.
// ParticipantID и ParticipantName равны nil, если в номинации нет участников.
type ResultRow struct {
	NominationID    int64
	NominationName  string
	ParticipantID   *int64
	ParticipantName *string
	Votes           int64
}

// UserVote голос пользователя в читаемом виде.
type UserVote struct {
	NominationName  string
	ParticipantName string
}

type ParticipantInfo struct {
	ParticipantID   int64
	ParticipantName string
	NominationID    int64
	NominationName  string
}

// VoterDetail строка отчета "кто голосовал".
type VoterDetail struct {
	UserID          int64
	NominationName  string
	ParticipantName string
	VoterInfo
}
