package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// VoterInfo отображаемые данные голосующего, все поля необязательны.
type VoterInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// DisplayName склеивает имя и фамилию.
func (v VoterInfo) DisplayName() string {
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}

// Vote хранит текущий выбор пользователя в номинации.
// На пару (UserID, NominationID) существует не больше одной строки.
type Vote struct {
	ID            string       `gorm:"primaryKey;size:36" json:"id,omitempty"`
	UserID        int64        `gorm:"not null;uniqueIndex:idx_votes_user_nomination" json:"user_id"`
	NominationID  int64        `gorm:"not null;uniqueIndex:idx_votes_user_nomination" json:"nomination_id"`
	ParticipantID int64        `gorm:"not null;index" json:"participant_id"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Username      string       `json:"username"`
	CreatedAt     time.Time    `json:"created_at,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at,omitempty"`
	Nomination    *Nomination  `gorm:"foreignKey:NominationID;constraint:OnDelete:CASCADE" json:"-"`
	Participant   *Participant `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
}

// GenerateID генерирует новый UUID для голоса, если он еще не установлен
func (v *Vote) GenerateID() {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
}

func (v Vote) Voter() VoterInfo {
	return VoterInfo{FirstName: v.FirstName, LastName: v.LastName, Username: v.Username}
}
