package model

// Nomination номинация, в которой пользователь отдаёт один голос.
type Nomination struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	Name string `gorm:"not null;uniqueIndex" json:"name"`
}

// Participant участник номинации.
type Participant struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	NominationID int64       `gorm:"not null;index" json:"nomination_id"`
	Name         string      `gorm:"not null" json:"name"`
	Nomination   *Nomination `gorm:"foreignKey:NominationID;constraint:OnDelete:CASCADE" json:"-"`
}
