package model

import "time"

// ConversationState позиция пользователя в диалоге
type ConversationState int

const (
	StateIdle ConversationState = iota
	// Пользователь выбрал номинацию и должен выбрать участника
	StateAwaitingParticipant
	// Администратор выбирает номинацию для добавления участника
	StateAwaitingAddNomination
	// Администратор вводит имя нового участника
	StateAwaitingParticipantName
	// Администратор выбирает номинацию для удаления участника
	StateAwaitingDeleteNomination
	// Администратор выбирает участника для удаления
	StateAwaitingDeleteParticipant
)

func (s ConversationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingParticipant:
		return "awaiting_participant"
	case StateAwaitingAddNomination:
		return "awaiting_add_nomination"
	case StateAwaitingParticipantName:
		return "awaiting_participant_name"
	case StateAwaitingDeleteNomination:
		return "awaiting_delete_nomination"
	case StateAwaitingDeleteParticipant:
		return "awaiting_delete_participant"
	default:
		return "unknown"
	}
}

// UserState представляет текущее состояние пользователя. Не сохраняется в БД.
type UserState struct {
	UserID       int64
	State        ConversationState
	NominationID int64
	UpdatedAt    time.Time
}
