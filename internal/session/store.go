package session

import (
	"sync"
	"time"

	"github.com/ivanoskov/awards_bot/internal/model"
)

// Store хранит позицию каждого пользователя в диалоге. Данные живут только в
// памяти процесса и пропадают после SESSION_TTL бездействия.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	states map[int64]model.UserState
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:    ttl,
		now:    time.Now,
		states: make(map[int64]model.UserState),
	}
}

// Get возвращает состояние пользователя; отсутствующая или просроченная
// сессия считается Idle.
func (s *Store) Get(userID int64) model.UserState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[userID]
	if !ok {
		return model.UserState{UserID: userID, State: model.StateIdle}
	}
	if s.expired(state) {
		delete(s.states, userID)
		return model.UserState{UserID: userID, State: model.StateIdle}
	}
	return state
}

// Set переводит пользователя в новое состояние с выбранной номинацией.
// Переход в Idle равносилен Clear.
func (s *Store) Set(userID int64, state model.ConversationState, nominationID int64) {
	if state == model.StateIdle {
		s.Clear(userID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[userID] = model.UserState{
		UserID:       userID,
		State:        state,
		NominationID: nominationID,
		UpdatedAt:    s.now(),
	}
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// Sweep удаляет просроченные сессии и возвращает их количество
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, state := range s.states {
		if s.expired(state) {
			delete(s.states, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *Store) expired(state model.UserState) bool {
	return s.ttl > 0 && s.now().Sub(state.UpdatedAt) > s.ttl
}
