package bot

import (
	"context"
	"errors"
	"html"
	"slices"

	"github.com/ivanoskov/awards_bot/internal/model"
)

// request событие вместе с состоянием сессии на момент его получения
type request struct {
	Event
	state model.UserState
	admin bool
	// answered на callback уже ответили (уведомлением или алертом)
	answered bool
}

type handlerFunc func(b *Bot, ctx context.Context, r *request) error

type route struct {
	handle handlerFunc
	// только для администраторов; остальным бот не отвечает
	admin bool
	// состояния, в которых событие допустимо; nil означает любое
	states []model.ConversationState
	// сбросить сессию перед обработкой
	resets bool
}

func (rt route) allows(state model.ConversationState) bool {
	return rt.states == nil || slices.Contains(rt.states, state)
}

var routes = map[EventKind]route{
	EventStart:          {handle: (*Bot).handleStart, resets: true},
	EventAdminPanel:     {handle: (*Bot).handleAdminPanel, resets: true},
	EventVote:           {handle: (*Bot).handleVote, resets: true},
	EventMyVotes:        {handle: (*Bot).handleMyVotes, resets: true},
	EventResults:        {handle: (*Bot).handleResults, resets: true},
	EventMainMenu:       {handle: (*Bot).handleMainMenu, resets: true},
	EventUnknownCommand: {handle: (*Bot).handleMainMenu, resets: true},
	EventAdminAdd:       {handle: (*Bot).handleAdminAdd, admin: true, resets: true},
	EventAdminDelete:    {handle: (*Bot).handleAdminDelete, admin: true, resets: true},
	EventAdminStats:     {handle: (*Bot).handleAdminStats, admin: true, resets: true},
	EventAdminVoters:    {handle: (*Bot).handleAdminVoters, admin: true, resets: true},
	EventAdminChart:     {handle: (*Bot).handleAdminChart, admin: true, resets: true},
	EventText:           {handle: (*Bot).handleText},

	EventNominationChosen:  {handle: (*Bot).handleNominationChosen},
	EventParticipantChosen: {handle: (*Bot).handleParticipantChosen, states: []model.ConversationState{model.StateAwaitingParticipant}},
	EventBackToNominations: {handle: (*Bot).handleBackToNominations, resets: true},
	EventBackToMain:        {handle: (*Bot).handleBackToMain, resets: true},

	EventAddNominationChosen: {
		handle: (*Bot).handleAddNominationChosen,
		admin:  true,
		states: []model.ConversationState{model.StateAwaitingAddNomination},
	},
	EventNominationChosenForDeletion: {
		handle: (*Bot).handleNominationChosenForDeletion,
		admin:  true,
		states: []model.ConversationState{model.StateAwaitingDeleteNomination, model.StateAwaitingDeleteParticipant},
	},
	EventParticipantChosenForDeletion: {
		handle: (*Bot).handleParticipantChosenForDeletion,
		admin:  true,
		states: []model.ConversationState{model.StateAwaitingDeleteParticipant},
	},
	EventAdminBack: {handle: (*Bot).handleAdminBack, admin: true, resets: true},
	EventAdminBackToDelete: {
		handle: (*Bot).handleAdminBackToDelete,
		admin:  true,
		states: []model.ConversationState{model.StateAwaitingDeleteNomination, model.StateAwaitingDeleteParticipant},
	},
}

// dispatch выбирает обработчик по типу события и текущему состоянию сессии
func (b *Bot) dispatch(ctx context.Context, ev Event) error {
	r := &request{
		Event: ev,
		state: b.sessions.Get(ev.UserID),
		admin: b.cfg.IsAdmin(ev.UserID),
	}
	defer b.acknowledge(r)

	rt, ok := routes[ev.Kind]
	if !ok {
		return nil
	}
	if rt.admin && !r.admin {
		b.logger.Debug("admin action ignored", "user_id", ev.UserID, "event", ev.Kind.String())
		return nil
	}
	if !rt.allows(r.state.State) {
		b.logger.Debug("stale action rejected",
			"user_id", ev.UserID,
			"event", ev.Kind.String(),
			"state", r.state.State.String(),
		)
		if r.IsCallback() {
			return b.answer(r, textStaleButton, true)
		}
		return nil
	}

	if rt.resets {
		b.sessions.Clear(ev.UserID)
		r.state = model.UserState{UserID: ev.UserID, State: model.StateIdle}
	}

	if err := rt.handle(b, ctx, r); err != nil {
		return b.fail(r, err)
	}
	return nil
}

// fail переводит ошибку обработчика в ответ пользователю. Ошибки, после
// которых пользователь может просто продолжить, не возвращаются наверх.
func (b *Bot) fail(r *request, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		return b.notify(r, textTryLater)

	case errors.Is(err, model.ErrNotFound):
		b.sessions.Clear(r.UserID)
		b.logger.Debug("stale reference", "user_id", r.UserID, "event", r.Kind.String(), "error", err)
		return b.notify(r, textNotFound)

	case errors.Is(err, model.ErrState):
		b.sessions.Clear(r.UserID)
		b.logger.Warn("session state anomaly",
			"user_id", r.UserID,
			"event", r.Kind.String(),
			"state", r.state.State.String(),
			"error", err,
		)
		if notifyErr := b.notify(r, textStateLost); notifyErr != nil {
			return errors.Join(err, notifyErr)
		}
		return err

	default:
		b.sessions.Clear(r.UserID)
		text := textTryLater
		if r.admin {
			text += "\n\n" + html.EscapeString(err.Error())
		}
		if notifyErr := b.notify(r, text); notifyErr != nil {
			return errors.Join(err, notifyErr)
		}
		return err
	}
}
