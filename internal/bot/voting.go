package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/ivanoskov/awards_bot/internal/model"
)

func (b *Bot) handleStart(ctx context.Context, r *request) error {
	text := textWelcome
	if r.admin {
		text += textWelcomeAdmin
	}
	return b.send(r.ChatID, text+textChooseAction, b.getMainKeyboard(r.admin))
}

func (b *Bot) handleMainMenu(ctx context.Context, r *request) error {
	return b.send(r.ChatID, textMainMenu, b.getMainKeyboard(r.admin))
}

// handleVote открывает голосование после проверки подписки
func (b *Bot) handleVote(ctx context.Context, r *request) error {
	if ok, err := b.passGate(r); !ok {
		return err
	}

	nominations, err := b.service.Nominations(ctx)
	if err != nil {
		return err
	}
	if len(nominations) == 0 {
		return b.send(r.ChatID, textNoNominations, b.getMainKeyboard(r.admin))
	}
	return b.send(r.ChatID, textChooseNomination, b.getNominationsKeyboard(nominations))
}

// handleNominationChosen переводит пользователя к выбору участника.
// Номинация без участников не меняет состояние.
func (b *Bot) handleNominationChosen(ctx context.Context, r *request) error {
	if ok, err := b.passGate(r); !ok {
		return err
	}

	nomination, err := b.service.Nomination(ctx, r.ID)
	if err != nil {
		return err
	}
	participants, err := b.service.Participants(ctx, nomination.ID)
	if err != nil {
		return err
	}
	if len(participants) == 0 {
		return b.answer(r, textEmptyNomination, true)
	}

	b.sessions.Set(r.UserID, model.StateAwaitingParticipant, nomination.ID)

	keyboard := b.getParticipantsKeyboard(participants)
	text := fmt.Sprintf("Номинация: <b>%s</b>\n\nВыберите участника:", html.EscapeString(nomination.Name))
	return b.edit(r, text, &keyboard)
}

func (b *Bot) handleParticipantChosen(ctx context.Context, r *request) error {
	if r.state.NominationID == 0 {
		return fmt.Errorf("%w: participant chosen without a nomination", model.ErrState)
	}

	// голос за участника из другой номинации или удаленного участника
	// обрабатывается общим путем ErrNotFound
	info, err := b.service.CastVote(ctx, r.UserID, r.state.NominationID, r.ID, r.Voter)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		return err
	default:
		b.sessions.Clear(r.UserID)
		b.logger.Error("failed to cast vote", "user_id", r.UserID, "nomination_id", r.state.NominationID, "error", err)
		keyboard := b.getBackToMainKeyboard()
		return b.edit(r, textVoteSaveFailed, &keyboard)
	}

	b.sessions.Clear(r.UserID)

	text := fmt.Sprintf(
		"✅ Ваш голос успешно учтен!\n\n"+
			"<b>Номинация:</b> %s\n"+
			"<b>Участник:</b> %s",
		html.EscapeString(info.NominationName),
		html.EscapeString(info.ParticipantName),
	)
	keyboard := b.getBackToMainKeyboard()
	return b.edit(r, text, &keyboard)
}

func (b *Bot) handleBackToNominations(ctx context.Context, r *request) error {
	nominations, err := b.service.Nominations(ctx)
	if err != nil {
		return err
	}
	keyboard := b.getNominationsKeyboard(nominations)
	return b.edit(r, textChooseNomination, &keyboard)
}

func (b *Bot) handleBackToMain(ctx context.Context, r *request) error {
	b.deleteMessage(r)
	return b.send(r.ChatID, textMainMenu, b.getMainKeyboard(r.admin))
}

func (b *Bot) handleMyVotes(ctx context.Context, r *request) error {
	votes, err := b.service.UserVotes(ctx, r.UserID)
	if err != nil {
		return err
	}
	if len(votes) == 0 {
		return b.send(r.ChatID, textNoUserVotes, b.getMainKeyboard(r.admin))
	}

	var sb strings.Builder
	sb.WriteString("📊 <b>Ваши голоса:</b>\n\n")
	for _, v := range votes {
		fmt.Fprintf(&sb, "• <b>%s:</b> %s\n", html.EscapeString(v.NominationName), html.EscapeString(v.ParticipantName))
	}
	return b.send(r.ChatID, sb.String(), b.getMainKeyboard(r.admin))
}

// handleResults показывает итоги администраторам; остальные видят только
// объявление без цифр.
func (b *Bot) handleResults(ctx context.Context, r *request) error {
	if !r.admin {
		return b.send(r.ChatID, textResultsForbidden+b.cfg.ResultsNotice, b.getMainKeyboard(false))
	}

	report, err := b.service.Results(ctx)
	if err != nil {
		return err
	}
	if report.Total == 0 {
		return b.send(r.ChatID, textNoVotes, b.getMainKeyboard(true))
	}
	return b.send(r.ChatID, formatResults("🏆 <b>Текущие результаты:</b>", report), b.getMainKeyboard(true))
}

// handleText обрабатывает произвольный текст: ввод имени участника
// администратором, иначе показывает главное меню.
func (b *Bot) handleText(ctx context.Context, r *request) error {
	if r.state.State == model.StateAwaitingParticipantName && r.admin {
		return b.handleParticipantName(ctx, r)
	}

	b.sessions.Clear(r.UserID)
	return b.send(r.ChatID, textMainMenu, b.getMainKeyboard(r.admin))
}
