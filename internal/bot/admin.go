package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/ivanoskov/awards_bot/internal/model"
)

// handleAdminPanel обрабатывает команду /admin. Это единственное админ-действие, на
// которое обычный пользователь получает ответ, и ответ не содержит данных.
func (b *Bot) handleAdminPanel(ctx context.Context, r *request) error {
	if !r.admin {
		return b.send(r.ChatID, textAdminForbidden, nil)
	}
	return b.send(r.ChatID, textAdminPanel, b.getAdminKeyboard())
}

func (b *Bot) handleAdminAdd(ctx context.Context, r *request) error {
	nominations, err := b.service.Nominations(ctx)
	if err != nil {
		return err
	}

	b.sessions.Set(r.UserID, model.StateAwaitingAddNomination, 0)
	return b.send(r.ChatID, textChooseForAdd, b.getAdminNominationsKeyboard(nominations, cbAdminAddNomination))
}

func (b *Bot) handleAddNominationChosen(ctx context.Context, r *request) error {
	nomination, err := b.service.Nomination(ctx, r.ID)
	if err != nil {
		return err
	}

	b.sessions.Set(r.UserID, model.StateAwaitingParticipantName, nomination.ID)
	return b.edit(r, fmt.Sprintf(textEnterName, html.EscapeString(nomination.Name)), nil)
}

// handleParticipantName сохраняет участника. Пустое имя не сбрасывает
// выбранную номинацию: администратор просто вводит имя еще раз.
func (b *Bot) handleParticipantName(ctx context.Context, r *request) error {
	name := strings.TrimSpace(r.Text)
	if name == "" {
		b.sessions.Set(r.UserID, model.StateAwaitingParticipantName, r.state.NominationID)
		return b.send(r.ChatID, textEmptyName, nil)
	}

	info, err := b.service.AddParticipant(ctx, r.state.NominationID, name)
	if errors.Is(err, model.ErrValidation) {
		return b.send(r.ChatID, textEmptyName, nil)
	}
	b.sessions.Clear(r.UserID)
	if err != nil {
		b.logger.Error("failed to add participant", "user_id", r.UserID, "nomination_id", r.state.NominationID, "error", err)
		return b.send(r.ChatID,
			"❌ Ошибка при добавлении участника: "+html.EscapeString(err.Error()),
			b.getAdminKeyboard())
	}

	return b.send(r.ChatID,
		fmt.Sprintf(textParticipantAdded, html.EscapeString(info.ParticipantName), html.EscapeString(info.NominationName)),
		b.getAdminKeyboard())
}

func (b *Bot) handleAdminDelete(ctx context.Context, r *request) error {
	nominations, err := b.service.Nominations(ctx)
	if err != nil {
		return err
	}

	b.sessions.Set(r.UserID, model.StateAwaitingDeleteNomination, 0)
	return b.send(r.ChatID, textChooseForDelete, b.getAdminNominationsKeyboard(nominations, cbAdminDeleteNomination))
}

func (b *Bot) handleNominationChosenForDeletion(ctx context.Context, r *request) error {
	nomination, err := b.service.Nomination(ctx, r.ID)
	if err != nil {
		return err
	}
	participants, err := b.service.Participants(ctx, nomination.ID)
	if err != nil {
		return err
	}

	if len(participants) == 0 {
		nominations, err := b.service.Nominations(ctx)
		if err != nil {
			return err
		}
		b.sessions.Set(r.UserID, model.StateAwaitingDeleteNomination, 0)
		keyboard := b.getAdminNominationsKeyboard(nominations, cbAdminDeleteNomination)
		return b.edit(r, fmt.Sprintf(textNothingToDelete, html.EscapeString(nomination.Name)), &keyboard)
	}

	b.sessions.Set(r.UserID, model.StateAwaitingDeleteParticipant, nomination.ID)
	keyboard := b.getDeleteParticipantsKeyboard(participants)
	text := fmt.Sprintf("Номинация: <b>%s</b>\n\nВыберите участника для удаления:", html.EscapeString(nomination.Name))
	return b.edit(r, text, &keyboard)
}

func (b *Bot) handleParticipantChosenForDeletion(ctx context.Context, r *request) error {
	info, err := b.service.DeleteParticipant(ctx, r.ID)
	b.sessions.Clear(r.UserID)
	b.deleteMessage(r)

	switch {
	case err == nil:
		return b.send(r.ChatID,
			fmt.Sprintf(textParticipantDeleted, html.EscapeString(info.ParticipantName), html.EscapeString(info.NominationName)),
			b.getAdminKeyboard())
	case errors.Is(err, model.ErrNotFound):
		return b.send(r.ChatID, textParticipantNotFound, b.getAdminKeyboard())
	default:
		return err
	}
}

func (b *Bot) handleAdminBack(ctx context.Context, r *request) error {
	b.deleteMessage(r)
	return b.send(r.ChatID, textAdminPanel, b.getAdminKeyboard())
}

func (b *Bot) handleAdminBackToDelete(ctx context.Context, r *request) error {
	nominations, err := b.service.Nominations(ctx)
	if err != nil {
		return err
	}

	b.sessions.Set(r.UserID, model.StateAwaitingDeleteNomination, 0)
	keyboard := b.getAdminNominationsKeyboard(nominations, cbAdminDeleteNomination)
	return b.edit(r, textChooseForDelete, &keyboard)
}

func (b *Bot) handleAdminStats(ctx context.Context, r *request) error {
	report, err := b.service.Results(ctx)
	if err != nil {
		return err
	}
	if len(report.Nominations) == 0 {
		return b.send(r.ChatID, textNoVotes, b.getAdminKeyboard())
	}
	return b.send(r.ChatID, formatResults("📊 <b>Результаты голосования:</b>", report), b.getAdminKeyboard())
}

func (b *Bot) handleAdminVoters(ctx context.Context, r *request) error {
	voters, err := b.service.VoterRoster(ctx)
	if err != nil {
		return err
	}
	if len(voters) == 0 {
		return b.send(r.ChatID, "📝 Голосов пока нет", b.getAdminKeyboard())
	}
	return b.send(r.ChatID, formatVoters(voters), b.getAdminKeyboard())
}

// handleAdminChart отправляет круговую диаграмму по номинациям и столбчатую
// для каждой номинации, в которой есть голоса.
func (b *Bot) handleAdminChart(ctx context.Context, r *request) error {
	report, err := b.service.Results(ctx)
	if err != nil {
		return err
	}
	if report.Total == 0 {
		return b.send(r.ChatID, textNoVotes, b.getAdminKeyboard())
	}

	pie, err := b.charts.GenerateDistributionPie(report)
	if err != nil {
		return err
	}
	if pie != nil {
		caption := fmt.Sprintf("Всего голосов: %d", report.Total)
		if err := b.sendPhoto(r.ChatID, "distribution.png", pie, caption); err != nil {
			return err
		}
	}

	for _, nomination := range report.Nominations {
		if nomination.Votes == 0 {
			continue
		}
		png, err := b.charts.GenerateNominationChart(nomination)
		if err != nil {
			return err
		}
		if png == nil {
			continue
		}
		name := fmt.Sprintf("nomination_%d.png", nomination.ID)
		if err := b.sendPhoto(r.ChatID, name, png, nomination.Name); err != nil {
			return err
		}
	}
	return nil
}
