package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/awards_bot/internal/model"
)

// Тексты кнопок постоянной клавиатуры
const (
	btnVote              = "🗳️ Голосовать"
	btnMyVotes           = "📊 Мои голоса"
	btnResults           = "🏆 Результаты"
	btnMainMenu          = "🔙 Главное меню"
	btnAddParticipant    = "➕ Добавить участника"
	btnDeleteParticipant = "🗑️ Удалить участника"
	btnStats             = "📊 Статистика"
	btnVoters            = "👥 Кто голосовал"
	btnChart             = "📈 Диаграмма"
)

func (b *Bot) getMainKeyboard(admin bool) tgbotapi.ReplyKeyboardMarkup {
	votesRow := tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnMyVotes))
	if admin {
		votesRow = append(votesRow, tgbotapi.NewKeyboardButton(btnResults))
	}

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnVote)),
		votesRow,
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnMainMenu)),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func (b *Bot) getAdminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddParticipant),
			tgbotapi.NewKeyboardButton(btnDeleteParticipant),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStats),
			tgbotapi.NewKeyboardButton(btnVoters),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnChart),
			tgbotapi.NewKeyboardButton(btnMainMenu),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func (b *Bot) getNominationsKeyboard(nominations []model.Nomination) tgbotapi.InlineKeyboardMarkup {
	var buttons [][]tgbotapi.InlineKeyboardButton

	for _, nomination := range nominations {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(nomination.Name, callbackData(cbVoteNomination, nomination.ID)),
		))
	}
	buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnMainMenu, cbBackToMain),
	))

	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

func (b *Bot) getParticipantsKeyboard(participants []model.Participant) tgbotapi.InlineKeyboardMarkup {
	var buttons [][]tgbotapi.InlineKeyboardButton

	for _, participant := range participants {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(participant.Name, callbackData(cbVoteParticipant, participant.ID)),
		))
	}
	buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад к номинациям", cbBackToNominations),
	))

	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

// getAdminNominationsKeyboard строит список номинаций для админ-действия;
// prefix определяет, какое событие породит нажатие.
func (b *Bot) getAdminNominationsKeyboard(nominations []model.Nomination, prefix string) tgbotapi.InlineKeyboardMarkup {
	var buttons [][]tgbotapi.InlineKeyboardButton

	for _, nomination := range nominations {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(nomination.Name, callbackData(prefix, nomination.ID)),
		))
	}
	buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад в админ-панель", cbAdminBack),
	))

	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

func (b *Bot) getDeleteParticipantsKeyboard(participants []model.Participant) tgbotapi.InlineKeyboardMarkup {
	var buttons [][]tgbotapi.InlineKeyboardButton

	for _, participant := range participants {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(participant.Name, callbackData(cbAdminDeleteParticipant, participant.ID)),
		))
	}
	buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад", cbAdminBackToDelete),
	))

	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

func (b *Bot) getBackToMainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnMainMenu, cbBackToMain),
		),
	)
}
