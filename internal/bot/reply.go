package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/awards_bot/internal/model"
)

// send отправляет HTML-сообщение; длинный текст уходит несколькими
// сообщениями, клавиатура прикрепляется к последнему.
func (b *Bot) send(chatID int64, text string, markup interface{}) error {
	chunks := splitMessage(text, maxMessageLength)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		if i == len(chunks)-1 && markup != nil {
			msg.ReplyMarkup = markup
		}
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("%w: send message: %v", model.ErrCollaborator, err)
		}
	}
	return nil
}

// edit заменяет текст и inline-клавиатуру сообщения, к которому привязана
// кнопка. Если сообщения нет, отправляет новое.
func (b *Bot) edit(r *request, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if r.MessageID == 0 {
		if markup == nil {
			return b.send(r.ChatID, text, nil)
		}
		return b.send(r.ChatID, text, *markup)
	}

	var cfg tgbotapi.EditMessageTextConfig
	if markup != nil {
		cfg = tgbotapi.NewEditMessageTextAndMarkup(r.ChatID, r.MessageID, text, *markup)
	} else {
		cfg = tgbotapi.NewEditMessageText(r.ChatID, r.MessageID, text)
	}
	cfg.ParseMode = tgbotapi.ModeHTML

	if _, err := b.api.Send(cfg); err != nil {
		return fmt.Errorf("%w: edit message: %v", model.ErrCollaborator, err)
	}
	return nil
}

// deleteMessage убирает сообщение с inline-клавиатурой. Ошибка не мешает
// продолжить сценарий: сообщение могло быть удалено раньше.
func (b *Bot) deleteMessage(r *request) {
	if r.MessageID == 0 {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(r.ChatID, r.MessageID)); err != nil {
		b.logger.Debug("failed to delete message", "chat_id", r.ChatID, "message_id", r.MessageID, "error", err)
	}
}

func (b *Bot) sendPhoto(chatID int64, name string, png []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: png})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		return fmt.Errorf("%w: send photo: %v", model.ErrCollaborator, err)
	}
	return nil
}

// answer отвечает на callback: всплывающим окном, если alert, иначе
// коротким уведомлением.
func (b *Bot) answer(r *request, text string, alert bool) error {
	if !r.IsCallback() || r.answered {
		return nil
	}
	r.answered = true

	cfg := tgbotapi.NewCallback(r.CallbackID, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(r.CallbackID, text)
	}
	if _, err := b.api.Request(cfg); err != nil {
		return fmt.Errorf("%w: answer callback: %v", model.ErrCollaborator, err)
	}
	return nil
}

// acknowledge гасит индикатор загрузки на кнопке, если обработчик не ответил
func (b *Bot) acknowledge(r *request) {
	if err := b.answer(r, "", false); err != nil {
		b.logger.Debug("failed to acknowledge callback", "user_id", r.UserID, "error", err)
	}
}

// notify показывает сообщение об ошибке: для кнопки всплывающим окном,
// для текста сообщением с главным меню.
func (b *Bot) notify(r *request, text string) error {
	if r.IsCallback() && !r.answered {
		return b.answer(r, text, true)
	}
	return b.send(r.ChatID, text, b.getMainKeyboard(r.admin))
}
