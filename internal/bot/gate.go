package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/awards_bot/internal/metrics"
	"github.com/ivanoskov/awards_bot/internal/model"
)

// checkSubscription проверяет, подписан ли пользователь на канал.
// Статусы left и kicked означают отсутствие подписки. Ошибка запроса
// возвращается как ErrCollaborator, и голосование в этом случае запрещено.
func (b *Bot) checkSubscription(userID int64) (bool, error) {
	if b.cfg.ChannelUsername == "" {
		metrics.GateChecksTotal.WithLabelValues("disabled").Inc()
		return true, nil
	}

	member, err := b.api.GetChatMember(memberConfig(b.cfg.ChannelUsername, userID))
	if err != nil {
		metrics.GateChecksTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("%w: get chat member: %v", model.ErrCollaborator, err)
	}
	if member.HasLeft() || member.WasKicked() {
		metrics.GateChecksTotal.WithLabelValues("denied").Inc()
		return false, nil
	}

	metrics.GateChecksTotal.WithLabelValues("allowed").Inc()
	return true, nil
}

// passGate сообщает пользователю о непройденной проверке. Возвращает true,
// если голосовать можно.
func (b *Bot) passGate(r *request) (bool, error) {
	ok, err := b.checkSubscription(r.UserID)
	if err != nil {
		b.logger.Warn("subscription check failed", "user_id", r.UserID, "channel", b.cfg.ChannelUsername, "error", err)
		return false, b.notify(r, textGateFailed)
	}
	if !ok {
		return false, b.notify(r, fmt.Sprintf(textNotSubscribed, b.cfg.ChannelUsername))
	}
	return true, nil
}

// memberConfig принимает как @username канала, так и его числовой ID
func memberConfig(channel string, userID int64) tgbotapi.GetChatMemberConfig {
	cfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: userID},
	}
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		cfg.ChatID = id
		return cfg
	}
	if !strings.HasPrefix(channel, "@") {
		channel = "@" + channel
	}
	cfg.SuperGroupUsername = channel
	return cfg
}
