package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/ivanoskov/awards_bot/internal/service"
)

const rosterSeparator = "──────────────────────────────"

func formatResults(title string, report *service.Report) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")

	for i, nomination := range report.Nominations {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "<b>%s:</b>\n", html.EscapeString(nomination.Name))
		if len(nomination.Participants) == 0 {
			sb.WriteString("  Нет участников\n")
			continue
		}
		for _, p := range nomination.Participants {
			fmt.Fprintf(&sb, "  %s: %d %s\n", html.EscapeString(p.Name), p.Votes, votesWord(p.Votes))
		}
	}

	fmt.Fprintf(&sb, "\n<b>Всего голосов:</b> %d", report.Total)
	return sb.String()
}

func formatVoters(voters []service.Voter) string {
	var sb strings.Builder
	sb.WriteString("👥 <b>Информация о голосующих:</b>\n\n")

	for _, voter := range voters {
		name := voter.DisplayName()
		if name == "" {
			name = "Неизвестно"
		}
		username := "нет username"
		if voter.Username != "" {
			username = "@" + voter.Username
		}

		fmt.Fprintf(&sb, "🆔 ID: %d\n", voter.UserID)
		fmt.Fprintf(&sb, "👤 Имя: %s\n", html.EscapeString(name))
		fmt.Fprintf(&sb, "📱 Username: %s\n", html.EscapeString(username))
		sb.WriteString("🗳️ Голоса:\n")
		for _, v := range voter.Votes {
			fmt.Fprintf(&sb, "  • %s: %s\n", html.EscapeString(v.NominationName), html.EscapeString(v.ParticipantName))
		}
		sb.WriteString(rosterSeparator)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// votesWord склоняет слово "голос" по числу
func votesWord(n int64) string {
	n %= 100
	if n >= 11 && n <= 14 {
		return "голосов"
	}
	switch n % 10 {
	case 1:
		return "голос"
	case 2, 3, 4:
		return "голоса"
	default:
		return "голосов"
	}
}
