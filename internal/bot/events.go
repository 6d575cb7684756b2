package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/awards_bot/internal/model"
)

// EventKind тип входящего действия пользователя
type EventKind int

const (
	EventUnknown EventKind = iota

	// Команды
	EventStart
	EventAdminPanel
	// Любая другая команда: возврат в главное меню
	EventUnknownCommand

	// Кнопки главного меню
	EventVote
	EventMyVotes
	EventResults
	EventMainMenu

	// Кнопки админ-панели
	EventAdminAdd
	EventAdminDelete
	EventAdminStats
	EventAdminVoters
	EventAdminChart

	// Произвольный текст
	EventText

	// Inline-кнопки голосования
	EventNominationChosen
	EventParticipantChosen
	EventBackToNominations
	EventBackToMain

	// Inline-кнопки админ-панели
	EventAddNominationChosen
	EventNominationChosenForDeletion
	EventParticipantChosenForDeletion
	EventAdminBack
	EventAdminBackToDelete

	eventKindCount
)

var eventNames = [...]string{
	EventUnknown:                      "unknown",
	EventStart:                        "start",
	EventAdminPanel:                   "admin_panel",
	EventUnknownCommand:               "unknown_command",
	EventVote:                         "vote",
	EventMyVotes:                      "my_votes",
	EventResults:                      "results",
	EventMainMenu:                     "main_menu",
	EventAdminAdd:                     "admin_add",
	EventAdminDelete:                  "admin_delete",
	EventAdminStats:                   "admin_stats",
	EventAdminVoters:                  "admin_voters",
	EventAdminChart:                   "admin_chart",
	EventText:                         "text",
	EventNominationChosen:             "nomination_chosen",
	EventParticipantChosen:            "participant_chosen",
	EventBackToNominations:            "back_to_nominations",
	EventBackToMain:                   "back_to_main",
	EventAddNominationChosen:          "add_nomination_chosen",
	EventNominationChosenForDeletion:  "nomination_chosen_for_deletion",
	EventParticipantChosenForDeletion: "participant_chosen_for_deletion",
	EventAdminBack:                    "admin_back",
	EventAdminBackToDelete:            "admin_back_to_delete",
}

func (k EventKind) String() string {
	if k < 0 || k >= eventKindCount {
		return "unknown"
	}
	return eventNames[k]
}

// Данные inline-кнопок. У каждого варианта свой префикс, поэтому разбор не
// зависит от количества разделителей.
const (
	cbVoteNomination         = "vote_nom:"
	cbVoteParticipant        = "vote_part:"
	cbBackToNominations      = "back_nom"
	cbBackToMain             = "back_main"
	cbAdminAddNomination     = "adm_add:"
	cbAdminDeleteNomination  = "adm_del_nom:"
	cbAdminDeleteParticipant = "adm_del_part:"
	cbAdminBack              = "adm_back"
	cbAdminBackToDelete      = "adm_back_del"
)

var buttonEvents = map[string]EventKind{
	btnVote:              EventVote,
	btnMyVotes:           EventMyVotes,
	btnResults:           EventResults,
	btnMainMenu:          EventMainMenu,
	btnAddParticipant:    EventAdminAdd,
	btnDeleteParticipant: EventAdminDelete,
	btnStats:             EventAdminStats,
	btnVoters:            EventAdminVoters,
	btnChart:             EventAdminChart,
}

var commandEvents = map[string]EventKind{
	"start": EventStart,
	"admin": EventAdminPanel,
}

var exactCallbacks = map[string]EventKind{
	cbBackToNominations: EventBackToNominations,
	cbBackToMain:        EventBackToMain,
	cbAdminBack:         EventAdminBack,
	cbAdminBackToDelete: EventAdminBackToDelete,
}

var prefixCallbacks = []struct {
	prefix string
	kind   EventKind
}{
	{cbVoteNomination, EventNominationChosen},
	{cbVoteParticipant, EventParticipantChosen},
	{cbAdminAddNomination, EventAddNominationChosen},
	{cbAdminDeleteNomination, EventNominationChosenForDeletion},
	{cbAdminDeleteParticipant, EventParticipantChosenForDeletion},
}

// Event разобранное обновление Telegram
type Event struct {
	Kind   EventKind
	UserID int64
	ChatID int64
	Voter  model.VoterInfo

	Text string
	// ID номинации или участника из данных inline-кнопки
	ID int64

	// Заполняются только для inline-кнопок
	CallbackID string
	MessageID  int
}

func (e Event) IsCallback() bool {
	return e.CallbackID != ""
}

// ParseUpdate превращает обновление в Event. Обновления без отправителя
// (посты каналов, правки сообщений) пропускаются.
func ParseUpdate(update tgbotapi.Update) (Event, bool) {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return parseCallback(update.CallbackQuery), true
	case update.Message != nil && update.Message.From != nil:
		return parseMessage(update.Message), true
	default:
		return Event{}, false
	}
}

func parseMessage(message *tgbotapi.Message) Event {
	ev := Event{
		UserID: message.From.ID,
		ChatID: message.Chat.ID,
		Voter:  voterInfo(message.From),
		Text:   message.Text,
	}

	if message.IsCommand() {
		kind, ok := commandEvents[message.Command()]
		if !ok {
			kind = EventUnknownCommand
		}
		ev.Kind = kind
		return ev
	}
	if kind, ok := buttonEvents[strings.TrimSpace(message.Text)]; ok {
		ev.Kind = kind
		return ev
	}
	ev.Kind = EventText
	return ev
}

func parseCallback(callback *tgbotapi.CallbackQuery) Event {
	ev := Event{
		UserID:     callback.From.ID,
		ChatID:     callback.From.ID,
		Voter:      voterInfo(callback.From),
		CallbackID: callback.ID,
	}
	if callback.Message != nil {
		ev.ChatID = callback.Message.Chat.ID
		ev.MessageID = callback.Message.MessageID
	}

	data := callback.Data
	if kind, ok := exactCallbacks[data]; ok {
		ev.Kind = kind
		return ev
	}
	for _, p := range prefixCallbacks {
		if !strings.HasPrefix(data, p.prefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(data, p.prefix), 10, 64)
		if err != nil || id <= 0 {
			break
		}
		ev.Kind = p.kind
		ev.ID = id
		return ev
	}
	ev.Kind = EventUnknown
	return ev
}

func voterInfo(user *tgbotapi.User) model.VoterInfo {
	return model.VoterInfo{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.UserName,
	}
}

func callbackData(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}
