package bot

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/awards_bot/internal/config"
	"github.com/ivanoskov/awards_bot/internal/model"
	"github.com/ivanoskov/awards_bot/internal/repository"
	"github.com/ivanoskov/awards_bot/internal/service"
)

const (
	adminID int64 = 100
	userID  int64 = 1
	channel       = "@awards"
	notice        = "Итоги в прямом эфире"
)

// fakeAPI записывает все исходящие запросы вместо обращения к Telegram
type fakeAPI struct {
	mu          sync.Mutex
	sent        []tgbotapi.Chattable
	requests    []tgbotapi.Chattable
	status      string
	memberErr   error
	memberCalls int
	sendErr     error
	panicOnSend bool
	nextID      int
	updates     chan tgbotapi.Update
	stopped     bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		status:  "member",
		updates: make(chan tgbotapi.Update, 32),
	}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.panicOnSend {
		panic("send exploded")
	}
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetChatMember(tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.memberCalls++
	if f.memberErr != nil {
		return tgbotapi.ChatMember{}, f.memberErr
	}
	return tgbotapi.ChatMember{Status: f.status}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.requests = nil
}

// texts возвращает тексты всех отправленных и отредактированных сообщений
func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var texts []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			texts = append(texts, m.Text)
		case tgbotapi.EditMessageTextConfig:
			texts = append(texts, m.Text)
		case tgbotapi.PhotoConfig:
			texts = append(texts, m.Caption)
		}
	}
	return texts
}

func (f *fakeAPI) lastText() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (f *fakeAPI) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) lastMessage() tgbotapi.MessageConfig {
	messages := f.messages()
	if len(messages) == 0 {
		return tgbotapi.MessageConfig{}
	}
	return messages[len(messages)-1]
}

func (f *fakeAPI) edits() []tgbotapi.EditMessageTextConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.EditMessageTextConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) photos() []tgbotapi.PhotoConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.PhotoConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.PhotoConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) callbacks() []tgbotapi.CallbackConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.CallbackConfig
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

func (f *fakeAPI) lastCallback() tgbotapi.CallbackConfig {
	callbacks := f.callbacks()
	if len(callbacks) == 0 {
		return tgbotapi.CallbackConfig{}
	}
	return callbacks[len(callbacks)-1]
}

func (f *fakeAPI) deletes() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.requests {
		if _, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			n++
		}
	}
	return n
}

type testEnv struct {
	bot *Bot
	api *fakeAPI
	svc *service.VotingService
	cfg *config.Config

	track int64
	vocal int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo, err := repository.NewSQLiteRepository(filepath.Join(t.TempDir(), "votes.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	svc := service.NewVotingService(repo, log)
	require.NoError(t, svc.Seed(context.Background(), []string{"Best Track", "Best Vocal"}))

	cfg := &config.Config{
		ChannelUsername: channel,
		AdminIDs:        map[int64]struct{}{adminID: {}},
		Workers:         3,
		SessionTTL:      time.Hour,
		HandlerTimeout:  5 * time.Second,
		ResultsNotice:   notice,
	}

	api := newFakeAPI()
	env := &testEnv{
		bot: New(api, svc, cfg, log),
		api: api,
		svc: svc,
		cfg: cfg,
	}

	nominations, err := svc.Nominations(context.Background())
	require.NoError(t, err)
	for _, n := range nominations {
		switch n.Name {
		case "Best Track":
			env.track = n.ID
		case "Best Vocal":
			env.vocal = n.ID
		}
	}
	return env
}

func (e *testEnv) addParticipant(t *testing.T, nominationID int64, name string) int64 {
	t.Helper()

	info, err := e.svc.AddParticipant(context.Background(), nominationID, name)
	require.NoError(t, err)
	return info.ParticipantID
}

func (e *testEnv) vote(t *testing.T, user, nominationID, participantID int64) {
	t.Helper()

	_, err := e.svc.CastVote(context.Background(), user, nominationID, participantID, model.VoterInfo{})
	require.NoError(t, err)
}

func (e *testEnv) state(user int64) model.UserState {
	return e.bot.sessions.Get(user)
}

func (e *testEnv) handle(t *testing.T, update tgbotapi.Update) {
	t.Helper()
	require.NoError(t, e.bot.HandleUpdate(context.Background(), update))
}

func (e *testEnv) text(t *testing.T, user int64, text string) {
	t.Helper()
	e.handle(t, textUpdate(user, text))
}

func (e *testEnv) command(t *testing.T, user int64, command string) {
	t.Helper()
	e.handle(t, commandUpdate(user, command))
}

func (e *testEnv) press(t *testing.T, user int64, data string) {
	t.Helper()
	e.handle(t, callbackUpdate(user, data))
}

func testUser(id int64) *tgbotapi.User {
	return &tgbotapi.User{ID: id, FirstName: "Ivan", LastName: "Petrov", UserName: "ivanp"}
}

func textUpdate(user int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 10,
			From:      testUser(user),
			Chat:      &tgbotapi.Chat{ID: user, Type: "private"},
			Text:      text,
		},
	}
}

func commandUpdate(user int64, command string) tgbotapi.Update {
	update := textUpdate(user, "/"+command)
	update.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}}
	return update
}

func callbackUpdate(user int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 2,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-" + data,
			From: testUser(user),
			Message: &tgbotapi.Message{
				MessageID: 20,
				Chat:      &tgbotapi.Chat{ID: user, Type: "private"},
			},
			Data: data,
		},
	}
}

// inlineData собирает данные кнопок inline-клавиатуры
func inlineData(markup interface{}) []string {
	var keyboard tgbotapi.InlineKeyboardMarkup
	switch m := markup.(type) {
	case tgbotapi.InlineKeyboardMarkup:
		keyboard = m
	case *tgbotapi.InlineKeyboardMarkup:
		if m == nil {
			return nil
		}
		keyboard = *m
	default:
		return nil
	}

	var data []string
	for _, row := range keyboard.InlineKeyboard {
		for _, button := range row {
			if button.CallbackData != nil {
				data = append(data, *button.CallbackData)
			}
		}
	}
	return data
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
