package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/awards_bot/internal/charts"
	"github.com/ivanoskov/awards_bot/internal/config"
	"github.com/ivanoskov/awards_bot/internal/metrics"
	"github.com/ivanoskov/awards_bot/internal/service"
	"github.com/ivanoskov/awards_bot/internal/session"
)

const (
	sweepInterval = time.Minute
	queueSize     = 64
)

// API часть Telegram Bot API, которой пользуется бот. *tgbotapi.BotAPI
// реализует ее полностью.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(c tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetUpdatesChan(c tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api      API
	service  *service.VotingService
	sessions *session.Store
	charts   *charts.ChartGenerator
	cfg      *config.Config
	logger   *slog.Logger
}

// New собирает бота поверх готового клиента API
func New(api API, svc *service.VotingService, cfg *config.Config, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		api:      api,
		service:  svc,
		sessions: session.NewStore(cfg.SessionTTL),
		charts:   charts.NewChartGenerator(),
		cfg:      cfg,
		logger:   log,
	}
}

func NewBot(cfg *config.Config, svc *service.VotingService, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	return New(api, svc, cfg, log), nil
}

// Start запускает бота в режиме long polling и блокируется до отмены ctx.
// Обновления одного пользователя попадают в один и тот же обработчик и
// обрабатываются по порядку; разные пользователи обрабатываются параллельно.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	workers := b.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	queues := make([]chan tgbotapi.Update, workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan tgbotapi.Update, queueSize)
		wg.Add(1)
		go func(queue <-chan tgbotapi.Update) {
			defer wg.Done()
			for update := range queue {
				b.process(ctx, update)
			}
		}(queues[i])
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	b.logger.Info("bot started", "workers", workers)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if removed := b.sessions.Sweep(); removed > 0 {
				b.logger.Debug("expired sessions removed", "count", removed)
			}
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			queue := queues[shard(update, workers)]
			select {
			case queue <- update:
			case <-ctx.Done():
				break loop
			}
		}
	}

	b.api.StopReceivingUpdates()
	for _, queue := range queues {
		close(queue)
	}
	wg.Wait()

	b.logger.Info("bot stopped")
	return nil
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("failed to decode update: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.HandlerTimeout)
	defer cancel()
	return b.HandleUpdate(ctx, update)
}

// process обрабатывает обновление из очереди. Остановка бота не прерывает
// уже принятые обновления: у каждого свой дедлайн.
func (b *Bot) process(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.cfg.HandlerTimeout)
	defer cancel()

	if err := b.HandleUpdate(ctx, update); err != nil {
		// Логируем ошибку, но продолжаем работу
		b.logger.Error("failed to handle update", "update_id", update.UpdateID, "error", err)
	}
}

// HandleUpdate обрабатывает одно обновление. Паника обработчика не выходит
// за пределы этого вызова.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	ev, ok := ParseUpdate(update)
	if !ok {
		return nil
	}

	kind := ev.Kind.String()
	start := time.Now()
	metrics.UpdatesTotal.WithLabelValues(kind).Inc()

	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error("panic while handling update",
				"event", kind,
				"user_id", ev.UserID,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("panic while handling %s: %v", kind, rec)
		}
		if err != nil {
			metrics.UpdateErrorsTotal.WithLabelValues(kind).Inc()
			err = fmt.Errorf("user %d, event %s: %w", ev.UserID, kind, err)
		}
		metrics.UpdateDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	return b.dispatch(ctx, ev)
}

func shard(update tgbotapi.Update, n int) int {
	var id int64
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		id = update.CallbackQuery.From.ID
	case update.Message != nil && update.Message.From != nil:
		id = update.Message.From.ID
	}
	if id < 0 {
		id = -id
	}
	return int(id % int64(n))
}
