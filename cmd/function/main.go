package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/ivanoskov/awards_bot/internal/bot"
	"github.com/ivanoskov/awards_bot/internal/config"
	"github.com/ivanoskov/awards_bot/internal/repository"
	"github.com/ivanoskov/awards_bot/internal/service"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Бот создается один раз на экземпляр функции. Сессии живут в памяти
// экземпляра, поэтому между "теплыми" вызовами они сохраняются.
var (
	initOnce  sync.Once
	handler   *bot.Bot
	initError error
)

func setup(ctx context.Context) (*bot.Bot, error) {
	initOnce.Do(func() {
		cfg, err := config.LoadConfig()
		if err != nil {
			initError = err
			return
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		repo, err := repository.Open(cfg, logger)
		if err != nil {
			initError = err
			return
		}

		votingService := service.NewVotingService(repo, logger)
		if err := votingService.Seed(ctx, cfg.Nominations); err != nil {
			initError = err
			return
		}

		handler, initError = bot.NewBot(cfg, votingService, logger)
	})
	return handler, initError
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	b, err := setup(ctx)
	if err != nil {
		return errorResponse(err)
	}

	// Обработка webhook-обновления
	if err := b.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
