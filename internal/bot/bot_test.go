package bot

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartProcessesUpdates(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- env.bot.Start(ctx) }()

	for user := int64(1); user <= 5; user++ {
		env.api.updates <- commandUpdate(user, "start")
	}

	assert.Eventually(t, func() bool {
		return len(env.api.messages()) == 5
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop")
	}

	env.api.mu.Lock()
	defer env.api.mu.Unlock()
	assert.True(t, env.api.stopped)
}

func TestStartKeepsPerUserOrder(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParticipant(t, env.track, "A")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- env.bot.Start(ctx) }()

	env.api.updates <- textUpdate(userID, btnVote)
	env.api.updates <- callbackUpdate(userID, callbackData(cbVoteNomination, env.track))
	env.api.updates <- callbackUpdate(userID, callbackData(cbVoteParticipant, a))

	assert.Eventually(t, func() bool {
		votes, err := env.svc.UserVotes(context.Background(), userID)
		return err == nil && len(votes) == 1
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestStartStopsWhenUpdatesClosed(t *testing.T) {
	env := newTestEnv(t)

	close(env.api.updates)
	require.NoError(t, env.bot.Start(context.Background()))
}

func TestHandleWebhook(t *testing.T) {
	env := newTestEnv(t)

	body := []byte(`{
		"update_id": 5,
		"message": {
			"message_id": 1,
			"from": {"id": 1, "first_name": "Ivan"},
			"chat": {"id": 1, "type": "private"},
			"date": 0,
			"text": "/start",
			"entities": [{"type": "bot_command", "offset": 0, "length": 6}]
		}
	}`)
	require.NoError(t, env.bot.HandleWebhook(context.Background(), body))
	assert.Contains(t, env.api.lastText(), "Добро пожаловать")

	assert.Error(t, env.bot.HandleWebhook(context.Background(), []byte("{")))
}

func TestShard(t *testing.T) {
	update := commandUpdate(7, "start")
	assert.Equal(t, 7%3, shard(update, 3))
	assert.Equal(t, shard(update, 3), shard(callbackUpdate(7, "back_main"), 3))
	assert.Equal(t, 0, shard(tgbotapi.Update{}, 3))
}
