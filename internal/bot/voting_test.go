package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/awards_bot/internal/model"
)

func TestStartShowsMenuByRole(t *testing.T) {
	env := newTestEnv(t)

	env.command(t, userID, "start")
	msg := env.api.lastMessage()
	assert.NotContains(t, msg.Text, "администратор")
	assert.Equal(t, env.bot.getMainKeyboard(false), msg.ReplyMarkup)

	env.command(t, adminID, "start")
	msg = env.api.lastMessage()
	assert.Contains(t, msg.Text, "Вы вошли как администратор")
	assert.Equal(t, env.bot.getMainKeyboard(true), msg.ReplyMarkup)
}

func TestVotingFlow(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParticipant(t, env.track, "A")
	b := env.addParticipant(t, env.track, "B")

	env.text(t, userID, btnVote)
	assert.Equal(t, 1, env.api.memberCalls)
	msg := env.api.lastMessage()
	assert.Equal(t, textChooseNomination, msg.Text)
	assert.Equal(t, []string{
		fmt.Sprintf("vote_nom:%d", env.track),
		fmt.Sprintf("vote_nom:%d", env.vocal),
		cbBackToMain,
	}, inlineData(msg.ReplyMarkup))

	env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.track))
	state := env.state(userID)
	assert.Equal(t, model.StateAwaitingParticipant, state.State)
	assert.Equal(t, env.track, state.NominationID)

	edits := env.api.edits()
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].Text, "Best Track")
	assert.Equal(t, []string{
		fmt.Sprintf("vote_part:%d", a),
		fmt.Sprintf("vote_part:%d", b),
		cbBackToNominations,
	}, inlineData(edits[0].ReplyMarkup))

	env.press(t, userID, fmt.Sprintf("vote_part:%d", b))
	assert.Equal(t, model.StateIdle, env.state(userID).State)
	assert.True(t, containsAll(env.api.lastText(), "✅ Ваш голос успешно учтен!", "Best Track", "B"))

	votes, err := env.svc.UserVotes(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []model.UserVote{{NominationName: "Best Track", ParticipantName: "B"}}, votes)

	// каждая нажатая кнопка получила ответ
	assert.Len(t, env.api.callbacks(), 2)
}

func TestRevoteOverwritesChoice(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParticipant(t, env.track, "A")
	b := env.addParticipant(t, env.track, "B")

	for _, participant := range []int64{a, b} {
		env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.track))
		env.press(t, userID, fmt.Sprintf("vote_part:%d", participant))
	}

	report, err := env.svc.Results(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Total)
	assert.Equal(t, "B", report.Nominations[0].Participants[0].Name)
	assert.Equal(t, int64(1), report.Nominations[0].Participants[0].Votes)
}

func TestNominationWithoutParticipantsAlerts(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.vocal))

	cb := env.api.lastCallback()
	assert.True(t, cb.ShowAlert)
	assert.Equal(t, textEmptyNomination, cb.Text)
	assert.Equal(t, model.StateIdle, env.state(userID).State)
	assert.Empty(t, env.api.edits())
}

func TestStaleParticipantPressIsRejected(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParticipant(t, env.track, "A")
	b := env.addParticipant(t, env.track, "B")

	env.press(t, userID, fmt.Sprintf("vote_part:%d", a))
	cb := env.api.lastCallback()
	assert.True(t, cb.ShowAlert)
	assert.Equal(t, textStaleButton, cb.Text)

	votes, err := env.svc.UserVotes(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, votes)

	// кнопка из уже завершенного голосования
	env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.track))
	env.press(t, userID, fmt.Sprintf("vote_part:%d", b))
	env.press(t, userID, fmt.Sprintf("vote_part:%d", a))
	assert.Equal(t, textStaleButton, env.api.lastCallback().Text)

	votes, err = env.svc.UserVotes(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []model.UserVote{{NominationName: "Best Track", ParticipantName: "B"}}, votes)
}

func TestParticipantFromOtherNominationIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.addParticipant(t, env.track, "A")
	singer := env.addParticipant(t, env.vocal, "Singer")

	env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.track))
	env.press(t, userID, fmt.Sprintf("vote_part:%d", singer))

	cb := env.api.lastCallback()
	assert.True(t, cb.ShowAlert)
	assert.Equal(t, textNotFound, cb.Text)
	assert.Equal(t, model.StateIdle, env.state(userID).State)

	votes, err := env.svc.UserVotes(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestDeletedParticipantButtonIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParticipant(t, env.track, "A")
	env.addParticipant(t, env.track, "B")

	env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.track))
	_, err := env.svc.DeleteParticipant(context.Background(), a)
	require.NoError(t, err)

	env.press(t, userID, fmt.Sprintf("vote_part:%d", a))
	assert.Equal(t, textNotFound, env.api.lastCallback().Text)
	assert.Equal(t, model.StateIdle, env.state(userID).State)
}

func TestUnknownNominationIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, userID, "vote_nom:9999")
	assert.Equal(t, textNotFound, env.api.lastCallback().Text)
}

func TestMissingNominationInSessionIsStateError(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParticipant(t, env.track, "A")

	env.bot.sessions.Set(userID, model.StateAwaitingParticipant, 0)
	err := env.bot.HandleUpdate(context.Background(), callbackUpdate(userID, fmt.Sprintf("vote_part:%d", a)))

	assert.ErrorIs(t, err, model.ErrState)
	assert.Equal(t, textStateLost, env.api.lastCallback().Text)
	assert.Equal(t, model.StateIdle, env.state(userID).State)
}

func TestBackNavigationClearsSession(t *testing.T) {
	env := newTestEnv(t)
	env.addParticipant(t, env.track, "A")

	env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.track))
	require.Equal(t, model.StateAwaitingParticipant, env.state(userID).State)

	env.press(t, userID, cbBackToNominations)
	assert.Equal(t, model.StateIdle, env.state(userID).State)
	assert.Equal(t, textChooseNomination, env.api.lastText())

	env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.track))
	env.press(t, userID, cbBackToMain)
	assert.Equal(t, model.StateIdle, env.state(userID).State)
	assert.Equal(t, 1, env.api.deletes())
	assert.Equal(t, textMainMenu, env.api.lastMessage().Text)
}

func TestMenuButtonAbandonsFlow(t *testing.T) {
	env := newTestEnv(t)
	env.addParticipant(t, env.track, "A")

	env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.track))
	env.text(t, userID, btnMyVotes)

	assert.Equal(t, model.StateIdle, env.state(userID).State)
	assert.Equal(t, textNoUserVotes, env.api.lastMessage().Text)
}

func TestUnknownCommandAbandonsVote(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParticipant(t, env.track, "A")

	env.press(t, userID, fmt.Sprintf("vote_nom:%d", env.track))
	env.command(t, userID, "foo")

	assert.Equal(t, model.StateIdle, env.state(userID).State)
	assert.Equal(t, textMainMenu, env.api.lastMessage().Text)

	env.press(t, userID, fmt.Sprintf("vote_part:%d", a))
	cb := env.api.lastCallback()
	assert.True(t, cb.ShowAlert)
	assert.Equal(t, textStaleButton, cb.Text)

	votes, err := env.svc.UserVotes(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestMyVotes(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParticipant(t, env.track, "A <b>")
	env.vote(t, userID, env.track, a)

	env.text(t, userID, btnMyVotes)
	assert.True(t, containsAll(env.api.lastText(), "Ваши голоса", "Best Track", "A &lt;b&gt;"))
}

func TestResultsByRole(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParticipant(t, env.track, "A")
	env.vote(t, userID, env.track, a)

	env.text(t, userID, btnResults)
	text := env.api.lastText()
	assert.Contains(t, text, notice)
	assert.NotContains(t, text, "Всего голосов")
	assert.NotContains(t, text, "A:")

	env.text(t, adminID, btnResults)
	assert.True(t, containsAll(env.api.lastText(), "Текущие результаты", "A: 1 голос", "Всего голосов:</b> 1"))
}

func TestFreeTextShowsMainMenu(t *testing.T) {
	env := newTestEnv(t)

	env.text(t, userID, "привет")
	assert.Equal(t, textMainMenu, env.api.lastMessage().Text)
}

func TestHandleUpdateRecoversPanic(t *testing.T) {
	env := newTestEnv(t)
	env.api.panicOnSend = true

	var err error
	assert.NotPanics(t, func() {
		err = env.bot.HandleUpdate(context.Background(), commandUpdate(userID, "start"))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestSendFailureIsCollaboratorError(t *testing.T) {
	env := newTestEnv(t)
	env.api.sendErr = assert.AnError

	err := env.bot.HandleUpdate(context.Background(), commandUpdate(userID, "start"))
	assert.ErrorIs(t, err, model.ErrCollaborator)
}
