package bot

const (
	textWelcome      = "🏆 Добро пожаловать в систему голосования Track Awards!\n\n"
	textWelcomeAdmin = "👨‍💻 <b>Вы вошли как администратор</b>\n"
	textChooseAction = "Выберите действие в главном меню:"
	textMainMenu     = "🏆 Главное меню:"

	textChooseNomination = "Выберите номинацию:"
	textNoNominations    = "📝 Номинаций пока нет"
	textEmptyNomination  = "❌ В этой номинации пока нет участников"
	textVoteSaveFailed   = "❌ Произошла ошибка при сохранении голоса. Попробуйте еще раз."
	textNoUserVotes      = "📝 Вы еще не голосовали ни в одной номинации"
	textNotSubscribed    = "⛔ Для голосования необходимо быть подписанным на канал %s"
	textGateFailed       = "❌ Ошибка проверки подписки. Попробуйте позже."
	textResultsForbidden = "⛔ Просмотр результатов доступен только администраторам\n\n"

	textAdminPanel          = "👨‍💻 Админ-панель"
	textAdminForbidden      = "⛔ У вас нет доступа к админ-панели"
	textChooseForAdd        = "Выберите номинацию для добавления участника:"
	textChooseForDelete     = "Выберите номинацию для удаления участника:"
	textEnterName           = "Номинация: <b>%s</b>\n\nВведите имя участника:"
	textEmptyName           = "❌ Имя участника не может быть пустым. Попробуйте еще раз:"
	textNothingToDelete     = "❌ В номинации <b>'%s'</b> пока нет участников для удаления."
	textParticipantAdded    = "✅ Участник <b>'%s'</b> успешно добавлен в номинацию <b>'%s'</b>!"
	textParticipantDeleted  = "✅ Участник <b>'%s'</b> успешно удален из номинации <b>'%s'</b>!"
	textParticipantNotFound = "❌ Участник не найден!"
	textNoVotes             = "📊 Голосов пока нет"

	textStaleButton = "⚠️ Эта кнопка больше не активна. Начните заново."
	textNotFound    = "❌ Не найдено. Возможно, список уже изменился."
	textStateLost   = "⚠️ Что-то пошло не так. Начните заново."
	textTryLater    = "❌ Произошла ошибка. Попробуйте позже."
)
