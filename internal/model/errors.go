package model

import "errors"

var (
	// ErrValidation некорректный ввод (пустое имя, неверный выбор)
	ErrValidation = errors.New("validation error")
	// ErrNotFound номинация или участник не существует (например, устаревшая кнопка)
	ErrNotFound = errors.New("not found")
	// ErrState данные сессии отсутствуют или противоречивы
	ErrState = errors.New("session state error")
	// ErrCollaborator сбой Telegram API или проверки подписки
	ErrCollaborator = errors.New("collaborator error")
)
