package service

import "errors"

// Ошибки слоя сервисов. Все терминальны для текущего запроса —
// ни одна не ретраится; маппинг в HTTP-статусы делают хендлеры.
var (
	ErrLoginTaken       = errors.New("login already taken")
	ErrBadCredentials   = errors.New("invalid login or password")
	ErrUserNotFound     = errors.New("user not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidPath      = errors.New("invalid file path")
	ErrPathNotAllowed   = errors.New("access to this path is not allowed")
	ErrForbidden        = errors.New("access denied")
	ErrFileMissing      = errors.New("file not found")
)
