package models

const (
	// HeaderUserID несет идентификатор пользователя, выполняющего запрос
	HeaderUserID = "X-Sharer-User-Id"

	// DefaultPageFrom смещение пагинации по умолчанию
	DefaultPageFrom = 0

	// DefaultPageSize размер страницы по умолчанию
	DefaultPageSize = 10

	// RateLimitRequests количество запросов в окне
	RateLimitRequests = 20

	// RateLimitWindow окно ограничения частоты запросов
	RateLimitWindow = 60 // 1 минута в секундах
)
