package telegram

import (
	"errors"
	"net/http"
)

var ErrNotConfigured = errors.New("TELEGRAM_BOT_TOKEN и TELEGRAM_CHAT_ID должны быть настроены")

const (
	reasonBadRequest = "Неверный chat_id или формат сообщения"
	reasonBadToken   = "Неверный токен бота"
	reasonForbidden  = "Бот не добавлен в чат или не имеет прав на отправку сообщений"
	reasonGeneric    = "Ошибка Telegram API"
	reasonTimeout    = "Превышено время ожидания ответа от Telegram"
	reasonNetwork    = "Ошибка сети: "
)

// DeliveryError is a failed sendMessage call. Reason is the user-facing text.
// Status is the Telegram error code, or 0 for transport failures.
type DeliveryError struct {
	Status     int
	Reason     string
	RetryAfter int
	Part       int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e == nil {
		return ""
	}
	return e.Reason
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.Status
}

// reasonFor maps an API error code to the message shown to the operator.
func reasonFor(code int, description string) string {
	switch code {
	case http.StatusBadRequest:
		return reasonBadRequest
	case http.StatusUnauthorized:
		return reasonBadToken
	case http.StatusForbidden:
		return reasonForbidden
	}
	if description != "" {
		return description
	}
	return reasonGeneric
}
