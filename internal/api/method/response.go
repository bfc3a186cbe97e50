package method

import "go.uber.org/zap"

// Коды ответа API. Совпадают с HTTP статусами, 422 называется Invalid Request.
const (
	StatusOK             = 200
	StatusBadRequest     = 400
	StatusForbidden      = 403
	StatusNotFound       = 404
	StatusInvalidRequest = 422
	StatusInternalError  = 500
)

var errorPhrases = map[int]string{
	StatusBadRequest:     "Bad Request",
	StatusForbidden:      "Forbidden",
	StatusNotFound:       "Not Found",
	StatusInvalidRequest: "Invalid Request",
	StatusInternalError:  "Internal Server Error",
}

// ErrorPhrase - текст ошибки по умолчанию для кода
func ErrorPhrase(code int) string {
	if phrase, ok := errorPhrases[code]; ok {
		return phrase
	}
	return "Unknown Error"
}

// Response - результат вызова метода: полезная нагрузка и код
type Response struct {
	Payload any
	Code    int
}

// Envelope собирает тело ответа:
// {"response": ..., "code": 200} или {"error": ..., "code": ...}
func (r Response) Envelope() map[string]any {
	if r.Code == StatusOK {
		return map[string]any{"response": r.Payload, "code": r.Code}
	}
	msg, ok := r.Payload.(string)
	if !ok || msg == "" {
		msg = ErrorPhrase(r.Code)
	}
	return map[string]any{"error": msg, "code": r.Code}
}

// Context - данные запроса для журнала. Обработчики методов дополняют его.
type Context struct {
	RequestID string
	Has       []string
	NClients  *int
}

// Fields - поля контекста для zap
func (c *Context) Fields() []zap.Field {
	fields := []zap.Field{zap.String("request_id", c.RequestID)}
	if c.Has != nil {
		fields = append(fields, zap.Strings("has", c.Has))
	}
	if c.NClients != nil {
		fields = append(fields, zap.Int("nclients", *c.NClients))
	}
	return fields
}
