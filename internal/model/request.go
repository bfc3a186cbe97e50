package model

import (
	"errors"

	"scoring-api/internal/auth"
	"scoring-api/internal/schema"
)

// Имена полей конверта
const (
	FieldAccount   = "account"
	FieldLogin     = "login"
	FieldToken     = "token"
	FieldArguments = "arguments"
	FieldMethod    = "method"
)

// MethodRequestSchema - внешний конверт запроса
var MethodRequestSchema = schema.New("MethodRequest",
	schema.Char(FieldAccount, schema.Optional(), schema.Nullable()),
	schema.Char(FieldLogin, schema.Nullable()),
	schema.Char(FieldToken, schema.Nullable()),
	schema.Arguments(FieldArguments, schema.Nullable()),
	schema.Char(FieldMethod),
)

// ErrArgumentsNotObject возвращается, если arguments не JSON объект
var ErrArgumentsNotObject = errors.New("arguments must be an object")

var _ auth.Credentials = (*MethodRequest)(nil)

// MethodRequest - конверт: данные аутентификации, имя метода и аргументы
type MethodRequest struct {
	record *schema.Record
}

// NewMethodRequest собирает конверт из тела запроса
func NewMethodRequest(src map[string]any) (*MethodRequest, error) {
	r, err := MethodRequestSchema.FromMap(src)
	if err != nil {
		return nil, err
	}
	return &MethodRequest{record: r}, nil
}

// Validate проверяет обязательные поля конверта
func (m *MethodRequest) Validate() error { return m.record.Validate() }

func (m *MethodRequest) Account() string { return m.record.String(FieldAccount) }
func (m *MethodRequest) Login() string   { return m.record.String(FieldLogin) }
func (m *MethodRequest) Token() string   { return m.record.String(FieldToken) }
func (m *MethodRequest) Method() string  { return m.record.String(FieldMethod) }

// IsAdmin - запрос от административного пользователя
func (m *MethodRequest) IsAdmin() bool { return m.Login() == auth.AdminLogin }

// Arguments возвращает аргументы метода как объект.
// null и пустая строка дают пустой объект.
func (m *MethodRequest) Arguments() (map[string]any, error) {
	switch v := m.record.Value(FieldArguments).(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case string:
		if v == "" {
			return map[string]any{}, nil
		}
	}
	return nil, ErrArgumentsNotObject
}
