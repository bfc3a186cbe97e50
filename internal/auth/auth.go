package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

const (
	// AdminLogin - логин административного пользователя
	AdminLogin = "admin"

	// DefaultSalt - соль для токенов обычных пользователей
	DefaultSalt = "Otus"
	// DefaultAdminSalt - соль для токена администратора
	DefaultAdminSalt = "42"

	// adminHourLayout - час, в течение которого действует токен администратора (YYYYMMDDHH)
	adminHourLayout = "2006010215"
)

// Credentials - поля конверта запроса, участвующие в аутентификации
type Credentials interface {
	Account() string
	Login() string
	Token() string
	IsAdmin() bool
}

// Authenticator вычисляет ожидаемый токен и сравнивает его с переданным.
// Состояния между вызовами не хранит.
type Authenticator struct {
	salt      string
	adminSalt string
	now       func() time.Time
}

// Option настраивает Authenticator
type Option func(*Authenticator)

// WithClock подменяет источник времени (для токена администратора)
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// New создает Authenticator. Пустые соли заменяются значениями по умолчанию.
func New(salt, adminSalt string, opts ...Option) *Authenticator {
	if salt == "" {
		salt = DefaultSalt
	}
	if adminSalt == "" {
		adminSalt = DefaultAdminSalt
	}
	a := &Authenticator{
		salt:      salt,
		adminSalt: adminSalt,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Check сообщает, совпадает ли переданный токен с ожидаемым
func (a *Authenticator) Check(c Credentials) bool {
	var expected string
	if c.IsAdmin() {
		expected = a.AdminToken()
	} else {
		expected = a.UserToken(c.Account(), c.Login())
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(c.Token())) == 1
}

// AdminToken - токен администратора для текущего часа UTC.
// Токен перестает действовать со сменой часа.
func (a *Authenticator) AdminToken() string {
	return Digest(a.now().UTC().Format(adminHourLayout) + a.adminSalt)
}

// UserToken - токен обычного пользователя
func (a *Authenticator) UserToken(account, login string) string {
	return Digest(account + login + a.salt)
}

// Digest возвращает SHA-512 в hex
func Digest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
