package schema

import (
	"fmt"
	"strings"
)

// FieldError возвращается, когда значение не проходит проверку своего поля
type FieldError struct {
	Field   string // Имя поля в схеме
	Value   any    // Значение, которое пытались присвоить
	Message string // Описание нарушения
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError объединяет все нарушения, найденные при сборке или проверке записи.
// Сообщения идут в порядке объявления полей в схеме.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, ", ")
}

func newValidationError(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
