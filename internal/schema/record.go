package schema

import (
	"errors"
	"fmt"
	"time"
)

// Rule - проверка записи целиком, выполняется после проверок отдельных полей
type Rule func(r *Record) error

// Schema - упорядоченный набор полей и правил уровня записи
type Schema struct {
	name   string
	fields []Field
	byName map[string]Field
	rules  []Rule
}

// New создает схему. Повтор имени поля - ошибка программиста, поэтому panic.
func New(name string, fields ...Field) *Schema {
	s := &Schema{
		name:   name,
		fields: fields,
		byName: make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		if _, exists := s.byName[f.Name()]; exists {
			panic(fmt.Sprintf("schema %s: duplicate field %q", name, f.Name()))
		}
		s.byName[f.Name()] = f
	}
	return s
}

// WithRule добавляет правило уровня записи. Вызывается при инициализации пакета.
func (s *Schema) WithRule(rule Rule) *Schema {
	s.rules = append(s.rules, rule)
	return s
}

// Name возвращает имя схемы
func (s *Schema) Name() string { return s.name }

// Fields возвращает поля в порядке объявления
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field ищет поле по имени
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// NewRecord создает пустую запись схемы
func (s *Schema) NewRecord() *Record {
	return &Record{
		schema: s,
		values: make(map[string]any, len(s.fields)),
	}
}

// FromMap собирает запись из произвольного map.
// Неизвестные ключи игнорируются. Ошибки всех полей собираются в один *ValidationError.
func (s *Schema) FromMap(src map[string]any) (*Record, error) {
	r := s.NewRecord()

	var errs []string
	for _, f := range s.fields {
		value, ok := src[f.Name()]
		if !ok {
			continue
		}
		if err := r.Set(f.Name(), value); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if err := newValidationError(errs); err != nil {
		return nil, err
	}
	return r, nil
}

// Record хранит значения полей одного экземпляра запроса
type Record struct {
	schema *Schema
	values map[string]any
}

// Schema возвращает схему записи
func (r *Record) Schema() *Schema { return r.schema }

// Set присваивает значение полю. nil принимается всегда, без вызова Check.
func (r *Record) Set(name string, value any) error {
	f, ok := r.schema.byName[name]
	if !ok {
		return &FieldError{Field: name, Value: value, Message: "is not declared in " + r.schema.name}
	}

	if value == nil {
		r.values[name] = nil
		return nil
	}

	normalized, err := f.Check(value)
	if err != nil {
		return err
	}
	r.values[name] = normalized
	return nil
}

// Validate проверяет обязательность и непустоту полей, затем правила записи
func (r *Record) Validate() error {
	var errs []string
	for _, f := range r.schema.fields {
		switch {
		case f.Required() && r.values[f.Name()] == nil:
			errs = append(errs, f.Name()+" is required")
		case !f.Nullable() && r.IsNull(f.Name()):
			errs = append(errs, f.Name()+" is not nullable")
		}
	}
	if err := newValidationError(errs); err != nil {
		return err
	}

	for _, rule := range r.schema.rules {
		if err := rule(r); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return err
			}
			return &ValidationError{Errors: []string{err.Error()}}
		}
	}
	return nil
}

// IsNull - значение отсутствует либо это пустая строка, список или объект.
// 0 и false пустыми не считаются.
func (r *Record) IsNull(name string) bool {
	return isNull(r.values[name])
}

func isNull(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case []int64:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

// Present возвращает имена непустых полей в порядке объявления
func (r *Record) Present() []string {
	names := make([]string, 0, len(r.schema.fields))
	for _, f := range r.schema.fields {
		if !r.IsNull(f.Name()) {
			names = append(names, f.Name())
		}
	}
	return names
}

// Value возвращает сохраненное значение как есть
func (r *Record) Value(name string) any {
	return r.values[name]
}

// String возвращает строковое значение или ""
func (r *Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Int возвращает целое значение; false, если поле не задано
func (r *Record) Int(name string) (int64, bool) {
	n, ok := r.values[name].(int64)
	return n, ok
}

// IntList возвращает список целых
func (r *Record) IntList(name string) []int64 {
	ids, _ := r.values[name].([]int64)
	return ids
}

// Date разбирает строку DD.MM.YYYY; false для пустого или незаданного поля
func (r *Record) Date(name string) (time.Time, bool) {
	s := r.String(name)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
