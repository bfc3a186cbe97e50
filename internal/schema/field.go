package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Kind - тип поля схемы. Набор закрыт: новые типы добавляются только здесь.
type Kind int

const (
	KindChar Kind = iota + 1
	KindEmail
	KindPhone
	KindDate
	KindBirthDay
	KindGender
	KindClientIDs
	KindArguments
)

func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindEmail:
		return "email"
	case KindPhone:
		return "phone"
	case KindDate:
		return "date"
	case KindBirthDay:
		return "birthday"
	case KindGender:
		return "gender"
	case KindClientIDs:
		return "client_ids"
	case KindArguments:
		return "arguments"
	default:
		return "unknown"
	}
}

const (
	// DateLayout - формат дат в запросах (DD.MM.YYYY)
	DateLayout = "02.01.2006"

	// MaxAgeYears - насколько глубоко в прошлое может уходить дата рождения
	MaxAgeYears = 70
)

// Значения поля gender
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

var (
	emailPattern = regexp.MustCompile(`^[a-z][\w\-.]*@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,4}$`)
	phonePattern = regexp.MustCompile(`^7\d{10}$`)
	datePattern  = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
)

// Field - правило валидации одного атрибута запроса.
// Дескрипторы создаются один раз на уровне схемы и не хранят состояния запросов,
// поэтому безопасно используются из разных горутин.
type Field interface {
	Name() string
	Kind() Kind
	Required() bool
	Nullable() bool

	// Check проверяет значение, отличное от nil, и возвращает его нормализованную форму.
	// При нарушении возвращает *FieldError.
	Check(value any) (any, error)
}

// Option настраивает дескриптор поля
type Option func(*descriptor)

// Optional снимает требование обязательного присутствия поля
func Optional() Option {
	return func(d *descriptor) { d.required = false }
}

// Nullable разрешает пустые значения ("", [], {})
func Nullable() Option {
	return func(d *descriptor) { d.nullable = true }
}

// WithClock задает источник текущего времени (нужен BirthDay)
func WithClock(now func() time.Time) Option {
	return func(d *descriptor) { d.now = now }
}

type checkFunc func(d *descriptor, value any) (any, error)

// checkers - таблица стратегий проверки по типу поля
var checkers = map[Kind]checkFunc{
	KindChar:      checkChar,
	KindEmail:     checkEmail,
	KindPhone:     checkPhone,
	KindDate:      checkDate,
	KindBirthDay:  checkBirthDay,
	KindGender:    checkGender,
	KindClientIDs: checkClientIDs,
	KindArguments: checkArguments,
}

var _ Field = (*descriptor)(nil)

type descriptor struct {
	name     string
	kind     Kind
	required bool
	nullable bool
	now      func() time.Time
}

func newField(name string, kind Kind, opts []Option) Field {
	// По умолчанию поле обязательное и не допускает пустых значений
	d := &descriptor{
		name:     name,
		kind:     kind,
		required: true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Char - строковое поле
func Char(name string, opts ...Option) Field { return newField(name, KindChar, opts) }

// Email - строка вида user@domain.tld, пустая строка допустима
func Email(name string, opts ...Option) Field { return newField(name, KindEmail, opts) }

// Phone - 11 цифр, начиная с 7; число приводится к строке
func Phone(name string, opts ...Option) Field { return newField(name, KindPhone, opts) }

// Date - дата в формате DD.MM.YYYY
func Date(name string, opts ...Option) Field { return newField(name, KindDate, opts) }

// BirthDay - дата не старше MaxAgeYears лет
func BirthDay(name string, opts ...Option) Field { return newField(name, KindBirthDay, opts) }

// Gender - одно из значений 0, 1, 2
func Gender(name string, opts ...Option) Field { return newField(name, KindGender, opts) }

// ClientIDs - список целых чисел
func ClientIDs(name string, opts ...Option) Field { return newField(name, KindClientIDs, opts) }

// Arguments - произвольное JSON значение
func Arguments(name string, opts ...Option) Field { return newField(name, KindArguments, opts) }

func (d *descriptor) Name() string   { return d.name }
func (d *descriptor) Kind() Kind     { return d.kind }
func (d *descriptor) Required() bool { return d.required }
func (d *descriptor) Nullable() bool { return d.nullable }

func (d *descriptor) Check(value any) (any, error) {
	check, ok := checkers[d.kind]
	if !ok {
		return nil, d.fail(value, "has unsupported field kind %s", d.kind)
	}
	return check(d, value)
}

func (d *descriptor) fail(value any, format string, args ...any) error {
	return &FieldError{
		Field:   d.name,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

func checkChar(d *descriptor, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, d.fail(value, "%v is not a string", value)
	}
	return s, nil
}

func checkEmail(d *descriptor, value any) (any, error) {
	s, ok := value.(string)
	if !ok || (s != "" && !emailPattern.MatchString(s)) {
		return nil, d.fail(value, "%v is not a valid email", value)
	}
	return s, nil
}

func checkPhone(d *descriptor, value any) (any, error) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	default:
		n, ok := asInt(value)
		if !ok {
			return nil, d.fail(value, "%v is not a valid phone", value)
		}
		s = strconv.FormatInt(n, 10)
	}
	if s != "" && !phonePattern.MatchString(s) {
		return nil, d.fail(value, "%v is not a valid phone", value)
	}
	return s, nil
}

func checkDate(d *descriptor, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, d.fail(value, "%v is not a valid date", value)
	}
	if s == "" {
		return s, nil
	}
	if !datePattern.MatchString(s) {
		return nil, d.fail(value, "%v is not a valid date", value)
	}
	// 31.02.2020 проходит по шаблону, но не является датой
	if _, err := time.Parse(DateLayout, s); err != nil {
		return nil, d.fail(value, "%v is not a valid date", value)
	}
	return s, nil
}

func checkBirthDay(d *descriptor, value any) (any, error) {
	v, err := checkDate(d, value)
	if err != nil {
		return nil, err
	}
	s := v.(string)
	if s == "" {
		return s, nil
	}
	date, _ := time.Parse(DateLayout, s)
	if date.Year() < d.now().Year()-MaxAgeYears {
		return nil, d.fail(value, "%v is more than %d years ago", value, MaxAgeYears)
	}
	return s, nil
}

func checkGender(d *descriptor, value any) (any, error) {
	n, ok := asInt(value)
	if !ok || (n != GenderUnknown && n != GenderMale && n != GenderFemale) {
		return nil, d.fail(value, "%v is not a valid gender", value)
	}
	return n, nil
}

func checkClientIDs(d *descriptor, value any) (any, error) {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []int:
		items = make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
	case []int64:
		return append([]int64{}, v...), nil
	default:
		return nil, d.fail(value, "%v is not a list", value)
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		n, ok := asInt(item)
		if !ok {
			return nil, d.fail(value, "%v should contain only integers", value)
		}
		ids = append(ids, n)
	}
	return ids, nil
}

func checkArguments(d *descriptor, value any) (any, error) {
	// Прогоняем значение через JSON, чтобы получить такое же дерево, как после декодирования тела
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, d.fail(value, "%v is not a valid json", value)
	}
	normalized, err := DecodeJSON(raw)
	if err != nil {
		return nil, d.fail(value, "%v is not a valid json", value)
	}
	return normalized, nil
}

// asInt приводит целые числа (в том числе json.Number) к int64.
// bool и дробные числа целыми не считаются.
func asInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
