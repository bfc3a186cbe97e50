package model

import (
	"errors"
	"time"

	"scoring-api/internal/schema"
)

const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldBirthday  = "birthday"
	FieldGender    = "gender"
)

// ErrNoScoringPair - в запросе нет ни одной полной пары полей
var ErrNoScoringPair = errors.New("request should contain at least one pair " +
	"phone-email, first name-last name, gender-birthday with non-empty values")

// OnlineScoreSchema - аргументы метода online_score
var OnlineScoreSchema = schema.New("OnlineScoreRequest",
	schema.Char(FieldFirstName, schema.Optional(), schema.Nullable()),
	schema.Char(FieldLastName, schema.Optional(), schema.Nullable()),
	schema.Email(FieldEmail, schema.Optional(), schema.Nullable()),
	schema.Phone(FieldPhone, schema.Optional(), schema.Nullable()),
	schema.BirthDay(FieldBirthday, schema.Optional(), schema.Nullable()),
	schema.Gender(FieldGender, schema.Optional(), schema.Nullable()),
).WithRule(requireScoringPair)

var scoringPairs = [][2]string{
	{FieldPhone, FieldEmail},
	{FieldFirstName, FieldLastName},
	{FieldGender, FieldBirthday},
}

func requireScoringPair(r *schema.Record) error {
	for _, pair := range scoringPairs {
		if !r.IsNull(pair[0]) && !r.IsNull(pair[1]) {
			return nil
		}
	}
	return ErrNoScoringPair
}

// OnlineScoreRequest - запрос на расчет скоринга.
// IsAdmin выставляет диспетчер по конверту, из аргументов клиента он не читается.
type OnlineScoreRequest struct {
	record  *schema.Record
	IsAdmin bool
}

// NewOnlineScoreRequest собирает запрос из аргументов метода
func NewOnlineScoreRequest(args map[string]any) (*OnlineScoreRequest, error) {
	r, err := OnlineScoreSchema.FromMap(args)
	if err != nil {
		return nil, err
	}
	return &OnlineScoreRequest{record: r}, nil
}

// Validate проверяет поля и наличие хотя бы одной пары
func (r *OnlineScoreRequest) Validate() error { return r.record.Validate() }

// Has - непустые поля в порядке объявления
func (r *OnlineScoreRequest) Has() []string { return r.record.Present() }

// ScoreInput переводит запрос во входные данные скоринга
func (r *OnlineScoreRequest) ScoreInput() ScoreInput {
	in := ScoreInput{
		Phone:     r.record.String(FieldPhone),
		Email:     r.record.String(FieldEmail),
		FirstName: r.record.String(FieldFirstName),
		LastName:  r.record.String(FieldLastName),
	}
	if birthday, ok := r.record.Date(FieldBirthday); ok {
		in.Birthday = &birthday
	}
	if gender, ok := r.record.Int(FieldGender); ok {
		in.Gender = &gender
	}
	return in
}

// ScoreInput - данные профиля для расчета скоринга. nil - поле не передано.
type ScoreInput struct {
	Phone     string
	Email     string
	Birthday  *time.Time
	Gender    *int64
	FirstName string
	LastName  string
}
