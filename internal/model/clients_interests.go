package model

import (
	"time"

	"scoring-api/internal/schema"
)

const (
	FieldClientIDs = "client_ids"
	FieldDate      = "date"
)

// ClientsInterestsSchema - аргументы метода clients_interests
var ClientsInterestsSchema = schema.New("ClientsInterestsRequest",
	schema.ClientIDs(FieldClientIDs),
	schema.Date(FieldDate, schema.Optional(), schema.Nullable()),
)

// ClientsInterestsRequest - запрос интересов для списка клиентов
type ClientsInterestsRequest struct {
	record *schema.Record
}

// NewClientsInterestsRequest собирает запрос из аргументов метода
func NewClientsInterestsRequest(args map[string]any) (*ClientsInterestsRequest, error) {
	r, err := ClientsInterestsSchema.FromMap(args)
	if err != nil {
		return nil, err
	}
	return &ClientsInterestsRequest{record: r}, nil
}

func (r *ClientsInterestsRequest) Validate() error { return r.record.Validate() }

// ClientIDs возвращает идентификаторы в исходном порядке
func (r *ClientsInterestsRequest) ClientIDs() []int64 { return r.record.IntList(FieldClientIDs) }

// Date - дата, на которую запрошены интересы
func (r *ClientsInterestsRequest) Date() (time.Time, bool) { return r.record.Date(FieldDate) }
