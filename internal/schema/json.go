package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// ErrTrailingData возвращается, если после JSON значения остались лишние данные
var ErrTrailingData = errors.New("unexpected data after JSON value")

// DecodeJSON разбирает JSON в дерево map[string]any / []any / скаляров.
// Числа остаются json.Number, чтобы отличать целые от дробных.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return v, nil
}
