package schema

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFieldCheck проверяет правила каждого типа поля на граничных значениях
func TestFieldCheck(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		name    string
		field   Field
		value   any
		want    any
		wantErr bool
	}{
		{name: "char accepts string", field: Char("f"), value: "Test string", want: "Test string"},
		{name: "char accepts empty", field: Char("f"), value: "", want: ""},
		{name: "char rejects number", field: Char("f"), value: json.Number("123"), wantErr: true},
		{name: "char rejects list", field: Char("f"), value: []any{}, wantErr: true},
		{name: "char rejects object", field: Char("f"), value: map[string]any{"key": 1}, wantErr: true},

		{name: "email simple", field: Email("f"), value: "a@b.com", want: "a@b.com"},
		{name: "email with dots and hyphens", field: Email("f"), value: "user.name@sub-domain.co", want: "user.name@sub-domain.co"},
		{name: "email real address", field: Email("f"), value: "senenkova.e@yandex.ru", want: "senenkova.e@yandex.ru"},
		{name: "email empty is not invalid", field: Email("f"), value: "", want: ""},
		{name: "email without local part", field: Email("f"), value: "@b.com", wantErr: true},
		{name: "email without tld", field: Email("f"), value: "a@b", wantErr: true},
		{name: "email uppercase", field: Email("f"), value: "A@B.COM", wantErr: true},
		{name: "email starts with digit", field: Email("f"), value: "1test@gmail.com", wantErr: true},
		{name: "email double at", field: Email("f"), value: "test@@gmail.com", wantErr: true},
		{name: "email not a string", field: Email("f"), value: json.Number("123"), wantErr: true},

		{name: "phone string", field: Phone("f"), value: "79175002040", want: "79175002040"},
		{name: "phone number is normalized", field: Phone("f"), value: json.Number("79175002040"), want: "79175002040"},
		{name: "phone int is normalized", field: Phone("f"), value: 79175002040, want: "79175002040"},
		{name: "phone empty", field: Phone("f"), value: "", want: ""},
		{name: "phone leading 8", field: Phone("f"), value: "89175002040", wantErr: true},
		{name: "phone 10 digits", field: Phone("f"), value: "7917500204", wantErr: true},
		{name: "phone 12 digits", field: Phone("f"), value: "791750020400", wantErr: true},
		{name: "phone short number", field: Phone("f"), value: json.Number("123"), wantErr: true},
		{name: "phone list", field: Phone("f"), value: []any{}, wantErr: true},

		{name: "date valid", field: Date("f"), value: "01.01.2020", want: "01.01.2020"},
		{name: "date empty", field: Date("f"), value: "", want: ""},
		{name: "date iso", field: Date("f"), value: "2020-01-01", wantErr: true},
		{name: "date slashes", field: Date("f"), value: "01/01/2020", wantErr: true},
		{name: "date impossible day", field: Date("f"), value: "31.02.2020", wantErr: true},
		{name: "date number", field: Date("f"), value: json.Number("123"), wantErr: true},

		{name: "birthday on the boundary", field: BirthDay("f"), value: fmt.Sprintf("01.01.%d", year-MaxAgeYears), want: fmt.Sprintf("01.01.%d", year-MaxAgeYears)},
		{name: "birthday recent", field: BirthDay("f"), value: "01.01.2000", want: "01.01.2000"},
		{name: "birthday too old", field: BirthDay("f"), value: fmt.Sprintf("01.01.%d", year-MaxAgeYears-1), wantErr: true},
		{name: "birthday wrong format", field: BirthDay("f"), value: "2000-01-01", wantErr: true},

		{name: "gender unknown", field: Gender("f"), value: json.Number("0"), want: int64(0)},
		{name: "gender male", field: Gender("f"), value: 1, want: int64(1)},
		{name: "gender female", field: Gender("f"), value: json.Number("2"), want: int64(2)},
		{name: "gender negative", field: Gender("f"), value: json.Number("-1"), wantErr: true},
		{name: "gender out of range", field: Gender("f"), value: json.Number("3"), wantErr: true},
		{name: "gender float", field: Gender("f"), value: json.Number("1.0"), wantErr: true},
		{name: "gender string", field: Gender("f"), value: "1", wantErr: true},
		{name: "gender bool", field: Gender("f"), value: true, wantErr: true},

		{name: "client ids", field: ClientIDs("f"), value: []any{json.Number("1"), json.Number("2"), json.Number("3")}, want: []int64{1, 2, 3}},
		{name: "client ids native ints", field: ClientIDs("f"), value: []int{1, 2}, want: []int64{1, 2}},
		{name: "client ids empty list", field: ClientIDs("f"), value: []any{}, want: []int64{}},
		{name: "client ids strings", field: ClientIDs("f"), value: []any{"a"}, wantErr: true},
		{name: "client ids not a list", field: ClientIDs("f"), value: json.Number("1"), wantErr: true},

		{name: "arguments object", field: Arguments("f"), value: map[string]any{"phone": "79175002040", "gender": 1}, want: map[string]any{"phone": "79175002040", "gender": json.Number("1")}},
		{name: "arguments empty string", field: Arguments("f"), value: "", want: ""},
		{name: "arguments not serializable", field: Arguments("f"), value: make(chan int), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Check(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				var fieldErr *FieldError
				require.ErrorAs(t, err, &fieldErr)
				assert.Equal(t, "f", fieldErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBirthDay_UsesClock(t *testing.T) {
	clock := func() time.Time { return time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC) }
	f := BirthDay("birthday", WithClock(clock))

	_, err := f.Check("01.01.1960")
	require.NoError(t, err)

	_, err = f.Check("31.12.1959")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than 70 years ago")
}

func TestFieldDefaults(t *testing.T) {
	f := Char("method")
	assert.True(t, f.Required())
	assert.False(t, f.Nullable())

	f = Char("account", Optional(), Nullable())
	assert.False(t, f.Required())
	assert.True(t, f.Nullable())
	assert.Equal(t, KindChar, f.Kind())
	assert.Equal(t, "char", f.Kind().String())
}

func TestDecodeJSON(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a": 1, "b": [1.5]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1"), "b": []any{json.Number("1.5")}}, v)

	_, err = DecodeJSON([]byte(`{"a": 1} {"b": 2}`))
	require.ErrorIs(t, err, ErrTrailingData)

	_, err = DecodeJSON([]byte(`{"a": `))
	require.Error(t, err)
}
