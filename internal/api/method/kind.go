package method

import "strings"

// Kind - вид вложенного запроса
type Kind int

const (
	KindOnlineScore Kind = iota + 1
	KindClientsInterests
)

var kindNames = map[Kind]string{
	KindOnlineScore:      "online_score",
	KindClientsInterests: "clients_interests",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind определяет вид запроса по имени метода без учета регистра
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(name)
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, true
		}
	}
	return 0, false
}
