package content

import (
	"fmt"
	"strings"

	"github.com/annel0/voxel-content/internal/logging"
)

// InvariantError описывает нарушение инварианта контейнера или реестра.
// Это дефект программы, а не штатная ситуация: значение передаётся в panic.
type InvariantError struct {
	Op      string // операция: serialize, destroy, lookup, move
	Role    string // роль контейнера, если применимо
	ID      ID
	Payload string // диагностическое представление данных
	Reason  string
}

// Error формирует сообщение с операцией, идентификатором и данными
func (e *InvariantError) Error() string {
	var sb strings.Builder
	sb.WriteString("content: can't ")
	sb.WriteString(e.Op)
	if e.Role != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Role)
	}
	fmt.Fprintf(&sb, " %q", e.ID)
	if e.Payload != "" {
		fmt.Fprintf(&sb, " (payload %s)", e.Payload)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// fatal логирует нарушение и паникует
func fatal(err *InvariantError) {
	logging.GetComponentLogger("content").Error("%v", err)
	panic(err)
}
