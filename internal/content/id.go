package content

// ID представляет стабильный идентификатор типа контента ("stone", "exp_orb").
// Уникален в пределах реестра и не переиспользуется для другого типа.
type ID string

// Role определяет форму, в которой тип контента может существовать в мире
type Role uint8

const (
	RoleBlock Role = iota
	RoleEntity
	RoleItem
)

// roleCount — количество ролей, используется для массивов по ролям
const roleCount = 3

// String возвращает строковое представление роли
func (r Role) String() string {
	switch r {
	case RoleBlock:
		return "block"
	case RoleEntity:
		return "entity"
	case RoleItem:
		return "item"
	default:
		return "unknown"
	}
}

// ParseRole разбирает имя роли ("block", "entity", "item")
func ParseRole(s string) (Role, bool) {
	for r := Role(0); r < roleCount; r++ {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}
