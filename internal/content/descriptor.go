package content

import (
	"fmt"
	"slices"
	"strings"
)

// Module описывает тип контента при регистрации: идентификатор, метки и
// наборы функций для поддерживаемых ролей. Роль, которую тип не
// поддерживает, оставляется nil.
type Module struct {
	ID     ID
	Tags   []Tag
	Block  *Bundle
	Entity *Bundle
	Item   *Bundle
}

// Descriptor — неизменяемое описание зарегистрированного типа контента
type Descriptor struct {
	id      ID
	tags    []Tag
	bundles [roleCount]*Bundle
}

func newDescriptor(m Module) (*Descriptor, error) {
	if m.ID == "" {
		return nil, ErrEmptyID
	}

	d := &Descriptor{
		id:   m.ID,
		tags: slices.Clone(m.Tags),
	}

	slots := [roleCount]*Bundle{
		RoleBlock:  m.Block,
		RoleEntity: m.Entity,
		RoleItem:   m.Item,
	}
	for role, b := range slots {
		if b == nil {
			continue
		}
		if b.role != Role(role) {
			return nil, fmt.Errorf("%w: %q has a %s bundle in the %s slot", ErrRoleMismatch, m.ID, b.role, Role(role))
		}
		d.bundles[role] = b
	}

	return d, nil
}

// ID возвращает идентификатор типа
func (d *Descriptor) ID() ID { return d.id }

// Tags возвращает копию меток в порядке регистрации
func (d *Descriptor) Tags() []Tag { return slices.Clone(d.tags) }

// HasTag проверяет наличие метки
func (d *Descriptor) HasTag(tag Tag) bool { return slices.Contains(d.tags, tag) }

// Bundle возвращает набор функций роли, если тип её поддерживает
func (d *Descriptor) Bundle(role Role) (*Bundle, bool) {
	if role >= roleCount {
		return nil, false
	}
	b := d.bundles[role]
	return b, b != nil
}

// Supports сообщает, может ли тип выступать в указанной роли
func (d *Descriptor) Supports(role Role) bool {
	_, ok := d.Bundle(role)
	return ok
}

// Roles возвращает поддерживаемые роли по порядку
func (d *Descriptor) Roles() []Role {
	roles := make([]Role, 0, roleCount)
	for r := Role(0); r < roleCount; r++ {
		if d.bundles[r] != nil {
			roles = append(roles, r)
		}
	}
	return roles
}

// String возвращает краткое описание для логов и CLI
func (d *Descriptor) String() string {
	tags := make([]string, len(d.tags))
	for i, t := range d.tags {
		tags[i] = t.String()
	}
	roles := make([]string, 0, roleCount)
	for _, r := range d.Roles() {
		roles = append(roles, r.String())
	}
	return fmt.Sprintf("%s tags=[%s] roles=[%s]", d.id, strings.Join(tags, ","), strings.Join(roles, ","))
}
