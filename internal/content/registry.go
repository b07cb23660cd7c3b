package content

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/annel0/voxel-content/internal/logging"
)

var (
	// ErrEmptyID возвращается при регистрации типа без идентификатора
	ErrEmptyID = errors.New("content: empty content id")
	// ErrDuplicateID возвращается, если идентификатор зарегистрирован дважды
	ErrDuplicateID = errors.New("content: duplicate content id")
	// ErrRoleMismatch возвращается, если набор функций лежит не в своей роли
	ErrRoleMismatch = errors.New("content: bundle role mismatch")
)

// Registry — неизменяемая таблица описаний типов контента.
// После построения только читается, поэтому безопасна для
// конкурентного чтения без блокировок.
type Registry struct {
	descriptors []*Descriptor
	index       map[ID]int
}

// Build строит реестр из модулей в порядке регистрации
func Build(modules ...Module) (*Registry, error) {
	r := &Registry{
		descriptors: make([]*Descriptor, 0, len(modules)),
		index:       make(map[ID]int, len(modules)),
	}

	for i, m := range modules {
		d, err := newDescriptor(m)
		if err != nil {
			return nil, fmt.Errorf("module #%d: %w", i, err)
		}
		if _, exists := r.index[d.id]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, d.id)
		}
		r.index[d.id] = len(r.descriptors)
		r.descriptors = append(r.descriptors, d)
	}

	return r, nil
}

// Lookup возвращает описание типа. Отсутствие — не ошибка: идентификаторы
// из внешних источников могут быть устаревшими или чужими.
func (r *Registry) Lookup(id ID) (*Descriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.descriptors[i], true
}

// MustLookup возвращает описание типа, объявленного в коде.
// Отсутствие такого типа означает нарушение инварианта.
func (r *Registry) MustLookup(id ID) *Descriptor {
	d, ok := r.Lookup(id)
	if !ok {
		fatal(&InvariantError{Op: "lookup", ID: id, Reason: "content id is not registered"})
	}
	return d
}

// FilterByTag возвращает идентификаторы с указанной меткой в порядке
// регистрации. Каждый тип попадает в результат не более одного раза.
func (r *Registry) FilterByTag(tag Tag) []ID {
	ids := make([]ID, 0, 4)
	for _, d := range r.descriptors {
		if d.HasTag(tag) {
			ids = append(ids, d.id)
		}
	}
	return ids
}

// Descriptors возвращает все описания в порядке регистрации
func (r *Registry) Descriptors() []*Descriptor {
	return slices.Clone(r.descriptors)
}

// IDs возвращает все идентификаторы в порядке регистрации
func (r *Registry) IDs() []ID {
	ids := make([]ID, len(r.descriptors))
	for i, d := range r.descriptors {
		ids[i] = d.id
	}
	return ids
}

// Len возвращает количество зарегистрированных типов
func (r *Registry) Len() int { return len(r.descriptors) }

// bundle находит набор функций роли; ok=false при отсутствии типа или роли
func (r *Registry) bundle(id ID, role Role) (*Bundle, *Descriptor, bool) {
	d, ok := r.Lookup(id)
	if !ok {
		return nil, nil, false
	}
	b, ok := d.Bundle(role)
	return b, d, ok
}

// Глобальная таблица типов контента процесса
var (
	defineMu     sync.Mutex
	defined      []Module
	frozen       bool
	defaultOnce  sync.Once
	defaultTable *Registry
)

// Define объявляет тип контента в глобальной таблице. Вызывается при
// инициализации пакета, объявляющего тип, поэтому объявленный тип не может
// остаться незарегистрированным. После первого обращения к Default
// таблица заморожена и Define паникует.
func Define(m Module) ID {
	defineMu.Lock()
	defer defineMu.Unlock()

	if frozen {
		panic(fmt.Sprintf("content: Define(%q) after the registry was built", m.ID))
	}
	defined = append(defined, m)
	return m.ID
}

// Default возвращает глобальный реестр, строя его при первом вызове.
// Любая ошибка построения или потерянный тип — фатальны.
func Default() *Registry {
	defaultOnce.Do(func() {
		defineMu.Lock()
		frozen = true
		modules := slices.Clone(defined)
		defineMu.Unlock()

		r, err := Build(modules...)
		if err != nil {
			panic(fmt.Sprintf("content: building registry: %v", err))
		}
		for _, m := range modules {
			if _, ok := r.Lookup(m.ID); !ok {
				panic(fmt.Sprintf("content: defined type %q is missing from the registry", m.ID))
			}
		}
		if r.Len() != len(modules) {
			panic(fmt.Sprintf("content: registry holds %d types, %d defined", r.Len(), len(modules)))
		}

		logging.GetComponentLogger("content").Info("Реестр контента построен: %d типов", r.Len())
		defaultTable = r
	})
	return defaultTable
}

// Lookup ищет тип в глобальном реестре
func Lookup(id ID) (*Descriptor, bool) { return Default().Lookup(id) }

// FilterByTag фильтрует глобальный реестр по метке
func FilterByTag(tag Tag) []ID { return Default().FilterByTag(tag) }

// DeserializeBlock создаёт блок через глобальный реестр
func DeserializeBlock(src []byte, id ID) (*Block, bool) { return Default().DeserializeBlock(src, id) }

// DeserializeEntity создаёт сущность через глобальный реестр
func DeserializeEntity(src []byte, id ID) (*Entity, bool) { return Default().DeserializeEntity(src, id) }

// DeserializeItem создаёт предмет через глобальный реестр
func DeserializeItem(src []byte, id ID) (*Item, bool) { return Default().DeserializeItem(src, id) }
