package content

import (
	"fmt"
	"reflect"
)

// Payload — контракт конкретного типа данных, хранимого в контейнере.
//
// SerializeInto дописывает представление значения в dst и не может
// завершиться ошибкой: значение в памяти всегда корректно. Результат
// должен читаться обратно функцией десериализации того же типа.
//
// Destroy освобождает ресурсы значения. Вызывается ровно один раз.
type Payload interface {
	SerializeInto(dst []byte) []byte
	Destroy()
}

// BlockValue — данные типа контента в роли блока
type BlockValue interface {
	Payload
	isBlockValue()
}

// EntityValue — данные типа контента в роли сущности
type EntityValue interface {
	Payload
	isEntityValue()
}

// ItemValue — данные типа контента в роли предмета
type ItemValue interface {
	Payload
	isItemValue()
}

// BlockRole встраивается в тип данных, чтобы он мог выступать блоком
type BlockRole struct{}

func (BlockRole) isBlockValue() {}

// EntityRole встраивается в тип данных, чтобы он мог выступать сущностью
type EntityRole struct{}

func (EntityRole) isEntityValue() {}

// ItemRole встраивается в тип данных, чтобы он мог выступать предметом
type ItemRole struct{}

func (ItemRole) isItemValue() {}

// Bundle — набор функций (десериализация, сериализация, уничтожение) одной
// роли одного типа контента. Создаётся только через NewBlockBundle,
// NewEntityBundle и NewItemBundle; отсутствие роли — nil.
type Bundle struct {
	role        Role
	payloadType reflect.Type
	sizeHint    int

	deserialize func(src []byte) any
	serialize   func(payload any, dst []byte) ([]byte, bool)
	destroy     func(payload any) bool
}

// NewBlockBundle создаёт набор функций роли блока.
// decode обязан быть тотальным: для любого src вернуть корректное значение.
func NewBlockBundle[T BlockValue](decode func(src []byte) T, sizeHint int) *Bundle {
	return newBundle(RoleBlock, decode, sizeHint)
}

// NewEntityBundle создаёт набор функций роли сущности
func NewEntityBundle[T EntityValue](decode func(src []byte) T, sizeHint int) *Bundle {
	return newBundle(RoleEntity, decode, sizeHint)
}

// NewItemBundle создаёт набор функций роли предмета
func NewItemBundle[T ItemValue](decode func(src []byte) T, sizeHint int) *Bundle {
	return newBundle(RoleItem, decode, sizeHint)
}

func newBundle[T Payload](role Role, decode func(src []byte) T, sizeHint int) *Bundle {
	if decode == nil {
		panic(fmt.Sprintf("content: nil decode function for %s bundle of %v", role, reflect.TypeFor[T]()))
	}
	if sizeHint < 0 {
		sizeHint = 0
	}

	return &Bundle{
		role:        role,
		payloadType: reflect.TypeFor[T](),
		sizeHint:    sizeHint,
		deserialize: func(src []byte) any {
			return decode(src)
		},
		serialize: func(payload any, dst []byte) ([]byte, bool) {
			v, ok := payload.(T)
			if !ok {
				return dst, false
			}
			return v.SerializeInto(dst), true
		},
		destroy: func(payload any) bool {
			v, ok := payload.(T)
			if !ok {
				return false
			}
			v.Destroy()
			return true
		},
	}
}

// Role возвращает роль, для которой создан набор
func (b *Bundle) Role() Role { return b.role }

// SizeHint возвращает оценку размера сериализованных данных.
// Используется только для предварительного выделения буфера.
func (b *Bundle) SizeHint() int { return b.sizeHint }

// PayloadType возвращает конкретный тип данных набора
func (b *Bundle) PayloadType() reflect.Type { return b.payloadType }
