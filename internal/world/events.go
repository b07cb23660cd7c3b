package world

import (
	"github.com/annel0/voxel-content/internal/content"
	"github.com/annel0/voxel-content/internal/vec"
	"github.com/google/uuid"
)

// EventType определяет тип события
type EventType uint8

const (
	EventTypePlaceBlock    EventType = iota // Установка блока
	EventTypeBreakBlock                     // Удаление блока
	EventTypeSpawnEntity                    // Создание сущности
	EventTypeMoveEntity                     // Перемещение сущности
	EventTypeDespawnEntity                  // Удаление сущности
	EventTypeGiveItem                       // Выдача предмета игроку
)

var eventTypeNames = [...]string{
	EventTypePlaceBlock:    "place_block",
	EventTypeBreakBlock:    "break_block",
	EventTypeSpawnEntity:   "spawn_entity",
	EventTypeMoveEntity:    "move_entity",
	EventTypeDespawnEntity: "despawn_entity",
	EventTypeGiveItem:      "give_item",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event представляет собой интерфейс для всех событий
type Event interface {
	GetType() EventType
}

// BlockEvent ставит или убирает блок.
// Для установки Data — сериализованные данные блока типа ID.
type BlockEvent struct {
	EventType EventType
	Position  vec.Vec3
	ID        content.ID
	Data      []byte
	Light     uint8
}

// GetType возвращает тип события
func (e BlockEvent) GetType() EventType {
	return e.EventType
}

// EntityEvent создаёт, двигает или удаляет сущность
type EntityEvent struct {
	EventType EventType
	EntityID  uuid.UUID
	Position  vec.Vec3Fixed
	ID        content.ID // только для spawn
	Data      []byte     // только для spawn
}

// GetType возвращает тип события
func (e EntityEvent) GetType() EventType {
	return e.EventType
}

// ItemEvent выдаёт предмет игроку
type ItemEvent struct {
	PlayerID uuid.UUID
	ID       content.ID
	Data     []byte
}

// GetType возвращает тип события
func (e ItemEvent) GetType() EventType {
	return EventTypeGiveItem
}
