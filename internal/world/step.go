package world

import (
	"context"
	"fmt"
	"time"

	"github.com/annel0/voxel-content/internal/eventbus"
)

// RejectedEvent — событие, которое не удалось применить
type RejectedEvent struct {
	Event Event
	Err   error
}

// StepReport — результат одного шага
type StepReport struct {
	Applied  int
	Rejected []RejectedEvent
}

// Enqueue ставит событие в очередь; оно применится на следующем Step
func (m *Map) Enqueue(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.events = append(m.events, ev)
	return nil
}

// Step применяет все события очереди по порядку.
// Отклонённые события не прерывают шаг.
func (m *Map) Step(ctx context.Context) StepReport {
	m.mu.Lock()
	events := m.events
	m.events = nil
	var report StepReport
	var published []*eventbus.Envelope

	for _, ev := range events {
		envelope, err := m.applyLocked(ev)
		if err != nil {
			m.logger.Debug("Событие %s отклонено: %v", ev.GetType(), err)
			report.Rejected = append(report.Rejected, RejectedEvent{Event: ev, Err: err})
			continue
		}
		report.Applied++
		if envelope != nil {
			published = append(published, envelope)
		}
	}
	m.mu.Unlock()

	// публикуем вне блокировки: шина может ждать места в буфере
	if m.bus != nil {
		for _, envelope := range published {
			if err := m.bus.Publish(ctx, envelope); err != nil {
				m.logger.Warn("Не удалось опубликовать событие %s: %v", envelope.EventType, err)
			}
		}
	}
	return report
}

// applyLocked применяет событие и возвращает конверт для шины
func (m *Map) applyLocked(ev Event) (*eventbus.Envelope, error) {
	if m.closed {
		return nil, ErrClosed
	}

	switch e := ev.(type) {
	case BlockEvent:
		switch e.EventType {
		case EventTypePlaceBlock:
			b, ok := m.registry.DeserializeBlock(e.Data, e.ID)
			if !ok {
				return nil, fmt.Errorf("%w: block %q", ErrUnknownContent, e.ID)
			}
			m.setBlockLocked(e.Position, b, e.Light)
			return m.envelope(e.EventType, b.Serialize(), map[string]string{
				"id":  string(e.ID),
				"pos": positionMeta(e.Position),
			}), nil
		case EventTypeBreakBlock:
			if !m.removeBlockLocked(e.Position) {
				return nil, fmt.Errorf("no block at %v", e.Position)
			}
			return m.envelope(e.EventType, nil, map[string]string{"pos": positionMeta(e.Position)}), nil
		}

	case EntityEvent:
		switch e.EventType {
		case EventTypeSpawnEntity:
			ent, ok := m.registry.DeserializeEntity(e.Data, e.ID)
			if !ok {
				return nil, fmt.Errorf("%w: entity %q", ErrUnknownContent, e.ID)
			}
			m.spawnEntityLocked(e.EntityID, e.Position, ent)
			return m.envelope(e.EventType, ent.Serialize(), map[string]string{
				"id":     string(e.ID),
				"entity": e.EntityID.String(),
				"pos":    e.Position.String(),
			}), nil
		case EventTypeMoveEntity:
			if err := m.moveEntityLocked(e.EntityID, e.Position); err != nil {
				return nil, err
			}
			return m.envelope(e.EventType, nil, map[string]string{
				"entity": e.EntityID.String(),
				"pos":    e.Position.String(),
			}), nil
		case EventTypeDespawnEntity:
			if !m.despawnEntityLocked(e.EntityID) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, e.EntityID)
			}
			return m.envelope(e.EventType, nil, map[string]string{"entity": e.EntityID.String()}), nil
		}

	case ItemEvent:
		p, ok := m.players[e.PlayerID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, e.PlayerID)
		}
		it, ok := m.registry.DeserializeItem(e.Data, e.ID)
		if !ok {
			return nil, fmt.Errorf("%w: item %q", ErrUnknownContent, e.ID)
		}
		data := it.Serialize()
		p.give(it)
		m.dirty[playerKey(e.PlayerID)] = struct{}{}
		return m.envelope(EventTypeGiveItem, data, map[string]string{
			"id":     string(e.ID),
			"player": e.PlayerID.String(),
		}), nil
	}

	return nil, fmt.Errorf("unsupported event %T (%s)", ev, ev.GetType())
}

func (m *Map) envelope(t EventType, payload []byte, meta map[string]string) *eventbus.Envelope {
	if m.bus == nil {
		return nil
	}
	return eventbus.NewEnvelope(m.name, t.String(), payload, meta)
}

// Run применяет очередь каждые tick и сохраняет мир каждые saveEvery
// до отмены ctx. Перед выходом делается последнее сохранение.
func (m *Map) Run(ctx context.Context, tick, saveEvery time.Duration) error {
	tickTicker := time.NewTicker(tick)
	defer tickTicker.Stop()
	saveTicker := time.NewTicker(saveEvery)
	defer saveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Step(context.Background())
			_, err := m.Save(context.Background())
			return err
		case <-tickTicker.C:
			m.Step(ctx)
		case <-saveTicker.C:
			if _, err := m.Save(ctx); err != nil {
				m.logger.Error("Автосохранение мира %s: %v", m.name, err)
			}
		}
	}
}
