package world

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/annel0/voxel-content/internal/content"
	"github.com/annel0/voxel-content/internal/eventbus"
	"github.com/annel0/voxel-content/internal/logging"
	"github.com/annel0/voxel-content/internal/observability"
	"github.com/annel0/voxel-content/internal/storage"
	"github.com/annel0/voxel-content/internal/vec"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	// ErrUnknownContent — идентификатор не зарегистрирован или не поддерживает нужную роль
	ErrUnknownContent = errors.New("world: unknown content")
	// ErrUnknownPlayer — игрок не подключён к миру
	ErrUnknownPlayer = errors.New("world: unknown player")
	// ErrUnknownEntity — сущность не найдена
	ErrUnknownEntity = errors.New("world: unknown entity")
	// ErrClosed — мир закрыт
	ErrClosed = errors.New("world: map is closed")
)

var tracer = observability.Tracer("world")

type blockCell struct {
	block *content.Block
	light uint8
}

type entityCell struct {
	pos    vec.Vec3Fixed
	entity *content.Entity
}

// Options — необязательные параметры мира
type Options struct {
	Name string            // имя мира, источник событий шины
	Bus  eventbus.EventBus // шина, куда публикуются применённые события; может быть nil
}

// Map — клиент реестра контента, хранящий состояние одного мира:
// игроков, сущности, блоки, биомы, структуры и очередь событий.
// Map владеет всеми контейнерами; замещённые значения уничтожаются сразу.
type Map struct {
	mu       sync.Mutex
	name     string
	store    storage.Store
	registry *content.Registry
	bus      eventbus.EventBus
	logger   *logging.Logger

	players    map[uuid.UUID]*Player
	entities   map[uuid.UUID]*entityCell
	blocks     map[vec.Vec3]*blockCell
	biomes     map[vec.Box]content.ID
	structures map[vec.Box]*content.Block
	events     []Event

	dirty  map[string]struct{} // ключи хранилища, изменённые с последнего Save
	closed bool
}

// SkippedRecord — запись, не загруженная из хранилища
type SkippedRecord struct {
	Key    string
	ID     content.ID
	Reason string
}

// LoadReport описывает результат загрузки мира
type LoadReport struct {
	Blocks     int
	Entities   int
	Players    int
	Items      int
	Biomes     int
	Structures int
	Skipped    []SkippedRecord
}

// Open загружает мир из store. Записи с неизвестными идентификаторами
// пропускаются и попадают в отчёт; повреждённые записи — ошибка.
func Open(ctx context.Context, store storage.Store, registry *content.Registry, opts Options) (*Map, LoadReport, error) {
	if opts.Name == "" {
		opts.Name = "overworld"
	}

	m := &Map{
		name:       opts.Name,
		store:      store,
		registry:   registry,
		bus:        opts.Bus,
		logger:     logging.GetComponentLogger("world"),
		players:    make(map[uuid.UUID]*Player),
		entities:   make(map[uuid.UUID]*entityCell),
		blocks:     make(map[vec.Vec3]*blockCell),
		biomes:     make(map[vec.Box]content.ID),
		structures: make(map[vec.Box]*content.Block),
		dirty:      make(map[string]struct{}),
	}

	report, err := m.load(ctx)
	if err != nil {
		m.Close()
		return nil, LoadReport{}, err
	}

	m.logger.Info("Мир %s загружен: blocks=%d entities=%d players=%d biomes=%d structures=%d skipped=%d",
		m.name, report.Blocks, report.Entities, report.Players, report.Biomes, report.Structures, len(report.Skipped))
	return m, report, nil
}

func (m *Map) load(ctx context.Context) (report LoadReport, err error) {
	ctx, span := tracer.Start(ctx, "world.Load")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	skip := func(key string, id content.ID, reason string) {
		m.logger.Warn("Пропущена запись %s (id=%q): %s", key, id, reason)
		report.Skipped = append(report.Skipped, SkippedRecord{Key: key, ID: id, Reason: reason})
	}

	err = m.store.Scan(ctx, blockPrefix, func(key string, raw []byte) error {
		pos, err := parseBlockKey(key)
		if err != nil {
			return err
		}
		id, light, data, err := decodeBlock(raw)
		if err != nil {
			m.logger.Debug("Повреждённая запись %s:\n%s", key, logging.HexDump(raw))
			return fmt.Errorf("%s: %w", key, err)
		}
		b, ok := m.registry.DeserializeBlock(data, id)
		if !ok {
			skip(key, id, "not a registered block")
			return nil
		}
		m.blocks[pos] = &blockCell{block: b, light: light}
		report.Blocks++
		return nil
	})
	if err != nil {
		return report, err
	}

	err = m.store.Scan(ctx, entityPrefix, func(key string, raw []byte) error {
		uid, err := parseUUIDKey(key, entityPrefix)
		if err != nil {
			return err
		}
		id, pos, data, err := decodeEntity(raw)
		if err != nil {
			m.logger.Debug("Повреждённая запись %s:\n%s", key, logging.HexDump(raw))
			return fmt.Errorf("%s: %w", key, err)
		}
		e, ok := m.registry.DeserializeEntity(data, id)
		if !ok {
			skip(key, id, "not a registered entity")
			return nil
		}
		m.entities[uid] = &entityCell{pos: pos, entity: e}
		report.Entities++
		return nil
	})
	if err != nil {
		return report, err
	}

	err = m.store.Scan(ctx, playerPrefix, func(key string, raw []byte) error {
		uid, err := parseUUIDKey(key, playerPrefix)
		if err != nil {
			return err
		}
		name, items, err := decodePlayer(raw)
		if err != nil {
			m.logger.Debug("Повреждённая запись %s:\n%s", key, logging.HexDump(raw))
			return fmt.Errorf("%s: %w", key, err)
		}
		p := newPlayer(uid, name)
		for _, stored := range items {
			it, ok := m.registry.DeserializeItem(stored.data, stored.id)
			if !ok {
				skip(key, stored.id, "not a registered item")
				// инвентарь без пропущенного предмета нужно перезаписать
				m.dirty[key] = struct{}{}
				continue
			}
			p.inventory = append(p.inventory, it)
			report.Items++
		}
		m.players[uid] = p
		report.Players++
		return nil
	})
	if err != nil {
		return report, err
	}

	err = m.store.Scan(ctx, biomePrefix, func(key string, raw []byte) error {
		box, err := parseBoxKey(key, biomePrefix)
		if err != nil {
			return err
		}
		id := content.ID(raw)
		if _, ok := m.registry.Lookup(id); !ok {
			skip(key, id, "not a registered content id")
			return nil
		}
		m.biomes[box] = id
		report.Biomes++
		return nil
	})
	if err != nil {
		return report, err
	}

	err = m.store.Scan(ctx, structurePrefix, func(key string, raw []byte) error {
		box, err := parseBoxKey(key, structurePrefix)
		if err != nil {
			return err
		}
		id, data, err := decodeStructure(raw)
		if err != nil {
			m.logger.Debug("Повреждённая запись %s:\n%s", key, logging.HexDump(raw))
			return fmt.Errorf("%s: %w", key, err)
		}
		b, ok := m.registry.DeserializeBlock(data, id)
		if !ok {
			skip(key, id, "not a registered block")
			return nil
		}
		m.structures[box] = b
		report.Structures++
		return nil
	})
	if err != nil {
		return report, err
	}

	span.SetAttributes(
		attribute.Int("world.blocks", report.Blocks),
		attribute.Int("world.entities", report.Entities),
		attribute.Int("world.skipped", len(report.Skipped)),
	)
	return report, nil
}

// Name возвращает имя мира
func (m *Map) Name() string { return m.name }

// Registry возвращает реестр, через который мир создаёт значения
func (m *Map) Registry() *content.Registry { return m.registry }

//================ Блоки =================//

// SetBlock ставит блок, забирая владение b. Прежний блок уничтожается.
func (m *Map) SetBlock(pos vec.Vec3, b *content.Block, light uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.setBlockLocked(pos, b.Move(), light)
	return nil
}

func (m *Map) setBlockLocked(pos vec.Vec3, b *content.Block, light uint8) {
	if old, ok := m.blocks[pos]; ok {
		old.block.Close()
	}
	m.blocks[pos] = &blockCell{block: b, light: light}
	m.dirty[blockKey(pos)] = struct{}{}
}

// RemoveBlock удаляет блок; false, если его не было
func (m *Map) RemoveBlock(pos vec.Vec3) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeBlockLocked(pos)
}

func (m *Map) removeBlockLocked(pos vec.Vec3) bool {
	old, ok := m.blocks[pos]
	if !ok {
		return false
	}
	old.block.Close()
	delete(m.blocks, pos)
	m.dirty[blockKey(pos)] = struct{}{}
	return true
}

// BlockAt возвращает тип и освещённость блока
func (m *Map) BlockAt(pos vec.Vec3) (content.ID, uint8, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.blocks[pos]
	if !ok {
		return "", 0, false
	}
	return c.block.ID(), c.light, true
}

// BlockData возвращает сериализованные данные блока
func (m *Map) BlockData(pos vec.Vec3) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.blocks[pos]
	if !ok {
		return nil, false
	}
	return c.block.Serialize(), true
}

// WithBlock вызывает fn с блоком, пока мир заблокирован.
// Блок нельзя сохранять за пределами fn.
func (m *Map) WithBlock(pos vec.Vec3, fn func(b *content.Block, light uint8)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.blocks[pos]
	if !ok {
		return false
	}
	fn(c.block, c.light)
	m.dirty[blockKey(pos)] = struct{}{}
	return true
}

//================ Сущности =================//

// SpawnEntity добавляет сущность, забирая владение e.
// Сущность с тем же uid заменяется.
func (m *Map) SpawnEntity(uid uuid.UUID, pos vec.Vec3Fixed, e *content.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.spawnEntityLocked(uid, pos, e.Move())
	return nil
}

func (m *Map) spawnEntityLocked(uid uuid.UUID, pos vec.Vec3Fixed, e *content.Entity) {
	if old, ok := m.entities[uid]; ok {
		old.entity.Close()
	}
	m.entities[uid] = &entityCell{pos: pos, entity: e}
	m.dirty[entityKey(uid)] = struct{}{}
}

// MoveEntity меняет позицию сущности
func (m *Map) MoveEntity(uid uuid.UUID, pos vec.Vec3Fixed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moveEntityLocked(uid, pos)
}

func (m *Map) moveEntityLocked(uid uuid.UUID, pos vec.Vec3Fixed) error {
	c, ok := m.entities[uid]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, uid)
	}
	c.pos = pos
	m.dirty[entityKey(uid)] = struct{}{}
	return nil
}

// DespawnEntity удаляет сущность; false, если её не было
func (m *Map) DespawnEntity(uid uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.despawnEntityLocked(uid)
}

func (m *Map) despawnEntityLocked(uid uuid.UUID) bool {
	c, ok := m.entities[uid]
	if !ok {
		return false
	}
	c.entity.Close()
	delete(m.entities, uid)
	m.dirty[entityKey(uid)] = struct{}{}
	return true
}

// EntityAt возвращает тип и позицию сущности
func (m *Map) EntityAt(uid uuid.UUID) (content.ID, vec.Vec3Fixed, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.entities[uid]
	if !ok {
		return "", vec.Vec3Fixed{}, false
	}
	return c.entity.ID(), c.pos, true
}

// EntityData возвращает сериализованные данные сущности
func (m *Map) EntityData(uid uuid.UUID) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.entities[uid]
	if !ok {
		return nil, false
	}
	return c.entity.Serialize(), true
}

//================ Игроки =================//

// JoinPlayer добавляет игрока; повторный вход сохраняет инвентарь
func (m *Map) JoinPlayer(uid uuid.UUID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if p, ok := m.players[uid]; ok {
		if p.Name != name {
			p.Name = name
			m.dirty[playerKey(uid)] = struct{}{}
		}
		return nil
	}
	m.players[uid] = newPlayer(uid, name)
	m.dirty[playerKey(uid)] = struct{}{}
	return nil
}

// RemovePlayer удаляет игрока вместе с инвентарём
func (m *Map) RemovePlayer(uid uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[uid]
	if !ok {
		return false
	}
	p.close()
	delete(m.players, uid)
	m.dirty[playerKey(uid)] = struct{}{}
	return true
}

// GiveItem кладёт предмет в инвентарь игрока, забирая владение it.
// Для неизвестного игрока предмет остаётся у вызывающего.
func (m *Map) GiveItem(uid uuid.UUID, it *content.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	p, ok := m.players[uid]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, uid)
	}
	p.give(it)
	m.dirty[playerKey(uid)] = struct{}{}
	return nil
}

// Inventory возвращает имя игрока и типы предметов его инвентаря
func (m *Map) Inventory(uid uuid.UUID) (string, []content.ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[uid]
	if !ok {
		return "", nil, false
	}
	return p.Name, p.Items(), true
}

//================ Биомы и структуры =================//

// SetBiome назначает биом области; id должен быть зарегистрирован
func (m *Map) SetBiome(box vec.Box, id content.ID) error {
	if _, ok := m.registry.Lookup(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownContent, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.biomes[box] = id
	m.dirty[boxKey(biomePrefix, box)] = struct{}{}
	return nil
}

// BiomeAt возвращает биом самой маленькой области, содержащей pos
func (m *Map) BiomeAt(pos vec.Vec3) (content.ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		best  vec.Box
		found content.ID
		ok    bool
	)
	for box, id := range m.biomes {
		if !box.Contains(pos) {
			continue
		}
		if !ok || box.Volume() < best.Volume() ||
			(box.Volume() == best.Volume() && box.String() < best.String()) {
			best, found, ok = box, id, true
		}
	}
	return found, ok
}

// SetStructure размещает структуру, забирая владение b
func (m *Map) SetStructure(box vec.Box, b *content.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if old, ok := m.structures[box]; ok {
		old.Close()
	}
	m.structures[box] = b.Move()
	m.dirty[boxKey(structurePrefix, box)] = struct{}{}
	return nil
}

// StructureAt возвращает тип структуры в области
func (m *Map) StructureAt(box vec.Box) (content.ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.structures[box]
	if !ok {
		return "", false
	}
	return b.ID(), true
}

//================ Сохранение =================//

// Save записывает изменённые с прошлого вызова записи и возвращает их число
func (m *Map) Save(ctx context.Context) (n int, err error) {
	ctx, span := tracer.Start(ctx, "world.Save")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("world.saved", n))
		span.End()
	}()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}

	keys := make([]string, 0, len(m.dirty))
	for k := range m.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := time.Now()
	for _, key := range keys {
		value, present, err := m.encodeLocked(key)
		if err != nil {
			return n, err
		}
		if present {
			err = m.store.Put(ctx, key, value)
		} else {
			err = m.store.Delete(ctx, key)
		}
		if err != nil {
			return n, fmt.Errorf("не удалось сохранить %s: %w", key, err)
		}
		delete(m.dirty, key)
		n++
	}

	if n > 0 {
		m.logger.Debug("Мир %s: сохранено %d записей за %v", m.name, n, time.Since(start))
	}
	return n, nil
}

// encodeLocked кодирует текущее значение по ключу; present=false — значение удалено
func (m *Map) encodeLocked(key string) ([]byte, bool, error) {
	switch {
	case strings.HasPrefix(key, blockPrefix):
		pos, err := parseBlockKey(key)
		if err != nil {
			return nil, false, err
		}
		c, ok := m.blocks[pos]
		if !ok {
			return nil, false, nil
		}
		return encodeBlock(c.block, c.light), true, nil

	case strings.HasPrefix(key, entityPrefix):
		uid, err := parseUUIDKey(key, entityPrefix)
		if err != nil {
			return nil, false, err
		}
		c, ok := m.entities[uid]
		if !ok {
			return nil, false, nil
		}
		return encodeEntity(c.entity, c.pos), true, nil

	case strings.HasPrefix(key, playerPrefix):
		uid, err := parseUUIDKey(key, playerPrefix)
		if err != nil {
			return nil, false, err
		}
		p, ok := m.players[uid]
		if !ok {
			return nil, false, nil
		}
		return encodePlayer(p), true, nil

	case strings.HasPrefix(key, biomePrefix):
		box, err := parseBoxKey(key, biomePrefix)
		if err != nil {
			return nil, false, err
		}
		id, ok := m.biomes[box]
		if !ok {
			return nil, false, nil
		}
		return []byte(id), true, nil

	case strings.HasPrefix(key, structurePrefix):
		box, err := parseBoxKey(key, structurePrefix)
		if err != nil {
			return nil, false, err
		}
		b, ok := m.structures[box]
		if !ok {
			return nil, false, nil
		}
		return encodeStructure(b), true, nil
	}
	return nil, false, fmt.Errorf("%w: key %q", ErrCorruptRecord, key)
}

// Stats — размеры коллекций мира
type Stats struct {
	Players    int
	Entities   int
	Blocks     int
	Biomes     int
	Structures int
	Pending    int // событий в очереди
	Dirty      int // несохранённых записей
}

// Stats возвращает текущие размеры коллекций
func (m *Map) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Players:    len(m.players),
		Entities:   len(m.entities),
		Blocks:     len(m.blocks),
		Biomes:     len(m.biomes),
		Structures: len(m.structures),
		Pending:    len(m.events),
		Dirty:      len(m.dirty),
	}
}

// BlockCounts возвращает число блоков каждого типа
func (m *Map) BlockCounts() map[content.ID]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[content.ID]int)
	for _, c := range m.blocks {
		out[c.block.ID()]++
	}
	return out
}

// Close уничтожает все значения мира ровно один раз.
// Несохранённые изменения теряются; хранилище не закрывается.
func (m *Map) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true

	for _, c := range m.blocks {
		c.block.Close()
	}
	for _, c := range m.entities {
		c.entity.Close()
	}
	for _, p := range m.players {
		p.close()
	}
	for _, b := range m.structures {
		b.Close()
	}
	m.blocks = nil
	m.entities = nil
	m.players = nil
	m.structures = nil
	m.biomes = nil
	m.events = nil

	if len(m.dirty) > 0 {
		m.logger.Warn("Мир %s закрыт с %d несохранёнными записями", m.name, len(m.dirty))
	}
}

func positionMeta(p vec.Vec3) string {
	return strconv.FormatInt(p.X, 10) + "," + strconv.FormatInt(p.Y, 10) + "," + strconv.FormatInt(p.Z, 10)
}
