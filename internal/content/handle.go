package content

import (
	"fmt"
	"runtime"

	"github.com/annel0/voxel-content/internal/logging"
)

// noCopy запрещает копирование контейнеров (проверяется go vet copylocks)
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// cell — владеемое состояние контейнера. Отделено от самого контейнера,
// чтобы runtime cleanup мог уничтожить данные утёкшего контейнера.
type cell struct {
	reg     *Registry
	id      ID
	role    Role
	payload any
	live    bool
}

// handle — общая часть Block, Entity и Item
type handle struct {
	_       noCopy
	cell    *cell
	cleanup runtime.Cleanup
	bound   bool
}

// deserialize ищет набор функций роли и создаёт данные
func (r *Registry) deserialize(src []byte, id ID, role Role) (*cell, bool) {
	b, d, ok := r.bundle(id, role)
	if !ok {
		result := "missing_role"
		if d == nil {
			result = "unknown_id"
		}
		deserializeTotal.WithLabelValues(role.String(), result).Inc()
		return nil, false
	}

	payload := b.deserialize(src)
	deserializeTotal.WithLabelValues(role.String(), "ok").Inc()
	liveValues.WithLabelValues(role.String()).Inc()

	return &cell{reg: r, id: id, role: role, payload: payload, live: true}, true
}

// bind закрепляет состояние за контейнером и регистрирует cleanup на
// случай, если контейнер станет недостижим без Close
func bind[T any](owner *T, h *handle, c *cell) {
	h.cell = c
	h.cleanup = runtime.AddCleanup(owner, releaseLeaked, c)
	h.bound = true
}

// unbind снимает cleanup без уничтожения данных
func (h *handle) unbind() *cell {
	c := h.cell
	h.cell = nil
	if h.bound {
		h.cleanup.Stop()
		h.bound = false
	}
	return c
}

func (h *handle) id() ID {
	if h.cell == nil {
		return ""
	}
	return h.cell.id
}

func (h *handle) live() bool {
	return h.cell != nil && h.cell.live
}

// serialize сериализует данные через реестр
func (h *handle) serialize(role Role) []byte {
	c := h.cell
	if c == nil || !c.live {
		fatal(&InvariantError{Op: "serialize", Role: role.String(), Reason: "container is released or moved"})
	}

	b := c.mustBundle("serialize")
	out, ok := b.serialize(c.payload, make([]byte, 0, b.sizeHint))
	if !ok {
		fatal(c.invariant("serialize", fmt.Sprintf("payload is not a %v", b.payloadType)))
	}
	serializeTotal.WithLabelValues(c.role.String()).Inc()

	runtime.KeepAlive(h)
	return out
}

// close уничтожает данные ровно один раз; повторный вызов ничего не делает
func (h *handle) close() {
	if !h.live() {
		return
	}
	c := h.unbind()
	c.destroy("destroy")
	runtime.KeepAlive(h)
}

// take передаёт владение данными новому контейнеру
func (h *handle) take(role Role) *cell {
	if !h.live() {
		fatal(&InvariantError{Op: "move", Role: role.String(), ID: h.id(), Reason: "container is released or moved"})
	}
	return h.unbind()
}

func (h *handle) string(role Role) string {
	c := h.cell
	if c == nil || !c.live {
		return role.String() + ":<released>"
	}
	return fmt.Sprintf("%s:%s%s", c.role, c.id, c.diagnostic())
}

// mustBundle находит набор функций роли данных. Контейнер уже создан
// корректно, поэтому отсутствие типа или роли — нарушение инварианта.
func (c *cell) mustBundle(op string) *Bundle {
	d, ok := c.reg.Lookup(c.id)
	if !ok {
		fatal(c.invariant(op, "content id does not exist in the registry"))
	}
	b, ok := d.Bundle(c.role)
	if !ok {
		fatal(c.invariant(op, fmt.Sprintf("content id exists but can not be %s %s", article(c.role), c.role)))
	}
	return b
}

func (c *cell) destroy(op string) {
	b := c.mustBundle(op)
	if !b.destroy(c.payload) {
		fatal(c.invariant(op, fmt.Sprintf("payload is not a %v", b.payloadType)))
	}
	c.live = false
	c.payload = nil

	destroyTotal.WithLabelValues(c.role.String()).Inc()
	liveValues.WithLabelValues(c.role.String()).Dec()
}

func (c *cell) invariant(op, reason string) *InvariantError {
	return &InvariantError{
		Op:      op,
		Role:    c.role.String(),
		ID:      c.id,
		Payload: c.diagnostic(),
		Reason:  reason,
	}
}

func (c *cell) diagnostic() string {
	return fmt.Sprintf("%+v", c.payload)
}

// releaseLeaked вызывается рантаймом для контейнера, который стал
// недостижим без Close
func releaseLeaked(c *cell) {
	if !c.live {
		return
	}
	logging.GetComponentLogger("content").Warn("Утечка контейнера %s %q: данные уничтожены сборщиком", c.role, c.id)
	leakedTotal.WithLabelValues(c.role.String()).Inc()
	c.destroy("destroy")
}

func article(r Role) string {
	if r == RoleEntity || r == RoleItem {
		return "an"
	}
	return "a"
}
