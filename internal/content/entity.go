package content

// Entity — непрозрачный контейнер данных типа контента в роли сущности.
// Исключительно владеет данными; уничтожение идёт через реестр.
// Контейнер нельзя копировать: передача владения — через Move.
type Entity struct {
	handle
}

// DeserializeEntity создаёт сущность из байтов. Возвращает false, если тип не
// зарегистрирован или не может выступать в роли сущности.
func (r *Registry) DeserializeEntity(src []byte, id ID) (*Entity, bool) {
	c, ok := r.deserialize(src, id, RoleEntity)
	if !ok {
		return nil, false
	}
	v := &Entity{}
	bind(v, &v.handle, c)
	return v, true
}

// ID возвращает идентификатор типа контента
func (v *Entity) ID() ID { return v.id() }

// Live сообщает, владеет ли контейнер данными
func (v *Entity) Live() bool { return v.live() }

// Serialize сериализует данные. Паникует с *InvariantError, если контейнер
// освобождён или тип больше не находится в реестре.
func (v *Entity) Serialize() []byte { return v.serialize(RoleEntity) }

// Close уничтожает данные. Повторный вызов ничего не делает.
func (v *Entity) Close() { v.close() }

// Move передаёт владение новому контейнеру; исходный становится пустым
func (v *Entity) Move() *Entity {
	c := v.take(RoleEntity)
	nv := &Entity{}
	bind(nv, &nv.handle, c)
	return nv
}

// String возвращает диагностическое представление
func (v *Entity) String() string { return v.string(RoleEntity) }

// AsEntity возвращает конкретные данные контейнера, если он жив и хранит T
func AsEntity[T EntityValue](v *Entity) (T, bool) {
	var zero T
	if v == nil || !v.live() {
		return zero, false
	}
	p, ok := v.cell.payload.(T)
	return p, ok
}
