package content

// Block — непрозрачный контейнер данных типа контента в роли блока.
// Исключительно владеет данными; уничтожение идёт через реестр.
// Контейнер нельзя копировать: передача владения — через Move.
type Block struct {
	handle
}

// DeserializeBlock создаёт блок из байтов. Возвращает false, если тип не
// зарегистрирован или не может выступать в роли блока.
func (r *Registry) DeserializeBlock(src []byte, id ID) (*Block, bool) {
	c, ok := r.deserialize(src, id, RoleBlock)
	if !ok {
		return nil, false
	}
	v := &Block{}
	bind(v, &v.handle, c)
	return v, true
}

// ID возвращает идентификатор типа контента
func (v *Block) ID() ID { return v.id() }

// Live сообщает, владеет ли контейнер данными
func (v *Block) Live() bool { return v.live() }

// Serialize сериализует данные. Паникует с *InvariantError, если контейнер
// освобождён или тип больше не находится в реестре.
func (v *Block) Serialize() []byte { return v.serialize(RoleBlock) }

// Close уничтожает данные. Повторный вызов ничего не делает.
func (v *Block) Close() { v.close() }

// Move передаёт владение новому контейнеру; исходный становится пустым
func (v *Block) Move() *Block {
	c := v.take(RoleBlock)
	nv := &Block{}
	bind(nv, &nv.handle, c)
	return nv
}

// String возвращает диагностическое представление
func (v *Block) String() string { return v.string(RoleBlock) }

// AsBlock возвращает конкретные данные контейнера, если он жив и хранит T
func AsBlock[T BlockValue](v *Block) (T, bool) {
	var zero T
	if v == nil || !v.live() {
		return zero, false
	}
	p, ok := v.cell.payload.(T)
	return p, ok
}
