package content

// Item — контейнер данных в роли предмета, устроен так же, как Block
type Item struct {
	handle
}

// DeserializeItem создаёт предмет из байтов. Возвращает false, если тип не
// зарегистрирован или не может выступать в роли предмета.
func (r *Registry) DeserializeItem(src []byte, id ID) (*Item, bool) {
	c, ok := r.deserialize(src, id, RoleItem)
	if !ok {
		return nil, false
	}
	v := &Item{}
	bind(v, &v.handle, c)
	return v, true
}

func (v *Item) ID() ID { return v.id() }

func (v *Item) Live() bool { return v.live() }

// Serialize сериализует данные. Паникует с *InvariantError, если контейнер
// освобождён или тип больше не находится в реестре.
func (v *Item) Serialize() []byte { return v.serialize(RoleItem) }

// Close уничтожает данные. Повторный вызов ничего не делает.
func (v *Item) Close() { v.close() }

// Move передаёт владение новому контейнеру; исходный становится пустым
func (v *Item) Move() *Item {
	c := v.take(RoleItem)
	nv := &Item{}
	bind(nv, &nv.handle, c)
	return nv
}

func (v *Item) String() string { return v.string(RoleItem) }

// AsItem возвращает конкретные данные контейнера, если он жив и хранит T
func AsItem[T ItemValue](v *Item) (T, bool) {
	var zero T
	if v == nil || !v.live() {
		return zero, false
	}
	p, ok := v.cell.payload.(T)
	return p, ok
}
