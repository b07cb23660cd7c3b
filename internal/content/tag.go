package content

// Tag — описательная метка типа контента (горючесть, источник редстоуна,
// семейство материала). Поведения не несёт, используется для фильтрации.
type Tag uint8

const (
	TagCanBeBurn Tag = iota
	TagRedStonePowerSource
	TagWood
	TagStone
	TagDirt
)

var tagNames = [...]string{
	TagCanBeBurn:           "can_be_burn",
	TagRedStonePowerSource: "redstone_power_source",
	TagWood:                "wood",
	TagStone:               "stone",
	TagDirt:                "dirt",
}

// String возвращает стабильное имя метки
func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// AllTags возвращает все метки в порядке объявления
func AllTags() []Tag {
	tags := make([]Tag, len(tagNames))
	for i := range tagNames {
		tags[i] = Tag(i)
	}
	return tags
}

// ParseTag находит метку по имени
func ParseTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	return 0, false
}
