package domain

// TurnoverHierarchy — фиксированная упорядоченная шкала оборотных диапазонов.
// Сравнение диапазонов всегда позиционное, не лексикографическое.
var TurnoverHierarchy = []string{
	"0-1 Crore",
	"1-5 Crores",
	"5-10 Crores",
	"10-25 Crores",
	"25-50 Crores",
	"50-100 Crores",
	"100+ Crores",
}

// TurnoverIndex возвращает позицию диапазона в шкале.
// Для неизвестной строки возвращает -1.
func TurnoverIndex(bracket string) int {
	for i, b := range TurnoverHierarchy {
		if b == bracket {
			return i
		}
	}

	return -1
}

// MeetsTurnover проверяет, что оборот поставщика не ниже требуемого.
// Нераспознанный диапазон с любой из сторон считается проходным:
// жесткий фильтр не должен отсекать кандидатов из-за грязных данных.
func MeetsTurnover(required, vendor string) bool {
	if required == "" || vendor == "" {
		return true
	}

	reqIdx := TurnoverIndex(required)
	vendorIdx := TurnoverIndex(vendor)
	if reqIdx < 0 || vendorIdx < 0 {
		return true
	}

	return vendorIdx >= reqIdx
}
