package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// Типы сущностей в реестре идентификаторов точек.
const (
	KindVendor = "vendor"
	KindTender = "tender"
)

// maxPointID ограничивает числовые идентификаторы точек диапазоном int32,
// совместимым со всеми клиентами векторного хранилища.
const maxPointID = 1<<31 - 1

// PointID детерминированно выводит числовой идентификатор точки из внешнего
// строкового идентификатора: первые 8 hex-символов md5, взятые по модулю.
// Одинаковый внешний идентификатор всегда дает одну и ту же точку.
func PointID(externalID string) uint64 {
	sum := md5.Sum([]byte(externalID))
	prefix := hex.EncodeToString(sum[:])[:8]

	n, err := strconv.ParseUint(prefix, 16, 64)
	if err != nil {
		// 8 hex-символов всегда парсятся, ветка недостижима.
		return 0
	}

	return n % maxPointID
}
