package inventory

import (
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LockOrder devuelve las llaves sin repetir y ordenadas por bodega y luego material.
// Toda unidad de trabajo bloquea existencias en este orden para no provocar deadlocks
// entre traspasos en sentidos opuestos.
func LockOrder(keys []entity.StockKey) []entity.StockKey {
	seen := make(map[entity.StockKey]struct{}, len(keys))
	out := make([]entity.StockKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TenantID != out[j].TenantID {
			return out[i].TenantID < out[j].TenantID
		}
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}
