package entity

import "time"

// Warehouse representa un almacén/bodega donde se mantiene existencia.
type Warehouse struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
