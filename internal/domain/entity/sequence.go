package entity

// Sequence consecutivo por tenant y nombre de contador.
type Sequence struct {
	TenantID string
	Name     string
	Value    int64
}
