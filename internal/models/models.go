// Package models holds the GORM models of the order management service.
package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&CompanySettings{},
		&Client{},
		&Product{},
		&Order{},
		&OrderItem{},
	}
}
