package entity

import "time"

// Customer representa un cliente de la tienda. Phone (normalizado E.164) es la clave natural.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
