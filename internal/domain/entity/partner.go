package entity

import "time"

// Tipos de tercero.
const (
	PartnerTypeSupplier = "SUPPLIER"
	PartnerTypeCustomer = "CUSTOMER"
)

// BusinessPartner proveedor o cliente registrado.
type BusinessPartner struct {
	ID            string
	Name          string
	Type          string
	Phone         string
	Email         string
	Address       string
	SalesPersonID string // vendedor asignado (solo clientes)
	CreatedAt     time.Time
}

// SalesPerson vendedor.
type SalesPerson struct {
	ID        string
	Name      string
	Phone     string
	Region    string
	CreatedAt time.Time
}
