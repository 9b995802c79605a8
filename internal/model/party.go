package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	Base
	Name      string     `gorm:"size:180;not null;index" json:"name"`
	Document  string     `gorm:"size:20" json:"document"` // CPF or CNPJ
	Email     string     `gorm:"size:180" json:"email"`
	Phone     string     `gorm:"size:40" json:"phone"`
	Address   string     `gorm:"size:255" json:"address"`
	City      string     `gorm:"size:120" json:"city"`
	State     string     `gorm:"size:2" json:"state"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
}

type Supplier struct {
	Base
	Name      string     `gorm:"size:180;not null;index" json:"name"`
	Document  string     `gorm:"size:20" json:"document"`
	Email     string     `gorm:"size:180" json:"email"`
	Phone     string     `gorm:"size:40" json:"phone"`
	Address   string     `gorm:"size:255" json:"address"`
	City      string     `gorm:"size:120" json:"city"`
	State     string     `gorm:"size:2" json:"state"`
	Category  string     `gorm:"size:80" json:"category"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
}

type Product struct {
	Base
	Name        string          `gorm:"size:180;not null;index" json:"name"`
	SKU         string          `gorm:"size:64;uniqueIndex" json:"sku"`
	Description string          `gorm:"type:text" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unitPrice"`
	CostPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"costPrice"`
	Unit        string          `gorm:"size:16" json:"unit"`
	Active      bool            `gorm:"not null" json:"active"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid" json:"createdBy,omitempty"`
}
