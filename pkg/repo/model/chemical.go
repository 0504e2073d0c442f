package model

import (
	"time"
)

// CentralStoreLabID is the stock location owned by the central store.
const CentralStoreLabID = "central-store"

type Chemical struct {
	BaseModel
	Name   string           `gorm:"type:varchar(255);not null;uniqueIndex:idx_chemical_name" json:"name"`
	Unit   string           `gorm:"type:varchar(32);not null" json:"unit"`
	Stocks []*ChemicalStock `gorm:"foreignKey:ChemicalID" json:"stocks"`
}

func (*Chemical) TableName() string { return "chemical" }

type ChemicalStock struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ChemicalID int64     `gorm:"not null;uniqueIndex:idx_stock_chemical_lab" json:"chemical_id"`
	LabID      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_stock_chemical_lab" json:"lab_id"`
	Quantity   float64   `gorm:"type:numeric(12,3);not null;default:0;check:quantity >= 0" json:"quantity"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (*ChemicalStock) TableName() string { return "chemical_stock" }
