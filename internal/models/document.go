package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is a persisted portfolio: its latest state and the state it
// started from. The operation log lives in document_operations.
type Document struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Revision  int       `json:"revision" gorm:"column:revision;not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`

	InitialStateJSON string `json:"-" gorm:"column:initial_state;type:text;not null"`
	StateJSON        string `json:"-" gorm:"column:state;type:text;not null"`

	State State `json:"state" gorm:"-"`
}

// TableName returns the table name for the Document model
func (Document) TableName() string {
	return "documents"
}

// DocumentSummary is the list view of a document.
type DocumentSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Revision  int       `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssetValue is the interpolated mark of one fixed income asset at a date.
// CurrentValue is nil when no value can be computed.
type AssetValue struct {
	AssetID      string           `json:"asset_id"`
	Name         string           `json:"name"`
	CurrentValue *decimal.Decimal `json:"current_value"`
}
