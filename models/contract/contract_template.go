package contract

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ContractType selects which template applies to a counterpart.
type ContractType string

const (
	ContractTypeProvider ContractType = "PROVIDER_CONTRACT"
	ContractTypeDriver   ContractType = "DRIVER_CONTRACT"
)

// ContractTemplate is a versioned set of standard terms the user must accept
// before a post can move past AWAITING_SIGNATURE.
type ContractTemplate struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Name    string       `gorm:"type:varchar(255);not null" json:"contractTemplateName"`
	Type    ContractType `gorm:"type:varchar(30);not null;index" json:"contract_type"`
	Version int          `gorm:"not null;default:1" json:"version"`

	Terms   TermsList `gorm:"type:json" json:"contractTerms"`
	FileURL *string   `gorm:"type:varchar(2048)" json:"fileUrl,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the ContractTemplate model
func (ContractTemplate) TableName() string {
	return "contract_templates"
}

// TermsList stores the ordered contract clauses as a JSON column.
type TermsList []string

// Scan implements the Scanner interface for database deserialization
func (tl *TermsList) Scan(value interface{}) error {
	if value == nil {
		*tl = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, tl)
}

// Value implements the driver Valuer interface for database serialization
func (tl TermsList) Value() (driver.Value, error) {
	if tl == nil {
		return nil, nil
	}
	return json.Marshal(tl)
}
