package model

import "time"

// BaseModel audit columns embedded by every editable table
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// Stamp sets the creator and updater of a new row.
func (b *BaseModel) Stamp(callerID string) {
	if callerID == "" {
		return
	}
	b.CreatedBy = &callerID
	b.UpdatedBy = &callerID
}

// Touch records the updater of an existing row.
func (b *BaseModel) Touch(callerID string) {
	if callerID == "" {
		return
	}
	b.UpdatedBy = &callerID
}
