package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Entity    string `gorm:"size:50;not null" json:"entity"` // "client"
	EntityID  uint   `json:"entity_id"`
	EntityKey string `gorm:"size:100;index" json:"entity_key"` // slug at the time of the action
	Action    string `gorm:"size:50;not null" json:"action"`   // "create", "update", "delete"
	Details   string `gorm:"type:text" json:"details"`
}
