package postgres

import (
	"time"

	"github.com/google/uuid"
)

type licenseModel struct {
	LicenseKey     string     `gorm:"column:license_key;primaryKey"`
	AccountID      string     `gorm:"column:account_id"`
	AccountServer  string     `gorm:"column:account_server"`
	HardwareID     string     `gorm:"column:hardware_id"`
	EAName         string     `gorm:"column:ea_name"`
	ExpiryDate     *time.Time `gorm:"column:expiry_date;type:date"`
	Status         string     `gorm:"column:status"`
	RequestedBy    *string    `gorm:"column:requested_by"`
	RequestedEmail *string    `gorm:"column:requested_email"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (licenseModel) TableName() string { return "licenses" }

type clientModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Name         string    `gorm:"column:name"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (clientModel) TableName() string { return "clients" }

type clientSessionModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ClientID     uuid.UUID `gorm:"column:client_id;type:uuid"`
	SessionToken string    `gorm:"column:session_token"`
	ExpiresAt    time.Time `gorm:"column:expires_at"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (clientSessionModel) TableName() string { return "client_sessions" }
