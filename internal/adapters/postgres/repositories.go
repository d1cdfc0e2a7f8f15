package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/algonex/license-portal/internal/ports"
)

type Repositories struct {
	Licenses ports.LicenseRepository
	Clients  ports.ClientRepository
	Sessions ports.SessionRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Licenses: &licenseRepository{db: db},
		Clients:  &clientRepository{db: db},
		Sessions: &sessionRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
