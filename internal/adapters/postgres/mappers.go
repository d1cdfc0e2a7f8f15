package postgres

import (
	"time"

	"github.com/algonex/license-portal/internal/domain"
)

func toLicenseModel(l domain.License) licenseModel {
	return licenseModel{
		LicenseKey:     l.LicenseKey,
		AccountID:      l.AccountID,
		AccountServer:  l.AccountServer,
		HardwareID:     l.HardwareID,
		EAName:         l.EAName,
		ExpiryDate:     dateToTime(l.ExpiryDate),
		Status:         l.Status,
		RequestedBy:    nullableString(l.RequestedBy),
		RequestedEmail: nullableString(l.RequestedEmail),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func toDomainLicense(m licenseModel) domain.License {
	return domain.License{
		LicenseKey:     m.LicenseKey,
		AccountID:      m.AccountID,
		AccountServer:  m.AccountServer,
		HardwareID:     m.HardwareID,
		EAName:         m.EAName,
		ExpiryDate:     timeToDate(m.ExpiryDate),
		Status:         m.Status,
		RequestedBy:    stringValue(m.RequestedBy),
		RequestedEmail: stringValue(m.RequestedEmail),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toDomainLicenses(rows []licenseModel) []domain.License {
	out := make([]domain.License, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainLicense(row))
	}
	return out
}

func toDomainClient(m clientModel) domain.Client {
	return domain.Client{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainSession(m clientSessionModel) domain.ClientSession {
	return domain.ClientSession{
		ID:           m.ID,
		ClientID:     m.ClientID,
		SessionToken: m.SessionToken,
		ExpiresAt:    m.ExpiresAt,
		CreatedAt:    m.CreatedAt,
	}
}

func dateToTime(d *domain.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func timeToDate(t *time.Time) *domain.Date {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
