package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
	"github.com/nexusnu/webclient/internal/pkg/validation"
)

// CertificationService defines the interface for certification lookups
type CertificationService interface {
	Fetch(ctx context.Context, platform, credentialID string) (*models.Certification, error)
}

type certificationServiceImpl struct {
	certRepo *repositories.CertificationRepository
	logger   zerolog.Logger
}

// NewCertificationService creates a new CertificationService
func NewCertificationService(certRepo *repositories.CertificationRepository, logger zerolog.Logger) CertificationService {
	return &certificationServiceImpl{certRepo: certRepo, logger: logger}
}

// Fetch resolves a credential on one of the supported platforms
func (s *certificationServiceImpl) Fetch(ctx context.Context, platform, credentialID string) (*models.Certification, error) {
	credentialID = strings.TrimSpace(credentialID)
	if !validation.CertificationPlatform(platform) {
		return nil, apperrors.NewValidationError("platform", "Unsupported platform")
	}
	if credentialID == "" {
		return nil, apperrors.NewValidationError("credentialId", "Credential ID is required")
	}

	cert, err := s.certRepo.Fetch(ctx, platform, credentialID)
	if err != nil {
		s.logger.Warn().Err(err).Str("platform", platform).Msg("Certification fetch failed")
		return nil, err
	}
	return cert, nil
}

// AppendCertification adds cert to the editor's list
func AppendCertification(list []models.Certification, cert models.Certification) []models.Certification {
	out := make([]models.Certification, 0, len(list)+1)
	out = append(out, list...)
	return append(out, cert)
}

// RemoveCertification drops the entry at idx; out-of-range is a no-op
func RemoveCertification(list []models.Certification, idx int) []models.Certification {
	if idx < 0 || idx >= len(list) {
		return list
	}
	out := make([]models.Certification, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}
