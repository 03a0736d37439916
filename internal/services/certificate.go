package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/codeforma/codeforma-backend/internal/data/db"
	catalogrepo "github.com/codeforma/codeforma-backend/internal/data/repos/catalog"
	learningrepo "github.com/codeforma/codeforma-backend/internal/data/repos/learning"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/platform/dbctx"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssueResult distinguishes a fresh issuance from an idempotent replay.
type IssueResult struct {
	Certificate *types.Certificate `json:"certificate"`
	Created     bool               `json:"created"`
}

type CertificateService interface {
	// Issue creates the enrollment's certificate exactly once. A repeat call
	// returns the existing certificate unchanged; an incomplete enrollment
	// is rejected before any row is written.
	Issue(ctx context.Context, userID uuid.UUID, formationSlug string) (*IssueResult, error)
	GetMine(ctx context.Context, userID uuid.UUID) ([]*types.Certificate, error)
	Verify(ctx context.Context, number string) (*types.Certificate, error)
}

type certificateService struct {
	log             *logger.Logger
	runner          db.TxRunner
	formationRepo   catalogrepo.FormationRepo
	enrollmentRepo  learningrepo.EnrollmentRepo
	certificateRepo learningrepo.CertificateRepo
	publicBaseURL   string
}

func NewCertificateService(
	log *logger.Logger,
	runner db.TxRunner,
	formationRepo catalogrepo.FormationRepo,
	enrollmentRepo learningrepo.EnrollmentRepo,
	certificateRepo learningrepo.CertificateRepo,
	publicBaseURL string,
) CertificateService {
	serviceLog := log.With("service", "CertificateService")
	return &certificateService{
		log:             serviceLog,
		runner:          runner,
		formationRepo:   formationRepo,
		enrollmentRepo:  enrollmentRepo,
		certificateRepo: certificateRepo,
		publicBaseURL:   strings.TrimRight(publicBaseURL, "/"),
	}
}

func (cs *certificateService) Issue(ctx context.Context, userID uuid.UUID, formationSlug string) (*IssueResult, error) {
	formation, err := cs.formationRepo.GetBySlug(ctx, nil, formationSlug)
	if err != nil {
		return nil, fmt.Errorf("get formation: %w", err)
	}
	if formation == nil {
		return nil, apierr.NotFound("formation")
	}

	var result *IssueResult
	err = cs.runner.InTx(ctx, func(dbc dbctx.Context) error {
		enrollment, gErr := cs.enrollmentRepo.GetByUserAndFormation(dbc.Ctx, dbc.Tx, userID, formation.ID)
		if gErr != nil {
			return fmt.Errorf("load enrollment: %w", gErr)
		}
		if enrollment == nil {
			return apierr.NotFound("enrollment")
		}

		existing, cErr := cs.certificateRepo.GetByEnrollmentID(dbc.Ctx, dbc.Tx, enrollment.ID)
		if cErr != nil {
			return fmt.Errorf("check existing certificate: %w", cErr)
		}
		if existing != nil {
			result = &IssueResult{Certificate: existing, Created: false}
			return nil
		}

		if !enrollment.IsCompleted {
			return apierr.NotEligible("formation not completed")
		}

		number, nErr := cs.generateNumber(dbc.Ctx, dbc.Tx)
		if nErr != nil {
			return nErr
		}

		now := time.Now().UTC()
		cert := &types.Certificate{
			ID:                uuid.New(),
			UserID:            userID,
			FormationID:       formation.ID,
			EnrollmentID:      enrollment.ID,
			CertificateNumber: number,
			IssuedAt:          now,
			FinalScore:        enrollment.CompletionRate,
			IsVerified:        true,
		}
		created, iErr := cs.certificateRepo.CreateIgnoreConflict(dbc.Ctx, dbc.Tx, cert)
		if iErr != nil {
			return fmt.Errorf("create certificate: %w", iErr)
		}
		if !created {
			// A concurrent request won the insert; replay its result.
			winner, wErr := cs.certificateRepo.GetByEnrollmentID(dbc.Ctx, dbc.Tx, enrollment.ID)
			if wErr != nil {
				return fmt.Errorf("fetch winning certificate: %w", wErr)
			}
			if winner == nil {
				return fmt.Errorf("certificate conflict but no row for enrollment %s", enrollment.ID)
			}
			result = &IssueResult{Certificate: winner, Created: false}
			return nil
		}

		if uErr := cs.enrollmentRepo.UpdateFields(dbc.Ctx, dbc.Tx, enrollment.ID, map[string]interface{}{
			"certificate_issued_at": now,
			"certificate_url":       cs.certificateURL(number),
		}); uErr != nil {
			return fmt.Errorf("stamp enrollment: %w", uErr)
		}

		result = &IssueResult{Certificate: cert, Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (cs *certificateService) GetMine(ctx context.Context, userID uuid.UUID) ([]*types.Certificate, error) {
	certs, err := cs.certificateRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

func (cs *certificateService) Verify(ctx context.Context, number string) (*types.Certificate, error) {
	cert, err := cs.certificateRepo.GetByNumber(ctx, nil, strings.TrimSpace(number))
	if err != nil {
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	if cert == nil {
		return nil, apierr.NotFound("certificate")
	}
	return cert, nil
}

// generateNumber builds CERT-<12 hex>-<year>. The random token makes
// collisions negligible; the loop re-rolls on the off chance anyway since
// the column is unique-constrained.
func (cs *certificateService) generateNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	year := time.Now().UTC().Year()
	for i := 0; i < 5; i++ {
		token, err := randomCertToken()
		if err != nil {
			return "", err
		}
		number := fmt.Sprintf("CERT-%s-%d", token, year)
		exists, err := cs.certificateRepo.NumberExists(ctx, tx, number)
		if err != nil {
			return "", fmt.Errorf("check certificate number: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate unique certificate number")
}

func (cs *certificateService) certificateURL(number string) string {
	return fmt.Sprintf("%s/api/certificates/verify/%s", cs.publicBaseURL, number)
}

func randomCertToken() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
