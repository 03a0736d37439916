package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
)

var certNumberRe = regexp.MustCompile(`^CERT-[0-9A-F]{12}-\d{4}$`)

func (e *testEnv) completeEnrollment(t *testing.T, enrollment *types.UserEnrollment) {
	t.Helper()
	if err := e.tx.Model(&types.UserEnrollment{}).Where("id = ?", enrollment.ID).Updates(map[string]interface{}{
		"progress_percentage": 100.0,
		"completion_rate":     100.0,
		"is_completed":        true,
	}).Error; err != nil {
		t.Fatalf("complete enrollment: %v", err)
	}
}

func TestCertificateIssue_RejectsIncompleteEnrollment(t *testing.T) {
	env := newTestEnv(t)
	svc := env.certificateService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	env.seedEnrollment(t, user.ID, formation.ID)

	_, err := svc.Issue(context.Background(), user.ID, formation.Slug)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotEligible {
		t.Fatalf("expected not_eligible, got %v", err)
	}
}

func TestCertificateIssue_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.certificateService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	enrollment := env.seedEnrollment(t, user.ID, formation.ID)
	env.completeEnrollment(t, enrollment)

	first, err := svc.Issue(ctx, user.ID, formation.Slug)
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	if !first.Created {
		t.Fatalf("expected created=true on first issue")
	}
	if !certNumberRe.MatchString(first.Certificate.CertificateNumber) {
		t.Fatalf("bad certificate number %q", first.Certificate.CertificateNumber)
	}
	if first.Certificate.FinalScore != 100 {
		t.Fatalf("expected final score 100, got %v", first.Certificate.FinalScore)
	}

	replay, err := svc.Issue(ctx, user.ID, formation.Slug)
	if err != nil {
		t.Fatalf("replay issue: %v", err)
	}
	if replay.Created {
		t.Fatalf("expected created=false on replay")
	}
	if replay.Certificate.CertificateNumber != first.Certificate.CertificateNumber {
		t.Fatalf("replay returned a different certificate: %q vs %q",
			replay.Certificate.CertificateNumber, first.Certificate.CertificateNumber)
	}

	stamped := env.reloadEnrollment(t, enrollment.ID)
	if stamped.CertificateIssuedAt == nil {
		t.Fatalf("expected certificate_issued_at on the enrollment")
	}
	if stamped.CertificateURL == "" {
		t.Fatalf("expected certificate_url on the enrollment")
	}
}

func TestCertificateVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.certificateService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)
	enrollment := env.seedEnrollment(t, user.ID, formation.ID)
	env.completeEnrollment(t, enrollment)

	issued, err := svc.Issue(ctx, user.ID, formation.Slug)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	found, err := svc.Verify(ctx, issued.Certificate.CertificateNumber)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if found.ID != issued.Certificate.ID {
		t.Fatalf("verify returned certificate %s, want %s", found.ID, issued.Certificate.ID)
	}

	_, err = svc.Verify(ctx, "CERT-000000000000-1999")
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotFound {
		t.Fatalf("expected not_found for an unknown number, got %v", err)
	}
}
