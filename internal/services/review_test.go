package services

import (
	"context"
	"errors"
	"testing"

	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
)

func TestReviewCreate_ValidationAndGates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviewService()

	user := env.seedUser(t)
	formation := env.seedFormation(t, true)

	var ae *apierr.Error
	_, err := svc.Create(ctx, user.ID, formation.Slug, ReviewInput{Rating: 0})
	if !errors.As(err, &ae) || ae.Code != apierr.CodeInvalidInput {
		t.Fatalf("expected invalid_input for rating 0, got %v", err)
	}
	_, err = svc.Create(ctx, user.ID, formation.Slug, ReviewInput{Rating: 6})
	if !errors.As(err, &ae) || ae.Code != apierr.CodeInvalidInput {
		t.Fatalf("expected invalid_input for rating 6, got %v", err)
	}

	_, err = svc.Create(ctx, user.ID, formation.Slug, ReviewInput{Rating: 4})
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotEnrolled {
		t.Fatalf("expected not_enrolled, got %v", err)
	}

	draft := env.seedFormation(t, false)
	env.seedEnrollment(t, user.ID, draft.ID)
	_, err = svc.Create(ctx, user.ID, draft.Slug, ReviewInput{Rating: 4})
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotFound {
		t.Fatalf("expected not_found for an unpublished formation, got %v", err)
	}
}

func TestReviewCreate_RecomputesFormationAndRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviewService()

	formation := env.seedFormation(t, true)

	first := env.seedUser(t)
	env.seedEnrollment(t, first.ID, formation.ID)
	if _, err := svc.Create(ctx, first.ID, formation.Slug, ReviewInput{Rating: 4, Comment: "solid"}); err != nil {
		t.Fatalf("first review: %v", err)
	}

	second := env.seedUser(t)
	env.seedEnrollment(t, second.ID, formation.ID)
	if _, err := svc.Create(ctx, second.ID, formation.Slug, ReviewInput{Rating: 5}); err != nil {
		t.Fatalf("second review: %v", err)
	}

	got := env.reloadFormation(t, formation.ID)
	if got.ReviewsCount != 2 {
		t.Fatalf("expected reviews_count 2, got %d", got.ReviewsCount)
	}
	if got.Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", got.Rating)
	}

	_, err := svc.Create(ctx, first.ID, formation.Slug, ReviewInput{Rating: 1})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeDuplicateReview {
		t.Fatalf("expected duplicate_review, got %v", err)
	}
	if got := env.reloadFormation(t, formation.ID); got.ReviewsCount != 2 {
		t.Fatalf("a rejected duplicate must not move the count, got %d", got.ReviewsCount)
	}
}

func TestReviewDelete_RecomputesFormation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviewService()

	formation := env.seedFormation(t, true)
	author := env.seedUser(t)
	env.seedEnrollment(t, author.ID, formation.ID)
	review, err := svc.Create(ctx, author.ID, formation.Slug, ReviewInput{Rating: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stranger := env.seedUser(t)
	err = svc.Delete(ctx, stranger.ID, false, review.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeForbidden {
		t.Fatalf("expected forbidden for a non-author, got %v", err)
	}

	if err := svc.Delete(ctx, author.ID, false, review.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	got := env.reloadFormation(t, formation.ID)
	if got.ReviewsCount != 0 || got.Rating != 0 {
		t.Fatalf("expected a zeroed aggregate after delete, got rating=%v count=%d", got.Rating, got.ReviewsCount)
	}
}

func TestReviewMarkHelpful_BlocksSelfVote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviewService()

	formation := env.seedFormation(t, true)
	author := env.seedUser(t)
	env.seedEnrollment(t, author.ID, formation.ID)
	review, err := svc.Create(ctx, author.ID, formation.Slug, ReviewInput{Rating: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.MarkHelpful(ctx, author.ID, review.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeSelfVote {
		t.Fatalf("expected self_vote, got %v", err)
	}

	voter := env.seedUser(t)
	updated, err := svc.MarkHelpful(ctx, voter.ID, review.ID)
	if err != nil {
		t.Fatalf("mark helpful: %v", err)
	}
	if updated.HelpfulCount != 1 {
		t.Fatalf("expected helpful_count 1, got %d", updated.HelpfulCount)
	}
}
