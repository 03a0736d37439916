package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	contactrepo "github.com/codeforma/codeforma-backend/internal/data/repos/contact"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/codeforma/codeforma-backend/internal/platform/sendgrid"
	"github.com/google/uuid"
)

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*types.ContactMessage, error)
	List(ctx context.Context, unreadOnly bool) ([]*types.ContactMessage, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkReplied(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactService struct {
	log         *logger.Logger
	messageRepo contactrepo.MessageRepo
	mailer      sendgrid.Client
	notifyEmail string
	fromEmail   string
}

// NewContactService accepts a nil mailer. Without one, submissions are
// persisted and the notification email is skipped.
func NewContactService(
	log *logger.Logger,
	messageRepo contactrepo.MessageRepo,
	mailer sendgrid.Client,
	notifyEmail string,
	fromEmail string,
) ContactService {
	serviceLog := log.With("service", "ContactService")
	return &contactService{
		log:         serviceLog,
		messageRepo: messageRepo,
		mailer:      mailer,
		notifyEmail: notifyEmail,
		fromEmail:   fromEmail,
	}
}

func (cs *contactService) Submit(ctx context.Context, in ContactInput) (*types.ContactMessage, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	body := strings.TrimSpace(in.Message)

	if name == "" {
		return nil, apierr.Invalid("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apierr.Invalid("a valid email is required")
	}
	if body == "" {
		return nil, apierr.Invalid("message is required")
	}
	if len(body) > 5000 {
		return nil, apierr.Invalid("message is too long")
	}

	msg := &types.ContactMessage{
		ID:      uuid.New(),
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(in.Subject),
		Body:    body,
	}
	if _, err := cs.messageRepo.Create(ctx, nil, []*types.ContactMessage{msg}); err != nil {
		return nil, fmt.Errorf("persist contact message: %w", err)
	}

	// The message row is the source of truth. Notification delivery is
	// best effort and must not fail the submission.
	cs.notify(ctx, msg)

	return msg, nil
}

func (cs *contactService) notify(ctx context.Context, msg *types.ContactMessage) {
	if cs.mailer == nil || cs.notifyEmail == "" {
		return
	}
	subject := msg.Subject
	if subject == "" {
		subject = "New contact message"
	}
	_, err := cs.mailer.Send(ctx, sendgrid.SendEmailRequest{
		From:    sendgrid.EmailAddress{Email: cs.fromEmail, Name: "CodeForma"},
		ReplyTo: &sendgrid.EmailAddress{Email: msg.Email, Name: msg.Name},
		To:      []sendgrid.EmailAddress{{Email: cs.notifyEmail}},
		Subject: fmt.Sprintf("[contact] %s", subject),
		Text:    fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Body),
		Categories: []string{
			"contact-notification",
		},
	})
	if err != nil {
		cs.log.Warn("contact notification failed", "message_id", msg.ID, "error", err)
	}
}

func (cs *contactService) List(ctx context.Context, unreadOnly bool) ([]*types.ContactMessage, error) {
	messages, err := cs.messageRepo.List(ctx, nil, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

func (cs *contactService) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := cs.requireMessage(ctx, id); err != nil {
		return err
	}
	if err := cs.messageRepo.MarkRead(ctx, nil, id); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

func (cs *contactService) MarkReplied(ctx context.Context, id uuid.UUID) error {
	if err := cs.requireMessage(ctx, id); err != nil {
		return err
	}
	if err := cs.messageRepo.MarkReplied(ctx, nil, id, time.Now()); err != nil {
		return fmt.Errorf("mark message replied: %w", err)
	}
	return nil
}

func (cs *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := cs.requireMessage(ctx, id); err != nil {
		return err
	}
	if err := cs.messageRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (cs *contactService) requireMessage(ctx context.Context, id uuid.UUID) error {
	rows, err := cs.messageRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("load message: %w", err)
	}
	if len(rows) == 0 {
		return apierr.NotFound("message")
	}
	return nil
}
