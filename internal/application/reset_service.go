package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/madinafit/fitness-backend/internal/domain/repository"
	"github.com/madinafit/fitness-backend/pkg/apperrors"
	"github.com/madinafit/fitness-backend/pkg/helpers"
	"github.com/madinafit/fitness-backend/pkg/mailer"
	"github.com/madinafit/fitness-backend/pkg/validation"
)

// EmailPublisher enqueues outbound email jobs. Satisfied by
// helpers.RabbitPublisher; faked in tests.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ResetService drives the reset-code lifecycle: NoCode -> CodeIssued ->
// Consumed (or passively Expired via the store TTL) -> NoCode.
type ResetService struct {
	Repo    repository.UserRepository
	Codes   repository.ResetCodeStore
	Pub     EmailPublisher
	Logger  *logrus.Logger
	CodeTTL time.Duration
}

func NewResetService(repo repository.UserRepository, codes repository.ResetCodeStore, pub EmailPublisher, logger *logrus.Logger, codeTTL time.Duration) *ResetService {
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	return &ResetService{Repo: repo, Codes: codes, Pub: pub, Logger: logger, CodeTTL: codeTTL}
}

// RequestCode issues a fresh 6-digit code for a known account and enqueues its
// delivery. Storing the code overwrites any prior one, so only the newest code
// ever validates. If the delivery job cannot be enqueued the stored code is
// rolled back rather than left usable for a mail the user will never receive.
func (s *ResetService) RequestCode(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return s.internal("reset request lookup failed", err, email)
	}
	if u == nil {
		return apperrors.NotFound("user not found")
	}
	if s.Pub == nil {
		return apperrors.Unavailable("mail service is not configured")
	}

	code, err := helpers.GenResetCode()
	if err != nil {
		return s.internal("reset code generation failed", err, email)
	}
	if err := s.Codes.Put(ctx, email, code, s.CodeTTL); err != nil {
		return s.internal("reset code store failed", err, email)
	}

	job := mailer.EmailJob{
		To:      email,
		Subject: "Your password reset code",
		Text:    fmt.Sprintf("Your code: %s. It expires in %d minutes.", code, int(s.CodeTTL.Minutes())),
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		if delErr := s.Codes.Delete(ctx, email); delErr != nil && s.Logger != nil {
			s.Logger.WithError(delErr).WithField("email", email).Warn("reset code rollback failed")
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Error("reset code enqueue failed")
		}
		return apperrors.Unavailable("failed to send reset code")
	}
	return nil
}

// ResetPassword consumes a matching unexpired code and replaces the account's
// password hash. A wrong code and an expired one are indistinguishable to the
// caller, and a consumed code never validates twice.
func (s *ResetService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if msg := validation.CheckPassword(newPassword); msg != "" {
		return apperrors.Validation(msg)
	}

	ok, err := s.Codes.Match(ctx, email, code)
	if err != nil {
		return s.internal("reset code match failed", err, email)
	}
	if !ok {
		return apperrors.NotFound("invalid code")
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return s.internal("password hash failed", err, email)
	}
	if err := s.Repo.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		return s.internal("password update failed", err, email)
	}
	if err := s.Codes.Delete(ctx, email); err != nil {
		return s.internal("reset code delete failed", err, email)
	}
	return nil
}

func (s *ResetService) internal(msg string, err error, email string) error {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("email", email).Error(msg)
	}
	return apperrors.Internal(err)
}
