package usecase

import (
	"context"
	"errors"
	"strings"

	"coursecatalog/internal/domain"
	"coursecatalog/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Narrow views of the infrastructure this flow touches. The concrete
// repository, cache and sender types satisfy them as-is.
type EmailStore interface {
	GetOrCreate(ctx context.Context, address string) (*domain.Email, error)
	MarkVerified(ctx context.Context, address string) error
}

type TokenStore interface {
	SaveToken(ctx context.Context, token, address string) error
	GetToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, token string) error
}

type VerificationMailer interface {
	SendVerificationEmail(toEmail, token string) error
}

// AccessUseCase runs the email-verification flow gating
// email-required courses.
type AccessUseCase struct {
	emails   EmailStore
	tokens   TokenStore
	sessions SessionIssuer
	sender   VerificationMailer
	log      *logger.Logger
}

type SessionIssuer interface {
	Generate(email string) (string, error)
	Validate(token string) (string, error)
}

func NewAccessUseCase(
	emails EmailStore,
	tokens TokenStore,
	sessions SessionIssuer,
	sender VerificationMailer,
	log *logger.Logger,
) *AccessUseCase {
	return &AccessUseCase{
		emails:   emails,
		tokens:   tokens,
		sessions: sessions,
		sender:   sender,
		log:      log,
	}
}

// RequestAccess records the address and mails a short-lived
// verification link.
func (uc *AccessUseCase) RequestAccess(ctx context.Context, address string) error {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" || !strings.Contains(address, "@") {
		return errors.New("invalid email address")
	}

	record, err := uc.emails.GetOrCreate(ctx, address)
	if err != nil {
		return err
	}

	token := domain.NewRandomToken()
	if err := uc.tokens.SaveToken(ctx, token, record.Address); err != nil {
		return err
	}

	if err := uc.sender.SendVerificationEmail(record.Address, token); err != nil {
		uc.log.Error("verification email failed", "error", err)
		return errors.New("failed to send verification email")
	}
	return nil
}

// VerifyEmail exchanges a valid token for a viewer session.
func (uc *AccessUseCase) VerifyEmail(ctx context.Context, token string) (string, error) {
	address, err := uc.tokens.GetToken(ctx, token)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrTokenInvalid
		}
		return "", err
	}

	if err := uc.emails.MarkVerified(ctx, address); err != nil {
		return "", err
	}
	_ = uc.tokens.DeleteToken(ctx, token)

	return uc.sessions.Generate(address)
}

// ValidateSession returns the verified email behind a session token.
func (uc *AccessUseCase) ValidateSession(token string) (string, error) {
	return uc.sessions.Validate(token)
}
