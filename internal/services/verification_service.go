package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/careerhub/internal/models"
	"github.com/example/careerhub/internal/repository"
	"github.com/example/careerhub/internal/utils"
)

// Failure modes of the verification flow. Handlers map these to HTTP
// statuses and user-facing messages; anything else is an internal error.
var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrEmailTaken      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoPendingCode   = errors.New("no verification code outstanding")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrCodeMismatch    = errors.New("verification code mismatch")
	ErrAlreadyVerified = errors.New("email already verified")
)

// codeTTL is how long an issued verification code stays valid.
const codeTTL = 10 * time.Minute

// VerificationService owns the email-verification lifecycle of an account:
// code generation, delivery through the Sender, validation and the
// transition to verified. All durable state lives in the Users directory.
type VerificationService struct {
	users  repository.Users
	sender Sender
	log    *zap.Logger
	now    func() time.Time
}

// NewVerificationService wires the service to its collaborators.
func NewVerificationService(users repository.Users, sender Sender, log *zap.Logger) *VerificationService {
	return &VerificationService{
		users:  users,
		sender: sender,
		log:    log,
		now:    time.Now,
	}
}

// RegisterInput carries the registration fields. All of them are required.
type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        models.Role
}

// Register creates an unverified account with a fresh verification code and
// schedules the code email. Delivery is fire-and-forget: a failed send is
// logged and never surfaces to the caller.
func (s *VerificationService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := utils.NormalizeEmail(in.Email)
	if in.FullName == "" || email == "" || in.PhoneNumber == "" || in.Password == "" || in.Role == "" {
		return nil, ErrMissingFields
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrMissingFields, in.Role)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generating verification code: %w", err)
	}
	expiresAt := s.now().Add(codeTTL)

	user := &models.User{
		FullName:                  in.FullName,
		Email:                     email,
		PhoneNumber:               in.PhoneNumber,
		PasswordHash:              passwordHash,
		Role:                      in.Role,
		IsVerified:                false,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expiresAt,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	go s.deliverCode(user.Email, user.FullName, code)

	return user, nil
}

// Verify checks a submitted code against the stored pending code and, on
// success, marks the account verified and clears the pending fields. The
// checks run in a fixed order so every failure mode is a distinct outcome.
func (s *VerificationService) Verify(ctx context.Context, email, code string) error {
	email = utils.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if !user.HasPendingCode() {
		return ErrNoPendingCode
	}

	// An expired code is rejected but not cleared here; it lingers until a
	// resend overwrites it.
	if user.VerificationCodeExpiresAt == nil || !s.now().Before(*user.VerificationCodeExpiresAt) {
		return ErrCodeExpired
	}

	if strings.TrimSpace(*user.VerificationCode) != code {
		return ErrCodeMismatch
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("marking user verified: %w", err)
	}

	go func(email, fullname string) {
		if err := s.sender.SendWelcome(context.Background(), email, fullname); err != nil {
			s.log.Error("failed to send welcome email",
				zap.String("email", email),
				zap.Error(err))
		}
	}(user.Email, user.FullName)

	return nil
}

// Resend replaces the outstanding verification code and mails the new one.
// Unlike Register, the send is synchronous: its failure fails the call even
// though the new code is already persisted at that point.
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generating verification code: %w", err)
	}
	expiresAt := s.now().Add(codeTTL)

	if err := s.users.ReplacePendingCode(ctx, user.ID, code, expiresAt); err != nil {
		return fmt.Errorf("storing verification code: %w", err)
	}

	if err := s.sender.SendVerificationCode(ctx, user.Email, user.FullName, code); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}

	return nil
}

func (s *VerificationService) deliverCode(email, fullname, code string) {
	if err := s.sender.SendVerificationCode(context.Background(), email, fullname, code); err != nil {
		s.log.Error("failed to send verification email",
			zap.String("email", email),
			zap.Error(err))
	}
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
