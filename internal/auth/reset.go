package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/hearthhide-backend/pkg/config"
	"github.com/dcastellanos/hearthhide-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/hearthhide-backend/pkg/errors"
	"github.com/dcastellanos/hearthhide-backend/pkg/logger"
	redisclient "github.com/dcastellanos/hearthhide-backend/pkg/redis"
	"github.com/dcastellanos/hearthhide-backend/pkg/security"
)

const otpLength = 6

// ResetService runs the OTP-based password reset flow: a short-lived numeric
// code is stored in Redis keyed by email, delivered out of band, and redeemed
// once for a new password.
type ResetService interface {
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type resetUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	OTPKey(email string) string
}

// OTPSender delivers the reset code to the user. Email delivery is owned by a
// separate notification service; the API only hands the code off.
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// LogOTPSender writes the code to the log instead of delivering it. Dev only.
type LogOTPSender struct {
	Logg *logger.Logger
}

func (s LogOTPSender) SendOTP(ctx context.Context, email, code string) error {
	if s.Logg != nil {
		ctx = s.Logg.WithFields(ctx, map[string]any{"email": email, "otp": code})
		s.Logg.Warn(ctx, "otp delivery not configured, logging code")
	}
	return nil
}

// ResetServiceParams packages the dependencies for the reset flow.
type ResetServiceParams struct {
	UserRepo       resetUserRepository
	Store          otpStore
	Sender         OTPSender
	PasswordConfig config.PasswordConfig
	OTPConfig      config.OTPConfig
}

type resetService struct {
	users       resetUserRepository
	store       otpStore
	sender      OTPSender
	passwordCfg config.PasswordConfig
	otpCfg      config.OTPConfig
}

// NewResetService builds the password reset service.
func NewResetService(params ResetServiceParams) (ResetService, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "otp store required")
	}
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "otp sender required")
	}
	return &resetService{
		users:       params.UserRepo,
		store:       params.Store,
		sender:      params.Sender,
		passwordCfg: params.PasswordConfig,
		otpCfg:      params.OTPConfig,
	}, nil
}

// ForgotPassword issues a fresh OTP for the account. Unknown emails succeed
// silently so the endpoint cannot be used to probe for registered accounts.
func (s *resetService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	code, err := security.GenerateOTP(otpLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	if err := s.store.Set(ctx, s.store.OTPKey(email), code, s.otpCfg.TTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store otp")
	}
	if err := s.sender.SendOTP(ctx, email, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "send otp")
	}
	return nil
}

// ResetPassword redeems an OTP for a new password. Verification attempts are
// rate limited per email so the code cannot be brute forced within its TTL.
func (s *resetService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	allowed, _, err := s.store.FixedWindowAllow(ctx, "otp_verify:"+email, int64(s.otpCfg.MaxAttempts), s.otpCfg.TTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check otp attempts")
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many reset attempts")
	}

	stored, err := s.store.Get(ctx, s.store.OTPKey(email))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load otp")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(req.Code))) != 1 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}

	// The code is single use.
	if err := s.store.Del(ctx, s.store.OTPKey(email)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear otp")
	}
	return nil
}
