package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sinargas/sinargas-backend/internal/domain"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("email, phone, nik or kk already registered")
	ErrUserMissing        = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrNotVerified        = errors.New("user not verified, please enter otp")
	ErrInvalidToken       = errors.New("invalid token")
)

const otpTTL = 10 * time.Minute

// Store persists accounts. Unique violations on email/phone/nik/kk surface as
// ErrConflict.
type Store interface {
	CreateAccount(ctx context.Context, in RegisterInput, passwordHash string) (*Account, error)
	FindByPhone(ctx context.Context, phone string) (*Account, error)
	Activate(ctx context.Context, userID string) error
}

// OTPStore keeps one-time codes with a TTL; an expired or absent code reads
// back empty.
type OTPStore interface {
	Set(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// TokenStore denylists logged-out tokens until their natural expiry.
type TokenStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type Usecase struct {
	store     Store
	otp       OTPStore
	tokens    TokenStore
	jwtSecret []byte
	expMin    int
	log       *zap.Logger
	now       func() time.Time
}

func New(store Store, otp OTPStore, tokens TokenStore, jwtSecret string, expiresMinutes int, log *zap.Logger) *Usecase {
	if expiresMinutes <= 0 {
		expiresMinutes = 60
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		store:     store,
		otp:       otp,
		tokens:    tokens,
		jwtSecret: []byte(jwtSecret),
		expMin:    expiresMinutes,
		log:       log,
		now:       time.Now,
	}
}

// Register creates an inactive account and issues a 6-digit OTP. Actual OTP
// delivery is out of scope; the code is written to the audit log the way the
// first deployment did for testing.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	role, ok := domain.ParseRole(in.Role)
	if !ok ||
		strings.TrimSpace(in.Name) == "" ||
		!strings.Contains(in.Email, "@") ||
		len(in.Password) < 6 ||
		len(in.NIK) != 16 || len(in.KK) != 16 ||
		in.Phone == "" || len(in.Phone) > 20 {
		return nil, ErrInvalidInput
	}
	if role == domain.RoleBranchAdmin && in.BranchID == nil {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acc, err := u.store.CreateAccount(ctx, in, string(hash))
	if err != nil {
		return nil, err
	}

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}
	if err := u.otp.Set(ctx, acc.Phone, code, otpTTL); err != nil {
		return nil, err
	}

	u.log.Info("otp issued", zap.String("phone", acc.Phone), zap.String("otp", code))

	return &RegisterResult{UserID: acc.ID}, nil
}

// VerifyOTP activates the account when the stored code matches.
func (u *Usecase) VerifyOTP(ctx context.Context, phone, code string) error {
	if phone == "" || len(code) != 6 {
		return ErrInvalidInput
	}

	acc, err := u.store.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}

	stored, err := u.otp.Get(ctx, phone)
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return ErrInvalidOTP
	}

	if err := u.store.Activate(ctx, acc.ID); err != nil {
		return err
	}
	return u.otp.Delete(ctx, phone)
}

// Login checks the password and issues an HS256 token carrying the role and
// branch so every request can be turned into an explicit principal.
func (u *Usecase) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	if phone == "" || len(password) < 6 {
		return nil, ErrInvalidInput
	}

	acc, err := u.store.FindByPhone(ctx, phone)
	if err != nil {
		// hide whether the phone exists
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !acc.IsActive {
		return nil, ErrNotVerified
	}

	now := u.now()
	exp := now.Add(time.Duration(u.expMin) * time.Minute)

	claims := jwt.MapClaims{
		"sub":  acc.ID,
		"role": string(acc.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	if acc.BranchID != nil {
		claims["branch_id"] = *acc.BranchID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: signed, ExpiresIn: u.expMin * 60}, nil
}

// Logout denylists the presented token for the rest of its lifetime.
func (u *Usecase) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return ErrInvalidInput
	}

	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return u.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ErrInvalidToken
	}

	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return u.tokens.Revoke(ctx, rawToken, ttl)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
