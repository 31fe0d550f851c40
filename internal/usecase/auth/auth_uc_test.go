package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/sinargas/sinargas-backend/internal/domain"
)

type fakeStore struct {
	accounts map[string]*Account // by phone
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[string]*Account{}}
}

func (s *fakeStore) CreateAccount(_ context.Context, in RegisterInput, passwordHash string) (*Account, error) {
	if _, ok := s.accounts[in.Phone]; ok {
		return nil, ErrConflict
	}
	s.nextID++
	acc := &Account{
		ID:           fmt.Sprintf("user-%d", s.nextID),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: passwordHash,
		Role:         domain.Role(in.Role),
		BranchID:     in.BranchID,
	}
	s.accounts[in.Phone] = acc
	return acc, nil
}

func (s *fakeStore) FindByPhone(_ context.Context, phone string) (*Account, error) {
	acc, ok := s.accounts[phone]
	if !ok {
		return nil, ErrUserMissing
	}
	out := *acc
	return &out, nil
}

func (s *fakeStore) Activate(_ context.Context, userID string) error {
	for _, acc := range s.accounts {
		if acc.ID == userID {
			acc.IsActive = true
			return nil
		}
	}
	return ErrUserMissing
}

var _ Store = (*fakeStore)(nil)

type fakeOTP struct {
	codes map[string]string
}

func newFakeOTP() *fakeOTP { return &fakeOTP{codes: map[string]string{}} }

func (f *fakeOTP) Set(_ context.Context, phone, code string, _ time.Duration) error {
	f.codes[phone] = code
	return nil
}

func (f *fakeOTP) Get(_ context.Context, phone string) (string, error) {
	return f.codes[phone], nil
}

func (f *fakeOTP) Delete(_ context.Context, phone string) error {
	delete(f.codes, phone)
	return nil
}

var _ OTPStore = (*fakeOTP)(nil)

type fakeTokens struct {
	revoked map[string]bool
}

func newFakeTokens() *fakeTokens { return &fakeTokens{revoked: map[string]bool{}} }

func (f *fakeTokens) Revoke(_ context.Context, token string, _ time.Duration) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeTokens) IsRevoked(_ context.Context, token string) (bool, error) {
	return f.revoked[token], nil
}

var _ TokenStore = (*fakeTokens)(nil)

const secret = "test-secret"

func registerInput() RegisterInput {
	return RegisterInput{
		Name:     "Siti",
		Email:    "siti@example.test",
		Password: "rahasia1",
		NIK:      "1234567890123456",
		KK:       "6543210987654321",
		Phone:    "0812345678",
		Role:     "user",
	}
}

func newUsecase() (*Usecase, *fakeStore, *fakeOTP, *fakeTokens) {
	store := newFakeStore()
	otp := newFakeOTP()
	tokens := newFakeTokens()
	return New(store, otp, tokens, secret, 60, nil), store, otp, tokens
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	uc, store, otp, _ := newUsecase()
	in := registerInput()

	res, err := uc.Register(context.Background(), in)
	require.NoError(t, err)
	require.NotEmpty(t, res.UserID)
	require.False(t, store.accounts[in.Phone].IsActive)

	code := otp.codes[in.Phone]
	require.Len(t, code, 6)

	// unverified accounts cannot log in
	_, err = uc.Login(context.Background(), in.Phone, in.Password)
	require.ErrorIs(t, err, ErrNotVerified)

	require.ErrorIs(t, uc.VerifyOTP(context.Background(), in.Phone, "000000x"), ErrInvalidInput)
	wrong := "999999"
	if code == wrong {
		wrong = "999998"
	}
	require.ErrorIs(t, uc.VerifyOTP(context.Background(), in.Phone, wrong), ErrInvalidOTP)

	require.NoError(t, uc.VerifyOTP(context.Background(), in.Phone, code))
	require.True(t, store.accounts[in.Phone].IsActive)

	// the code is single use
	require.ErrorIs(t, uc.VerifyOTP(context.Background(), in.Phone, code), ErrInvalidOTP)

	out, err := uc.Login(context.Background(), in.Phone, in.Password)
	require.NoError(t, err)
	require.NotEmpty(t, out.AccessToken)
	require.Equal(t, 3600, out.ExpiresIn)

	token, err := jwt.Parse(out.AccessToken, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, res.UserID, claims["sub"])
	require.Equal(t, "user", claims["role"])
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _, _ := newUsecase()

	for name, mutate := range map[string]func(*RegisterInput){
		"empty name":     func(in *RegisterInput) { in.Name = " " },
		"bad email":      func(in *RegisterInput) { in.Email = "not-an-email" },
		"short password": func(in *RegisterInput) { in.Password = "12345" },
		"short nik":      func(in *RegisterInput) { in.NIK = "123" },
		"short kk":       func(in *RegisterInput) { in.KK = "123" },
		"no phone":       func(in *RegisterInput) { in.Phone = "" },
		"bad role":       func(in *RegisterInput) { in.Role = "owner" },
		"branch admin without branch": func(in *RegisterInput) {
			in.Role = "admin_cabang"
			in.BranchID = nil
		},
	} {
		in := registerInput()
		mutate(&in)
		_, err := uc.Register(context.Background(), in)
		require.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	uc, _, _, _ := newUsecase()
	in := registerInput()

	_, err := uc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), in)
	require.ErrorIs(t, err, ErrConflict)
}

func TestLoginWrongCredentials(t *testing.T) {
	uc, _, otp, _ := newUsecase()
	in := registerInput()

	_, err := uc.Register(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, uc.VerifyOTP(context.Background(), in.Phone, otp.codes[in.Phone]))

	_, err = uc.Login(context.Background(), in.Phone, "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// an unknown phone answers the same as a bad password
	_, err = uc.Login(context.Background(), "0800000000", in.Password)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutDenylistsToken(t *testing.T) {
	uc, _, otp, tokens := newUsecase()
	in := registerInput()

	_, err := uc.Register(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, uc.VerifyOTP(context.Background(), in.Phone, otp.codes[in.Phone]))

	out, err := uc.Login(context.Background(), in.Phone, in.Password)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), out.AccessToken))
	require.True(t, tokens.revoked[out.AccessToken])

	require.ErrorIs(t, uc.Logout(context.Background(), "not-a-jwt"), ErrInvalidToken)
}
