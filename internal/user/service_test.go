package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlab/lampcore/internal/user/entity"
	"github.com/lumenlab/lampcore/internal/web"
	"github.com/lumenlab/lampcore/pkg/document"
	"github.com/lumenlab/lampcore/pkg/utilities"
)

// -------- test fakes --------

type fakeUserRepo struct {
	byEmail map[string]*entity.User
	byID    map[string]*entity.User
	created []*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}, byID: map[string]*entity.User{}}
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, document.ErrNoDocument
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, document.ErrNoDocument
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) (string, error) {
	u.ID = utilities.NewKSUID()
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	f.created = append(f.created, u)
	return u.ID, nil
}

func validInput() RegisterInput {
	return RegisterInput{
		Email:           "jane@example.com",
		FullName:        "Jane Doe",
		Username:        "jane",
		Phone:           "0123456789",
		Password:        "ValidPass1!",
		ConfirmPassword: "ValidPass1!",
	}
}

func kindOf(t *testing.T, err error) web.Kind {
	t.Helper()
	var appErr *web.Error
	require.ErrorAs(t, err, &appErr)
	return appErr.Kind
}

// -------- tests --------

func TestRegisterPasswordRules(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"too short", "short", "Password must be at least 9 characters long."},
		{"no uppercase", "alllowercase1!", "Password must contain at least one uppercase letter."},
		{"no symbol", "NoSymbolHere1", "Password must contain at least one special character."},
		{"no digit", "NoDigitsHere!", "Password must contain at least one number."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewUserService(newFakeUserRepo(), nil)
			in := validInput()
			in.Password = tc.password
			in.ConfirmPassword = tc.password
			_, err := svc.Register(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, web.KindBadRequest, kindOf(t, err))
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestRegisterConfirmPasswordMismatch(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)
	in := validInput()
	in.ConfirmPassword = "Different1!"
	_, err := svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, web.KindBadRequest, kindOf(t, err))
}

func TestRegisterSuccessStoresHashNotPlaintext(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	id, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.NotEqual(t, "ValidPass1!", stored.PasswordHash)
	assert.True(t, BcryptHasher{}.Verify(stored.PasswordHash, "ValidPass1!"))
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, web.KindConflict, kindOf(t, err))
}

func TestRegisterEmailCheckPrecedesPasswordRules(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	// same email with a weak password still reports the conflict first
	in := validInput()
	in.Password = "short"
	in.ConfirmPassword = "short"
	_, err = svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, web.KindConflict, kindOf(t, err))
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)
	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "ValidPass1!")
	require.Error(t, err)
	assert.Equal(t, web.KindNotFound, kindOf(t, err))
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "jane@example.com", "WrongPass1!")
	require.Error(t, err)
	assert.Equal(t, web.KindAuthFailed, kindOf(t, err))
}

func TestAuthenticateReturnsOpaqueID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	id, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	token, err := svc.Authenticate(context.Background(), "jane@example.com", "ValidPass1!")
	require.NoError(t, err)
	assert.NotEqual(t, id, token)
	decoded, err := utilities.DecodeID(token)
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestResolveActor(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	id, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	got, err := ResolveActor(context.Background(), repo, utilities.EncodeID(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestResolveActorInvalid(t *testing.T) {
	repo := newFakeUserRepo()
	cases := []struct {
		name  string
		token string
	}{
		{"malformed token", "@@not-a-token@@"},
		{"well-formed but no such user", utilities.EncodeID(utilities.NewKSUID())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveActor(context.Background(), repo, tc.token)
			require.Error(t, err)
			// both failure modes are indistinguishable to the caller
			assert.Equal(t, web.KindNotFound, kindOf(t, err))
			assert.EqualError(t, err, "Invalid ID.")
		})
	}
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: 4} // low cost to keep the test fast
	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.True(t, h.Verify(hash, "secret"))
	assert.False(t, h.Verify(hash, "other"))
}

func TestRegisterPropagatesRepoErrors(t *testing.T) {
	svc := NewUserService(errRepo{}, nil)
	_, err := svc.Register(context.Background(), validInput())
	require.Error(t, err)
	var appErr *web.Error
	assert.False(t, errors.As(err, &appErr))
}

type errRepo struct{}

func (errRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, errors.New("persistence unavailable")
}

func (errRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return nil, errors.New("persistence unavailable")
}

func (errRepo) Create(ctx context.Context, u *entity.User) (string, error) {
	return "", errors.New("persistence unavailable")
}
