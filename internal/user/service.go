package user

import (
	"context"
	"errors"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/lumenlab/lampcore/internal/user/entity"
	"github.com/lumenlab/lampcore/internal/web"
	"github.com/lumenlab/lampcore/pkg/document"
	"github.com/lumenlab/lampcore/pkg/utilities"
)

// Repository is the data access surface UserService depends on.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) (string, error)
}

// Directory is the lookup surface other services use to resolve actors.
type Directory interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// PasswordHasher defines the minimal hashing interface (abstract so the
// algorithm can be swapped without touching the service).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation. The cost dictates the work factor and is fixed
// at construction.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// symbolPattern matches any non-word character, underscore included.
var symbolPattern = regexp.MustCompile(`[\W_]`)

// UserService handles registration and password authentication.
type UserService struct {
	repo   Repository
	hasher PasswordHasher
}

func NewUserService(repo Repository, hasher PasswordHasher) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &UserService{repo: repo, hasher: hasher}
}

// RegisterInput carries the registration fields. Required-key presence is
// checked at the handler against the raw body.
type RegisterInput struct {
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Username        string `json:"username"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register validates the input and stores a new account with a salted hash.
// Check order: email not registered, confirmation match, then the password
// strength rules. The first failure wins.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, document.ErrNoDocument) {
		return "", err
	}
	if existing != nil {
		return "", web.Conflict("Email already exists.")
	}
	if in.ConfirmPassword != in.Password {
		return "", web.BadRequest("Confirm password is not matching with password.")
	}
	if len(in.Password) < 9 {
		return "", web.BadRequest("Password must be at least 9 characters long.")
	}
	if !containsUpper(in.Password) {
		return "", web.BadRequest("Password must contain at least one uppercase letter.")
	}
	if !symbolPattern.MatchString(in.Password) {
		return "", web.BadRequest("Password must contain at least one special character.")
	}
	if !containsDigit(in.Password) {
		return "", web.BadRequest("Password must contain at least one number.")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", err
	}
	return s.repo.Create(ctx, &entity.User{
		Email:        in.Email,
		FullName:     in.FullName,
		Username:     in.Username,
		Phone:        in.Phone,
		PasswordHash: hash,
	})
}

// Authenticate looks the account up by email and verifies the password
// against the stored hash. On success the identifier is returned
// opaque-encoded for transport.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, document.ErrNoDocument) {
			return "", web.NotFound("Email does not exists in the record.")
		}
		return "", err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return "", web.AuthFailed("Authentication Failed. Password is wrong.")
	}
	return utilities.EncodeID(u.ID), nil
}

// ResolveActor decodes an opaque actor token and checks that it refers to an
// existing user. A malformed token and a well-formed token with no matching
// record surface as the same invalid-id error.
func ResolveActor(ctx context.Context, dir Directory, token string) (string, error) {
	id, err := utilities.DecodeID(token)
	if err != nil {
		return "", web.NotFound("Invalid ID.")
	}
	if _, err := dir.GetByID(ctx, id); err != nil {
		if errors.Is(err, document.ErrNoDocument) {
			return "", web.NotFound("Invalid ID.")
		}
		return "", err
	}
	return id, nil
}

func containsUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
