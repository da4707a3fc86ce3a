package repo

import (
	"context"
	"encoding/json"

	"github.com/lumenlab/lampcore/internal/user/entity"
	"github.com/lumenlab/lampcore/pkg/document"
)

// UserRepo provides data access for the users collection.
type UserRepo struct {
	col *document.Collection
}

func NewUserRepo(store *document.Store) *UserRepo {
	return &UserRepo{col: store.Collection("users")}
}

// GetByEmail returns the user with the given email or document.ErrNoDocument.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	doc, err := r.col.FindOne(ctx, document.Document{"email": email})
	if err != nil {
		return nil, err
	}
	return docToUser(doc)
}

// GetByID returns the user with the given internal identifier or
// document.ErrNoDocument.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.col.FindOne(ctx, document.Document{"_id": id})
	if err != nil {
		return nil, err
	}
	return docToUser(doc)
}

// Create inserts a new user document and returns the generated identifier.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (string, error) {
	return r.col.Insert(ctx, document.Document{
		"email":     u.Email,
		"full_name": u.FullName,
		"username":  u.Username,
		"phone":     u.Phone,
		"password":  u.PasswordHash,
	})
}

func docToUser(doc document.Document) (*entity.User, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var u entity.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
