package repo

import (
	"context"
	"encoding/json"

	"github.com/lumenlab/lampcore/internal/lamp/entity"
	"github.com/lumenlab/lampcore/pkg/document"
)

// LampRepo provides data access for the lamps collection.
type LampRepo struct {
	col *document.Collection
}

func NewLampRepo(store *document.Store) *LampRepo {
	return &LampRepo{col: store.Collection("lamps")}
}

// GetByLed returns the lamp registered under the given device number or
// document.ErrNoDocument.
func (r *LampRepo) GetByLed(ctx context.Context, led int64) (*entity.Lamp, error) {
	doc, err := r.col.FindOne(ctx, document.Document{"led": led})
	if err != nil {
		return nil, err
	}
	return docToLamp(doc)
}

// GetByID returns the lamp with the given internal identifier or
// document.ErrNoDocument.
func (r *LampRepo) GetByID(ctx context.Context, id string) (*entity.Lamp, error) {
	doc, err := r.col.FindOne(ctx, document.Document{"_id": id})
	if err != nil {
		return nil, err
	}
	return docToLamp(doc)
}

// List returns every lamp record, oldest first.
func (r *LampRepo) List(ctx context.Context) ([]entity.Lamp, error) {
	docs, err := r.col.FindAll(ctx, document.Document{})
	if err != nil {
		return nil, err
	}
	out := make([]entity.Lamp, 0, len(docs))
	for _, doc := range docs {
		l, err := docToLamp(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, nil
}

// Create inserts a new lamp document and returns the generated identifier.
func (r *LampRepo) Create(ctx context.Context, l *entity.Lamp) (string, error) {
	return r.col.Insert(ctx, document.Document{
		"led":           l.Led,
		"status":        l.Status,
		"intensity":     l.Intensity,
		"colour":        l.Colour,
		"qr_id":         l.QRID,
		"qr_image_path": l.QRImagePath,
		"created_by":    l.CreatedBy,
		"updated_by":    l.UpdatedBy,
		"created_at":    l.CreatedAt,
		"updated_at":    l.UpdatedAt,
	})
}

// UpdateFields merges the given fields into the lamp with the given id.
func (r *LampRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.col.UpdateOne(ctx, document.Document{"_id": id}, document.Document(fields))
}

// Delete removes the lamp record with the given id.
func (r *LampRepo) Delete(ctx context.Context, id string) error {
	return r.col.DeleteOne(ctx, document.Document{"_id": id})
}

func docToLamp(doc document.Document) (*entity.Lamp, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var l entity.Lamp
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
