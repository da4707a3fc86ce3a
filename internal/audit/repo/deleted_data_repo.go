package repo

import (
	"context"
	"encoding/json"

	"github.com/lumenlab/lampcore/internal/audit/entity"
	"github.com/lumenlab/lampcore/pkg/document"
)

// DeletedDataRepo provides insert and list access for the deleted_datas
// collection. No update or delete is exposed; the collection is append-only.
type DeletedDataRepo struct {
	col *document.Collection
}

func NewDeletedDataRepo(store *document.Store) *DeletedDataRepo {
	return &DeletedDataRepo{col: store.Collection("deleted_datas")}
}

// Insert appends a tombstone and returns the generated identifier.
func (r *DeletedDataRepo) Insert(ctx context.Context, d *entity.DeletedData) (string, error) {
	return r.col.Insert(ctx, document.Document{
		"deleted_lamp_id": d.DeletedLampID,
		"deleted_by":      d.DeletedBy,
	})
}

// List returns every tombstone, oldest first.
func (r *DeletedDataRepo) List(ctx context.Context) ([]entity.DeletedData, error) {
	docs, err := r.col.FindAll(ctx, document.Document{})
	if err != nil {
		return nil, err
	}
	out := make([]entity.DeletedData, 0, len(docs))
	for _, doc := range docs {
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		var d entity.DeletedData
		if err := json.Unmarshal(b, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
