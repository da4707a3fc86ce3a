package audit

import (
	"context"

	"github.com/lumenlab/lampcore/internal/audit/entity"
	"github.com/lumenlab/lampcore/internal/user"
	"github.com/lumenlab/lampcore/pkg/utilities"
)

// Repository is the data access surface AuditService depends on.
type Repository interface {
	Insert(ctx context.Context, d *entity.DeletedData) (string, error)
	List(ctx context.Context) ([]entity.DeletedData, error)
}

// AuditService records deletion tombstones and lists them for authorized
// actors.
type AuditService struct {
	repo  Repository
	users user.Directory
}

func NewAuditService(repo Repository, users user.Directory) *AuditService {
	return &AuditService{repo: repo, users: users}
}

// RecordDeletion appends a tombstone for a lamp removal. Called by the lamp
// service before the lamp record is removed.
func (s *AuditService) RecordDeletion(ctx context.Context, lampID, actorID string) error {
	_, err := s.repo.Insert(ctx, &entity.DeletedData{
		DeletedLampID: lampID,
		DeletedBy:     actorID,
	})
	return err
}

// ListAll returns every tombstone with its identifiers opaque-encoded for
// transport. A non-resolving actor gets the invalid-id error, never an empty
// list.
func (s *AuditService) ListAll(ctx context.Context, actorToken string) ([]entity.DeletedData, error) {
	if _, err := user.ResolveActor(ctx, s.users, actorToken); err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].ID = utilities.EncodeID(records[i].ID)
		records[i].DeletedLampID = utilities.EncodeID(records[i].DeletedLampID)
		records[i].DeletedBy = utilities.EncodeID(records[i].DeletedBy)
	}
	return records, nil
}
