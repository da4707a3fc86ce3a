package lamp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumenlab/lampcore/internal/lamp/entity"
	"github.com/lumenlab/lampcore/internal/user"
	"github.com/lumenlab/lampcore/internal/web"
	"github.com/lumenlab/lampcore/pkg/document"
	"github.com/lumenlab/lampcore/pkg/utilities"
)

// Repository is the data access surface LampService depends on.
type Repository interface {
	GetByLed(ctx context.Context, led int64) (*entity.Lamp, error)
	GetByID(ctx context.Context, id string) (*entity.Lamp, error)
	List(ctx context.Context) ([]entity.Lamp, error)
	Create(ctx context.Context, l *entity.Lamp) (string, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// DeletionRecorder writes the audit tombstone for a lamp removal.
type DeletionRecorder interface {
	RecordDeletion(ctx context.Context, lampID, actorID string) error
}

// QRWriter renders a QR token to an image file.
type QRWriter interface {
	Write(content, path string) error
}

// hexColour matches #RGB or #RRGGBB, case-insensitive.
var hexColour = regexp.MustCompile(`^#(?i:[0-9a-f]{6}|[0-9a-f]{3})$`)

var updatableFields = []string{"status", "intensity", "colour"}

// LampService handles the lamp lifecycle. Every operation is gated on the
// actor token resolving to an existing user.
type LampService struct {
	repo      Repository
	users     user.Directory
	audit     DeletionRecorder
	qr        QRWriter
	imagesDir string
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewLampService(repo Repository, users user.Directory, audit DeletionRecorder, qr QRWriter, imagesDir string, logger *zap.SugaredLogger) *LampService {
	return &LampService{
		repo:      repo,
		users:     users,
		audit:     audit,
		qr:        qr,
		imagesDir: imagesDir,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateInput carries the lamp creation fields. Required-key presence is
// checked at the handler against the raw body.
type CreateInput struct {
	Led       int64  `json:"led"`
	Status    string `json:"status"`
	Intensity int    `json:"intensity"`
	Colour    string `json:"colour"`
}

// Create registers a new lamp. Preconditions run before the QR image is
// written so a rejected request leaves no file behind.
func (s *LampService) Create(ctx context.Context, actorToken string, in CreateInput) (string, error) {
	actorID, err := user.ResolveActor(ctx, s.users, actorToken)
	if err != nil {
		return "", err
	}
	if !hexColour.MatchString(in.Colour) {
		return "", web.BadRequest("Invalid hex code.")
	}
	if _, err := s.repo.GetByLed(ctx, in.Led); err == nil {
		return "", web.Conflict("LED has been registered. Please enter another number.")
	} else if !errors.Is(err, document.ErrNoDocument) {
		return "", err
	}

	qrID := strings.ReplaceAll(uuid.NewString(), "-", "")
	imagePath := filepath.Join(s.imagesDir, "LampQR_"+qrID+".png")
	if err := s.qr.Write(qrID, imagePath); err != nil {
		return "", err
	}

	now := s.now().Format(time.RFC3339)
	id, err := s.repo.Create(ctx, &entity.Lamp{
		Led:         in.Led,
		Status:      in.Status,
		Intensity:   in.Intensity,
		Colour:      in.Colour,
		QRID:        qrID,
		QRImagePath: imagePath,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if errors.Is(err, document.ErrDuplicateKey) {
		// a concurrent create won the led; same conflict as the pre-check
		return "", web.Conflict("LED has been registered. Please enter another number.")
	}
	return id, err
}

// List returns every lamp with its identifiers opaque-encoded for transport.
func (s *LampService) List(ctx context.Context, actorToken string) ([]entity.Lamp, error) {
	if _, err := user.ResolveActor(ctx, s.users, actorToken); err != nil {
		return nil, err
	}
	lamps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lamps {
		encodeLampIDs(&lamps[i])
	}
	return lamps, nil
}

// Get returns one lamp with its identifiers opaque-encoded for transport.
func (s *LampService) Get(ctx context.Context, actorToken, lampToken string) (*entity.Lamp, error) {
	if _, err := user.ResolveActor(ctx, s.users, actorToken); err != nil {
		return nil, err
	}
	lamp, _, err := s.resolveLamp(ctx, lampToken)
	if err != nil {
		return nil, err
	}
	encodeLampIDs(lamp)
	return lamp, nil
}

// UpdateInput carries the optional partial-update fields; nil means the
// caller omitted the field.
type UpdateInput struct {
	Status    *string `json:"status"`
	Intensity *int    `json:"intensity"`
	Colour    *string `json:"colour"`
}

// Update applies a partial update. A colour-format error aborts the whole
// update; nothing is persisted. Any successful update refreshes
// updated_at/updated_by.
func (s *LampService) Update(ctx context.Context, actorToken, lampToken string, in UpdateInput) error {
	actorID, err := user.ResolveActor(ctx, s.users, actorToken)
	if err != nil {
		return err
	}
	_, lampID, err := s.resolveLamp(ctx, lampToken)
	if err != nil {
		return err
	}
	if in.Status == nil && in.Intensity == nil && in.Colour == nil {
		return web.BadRequestWith("At least one required field is missing.",
			map[string]any{"requiredFields": updatableFields})
	}

	fields := map[string]any{}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Intensity != nil {
		fields["intensity"] = *in.Intensity
	}
	if in.Colour != nil {
		if !hexColour.MatchString(*in.Colour) {
			return web.BadRequest("Invalid hex code.")
		}
		fields["colour"] = *in.Colour
	}
	fields["updated_at"] = s.now().Format(time.RFC3339)
	fields["updated_by"] = actorID
	return s.repo.UpdateFields(ctx, lampID, fields)
}

// Delete removes a lamp. The QR image cleanup is advisory; the tombstone
// write must complete before the record removal begins so a removed lamp is
// never missing its audit trail.
func (s *LampService) Delete(ctx context.Context, actorToken, lampToken string) error {
	actorID, err := user.ResolveActor(ctx, s.users, actorToken)
	if err != nil {
		return err
	}
	lamp, lampID, err := s.resolveLamp(ctx, lampToken)
	if err != nil {
		return err
	}

	if lamp.QRImagePath != "" {
		if _, statErr := os.Stat(lamp.QRImagePath); statErr == nil {
			if rmErr := os.Remove(lamp.QRImagePath); rmErr != nil {
				s.logger.Warnw("qr image cleanup failed", "path", lamp.QRImagePath, "err", rmErr)
			}
		}
	}

	if err := s.audit.RecordDeletion(ctx, lampID, actorID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, lampID)
}

// resolveLamp decodes a lamp token and loads the record. A malformed token
// and a missing record surface as the same not-found error.
func (s *LampService) resolveLamp(ctx context.Context, token string) (*entity.Lamp, string, error) {
	id, err := utilities.DecodeID(token)
	if err != nil {
		return nil, "", web.NotFound("Lamp not found.")
	}
	lamp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, document.ErrNoDocument) {
			return nil, "", web.NotFound("Lamp not found.")
		}
		return nil, "", err
	}
	return lamp, id, nil
}

func encodeLampIDs(l *entity.Lamp) {
	l.ID = utilities.EncodeID(l.ID)
	l.CreatedBy = utilities.EncodeID(l.CreatedBy)
	l.UpdatedBy = utilities.EncodeID(l.UpdatedBy)
}
