package preference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cardfolio/dashboard-sync/internal/config"
	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	domain "github.com/cardfolio/dashboard-sync/internal/domain/preference"
)

// Repository defines persistence operations for the timezone preference.
type Repository interface {
	Load(ctx context.Context) (*domain.Preference, error)
	Save(ctx context.Context, preference *domain.Preference) error
}

// Field names of the persisted document.
const (
	fieldTimezone  = "timezone"
	fieldUpdatedAt = "updated_at"
	fieldUpdatedBy = "updated_by"
	fieldHostname  = "hostname"
	fieldUsername  = "username"
)

// FileRepository persists the preference to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON preference file.
	path string
	// mu protects concurrent access to the file.
	mu sync.Mutex
}

// ErrNotFound is returned when the preference file does not exist yet.
var ErrNotFound = errors.New("preference not found")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the location of the preference file.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the preference from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.Preference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read preference file: %w", err)
	}

	var document structpb.Struct
	if err = protojson.Unmarshal(contents, &document); err != nil {
		return nil, fmt.Errorf("decode preference file: %w", err)
	}

	return fromStruct(&document)
}

// Save writes the preference to disk. The file is replaced atomically so a
// concurrent reader never sees a partial document.
func (r *FileRepository) Save(_ context.Context, preference *domain.Preference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := toStruct(preference)
	if err != nil {
		return fmt.Errorf("encode preference: %w", err)
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline:       true,
		EmitUnpopulated: true,
	}

	data, err := marshalOptions.Marshal(document)
	if err != nil {
		return fmt.Errorf("encode preference: %w", err)
	}

	tmp := r.path + ".tmp"
	if err = os.WriteFile(tmp, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write preference file: %w", err)
	}

	if err = os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace preference file: %w", err)
	}

	return nil
}

// fromStruct converts the persisted document into the domain Preference.
func fromStruct(document *structpb.Struct) (*domain.Preference, error) {
	fields := document.GetFields()
	preference := &domain.Preference{
		Timezone: calendar.Timezone(fields[fieldTimezone].GetStringValue()),
	}

	if raw := fields[fieldUpdatedAt].GetStringValue(); raw != "" {
		updatedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", fieldUpdatedAt, err)
		}

		preference.UpdatedAt = updatedAt
	}

	if actor := fields[fieldUpdatedBy].GetStructValue(); actor != nil {
		preference.UpdatedBy = &domain.Actor{
			Hostname: actor.GetFields()[fieldHostname].GetStringValue(),
			Username: actor.GetFields()[fieldUsername].GetStringValue(),
		}
	}

	return preference, nil
}

// toStruct converts the domain Preference into the persisted document.
func toStruct(preference *domain.Preference) (*structpb.Struct, error) {
	fields := map[string]any{
		fieldTimezone: preference.Timezone.String(),
	}

	if !preference.UpdatedAt.IsZero() {
		fields[fieldUpdatedAt] = preference.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	if preference.UpdatedBy != nil {
		fields[fieldUpdatedBy] = map[string]any{
			fieldHostname: preference.UpdatedBy.Hostname,
			fieldUsername: preference.UpdatedBy.Username,
		}
	}

	return structpb.NewStruct(fields)
}
