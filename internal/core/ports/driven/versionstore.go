package driven

import (
	"context"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

// VersionStore persists document versions. Versions are append-only:
// there is no update or delete.
type VersionStore interface {
	// SaveVersion appends a new version. It must return
	// domain.ErrVersionConflict if a version with the same project and
	// number already exists (concurrent creation).
	SaveVersion(ctx context.Context, version domain.DocumentVersion) error

	// GetLatestVersion returns the highest-numbered version for a
	// project, or domain.ErrNotFound if the project has none.
	GetLatestVersion(ctx context.Context, projectID string) (*domain.DocumentVersion, error)

	// GetVersion returns one specific version.
	GetVersion(ctx context.Context, projectID string, number int) (*domain.DocumentVersion, error)

	// ListVersions returns all versions for a project, oldest first.
	ListVersions(ctx context.Context, projectID string) ([]domain.DocumentVersion, error)
}
