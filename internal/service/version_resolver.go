package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

type defaultVersionFinder interface {
	FindDefault(ctx context.Context) (*models.ScheduleVersion, error)
}

// VersionResolver picks the schedule version a request operates on.
type VersionResolver struct {
	repo defaultVersionFinder
}

// NewVersionResolver constructs a resolver.
func NewVersionResolver(repo defaultVersionFinder) *VersionResolver {
	return &VersionResolver{repo: repo}
}

// Resolve returns requested unchanged when set. Otherwise it returns the active
// version, then the lowest id, then models.DefaultVersionID for an empty store.
// An explicit id is not checked for existence.
func (r *VersionResolver) Resolve(ctx context.Context, requested *int64) (int64, error) {
	if requested != nil {
		return *requested, nil
	}
	version, err := r.repo.FindDefault(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultVersionID, nil
		}
		return 0, appErrors.Internal(err, "failed to resolve schedule version")
	}
	return version.ID, nil
}
