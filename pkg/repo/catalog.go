package repo

import "context"

// CourseCatalog answers whether a course/batch pair is currently active.
type CourseCatalog interface {
	IsActive(ctx context.Context, courseID string, batchID string) (bool, error)
}
