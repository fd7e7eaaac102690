package service

import (
	"errors"
	"fmt"

	"github.com/coach-video-admin/internal/repository"
)

// ErrUpstream marks failures of the directory, document store or object store.
// Callers test for it with errors.Is.
var ErrUpstream = errors.New("upstream service error")

// ErrNotFound is returned when a request names a video that does not exist
var ErrNotFound = repository.ErrNotFound

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}
