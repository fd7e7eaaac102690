package service

import (
	"context"

	"github.com/coach-video-admin/internal/models"
)

// FailurePolicy decides what a bulk operation does when one item fails
type FailurePolicy int

const (
	// AbortOnFirstError stops at the first failing item. Items already written stay written.
	AbortOnFirstError FailurePolicy = iota
	// ContinueOnItemError attempts every item and collects the failures
	ContinueOnItemError
)

func (p FailurePolicy) String() string {
	switch p {
	case AbortOnFirstError:
		return "abort_on_first_error"
	case ContinueOnItemError:
		return "continue_on_item_error"
	default:
		return "unknown"
	}
}

// runBatch applies fn to each item in order
func runBatch(ctx context.Context, items []string, policy FailurePolicy, fn func(context.Context, string) error) ([]string, []models.ItemError, error) {
	var (
		succeeded []string
		failures  []models.ItemError
	)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return succeeded, failures, err
		}

		if err := fn(ctx, item); err != nil {
			if policy == AbortOnFirstError {
				return succeeded, failures, err
			}
			failures = append(failures, models.ItemError{Item: item, Message: err.Error()})
			continue
		}
		succeeded = append(succeeded, item)
	}

	return succeeded, failures, nil
}

// itemErrors converts per-item failures into ledger errors
func itemErrors(field string, failures []models.ItemError, lines map[string]int) []models.ValidationError {
	errs := make([]models.ValidationError, 0, len(failures))
	for _, f := range failures {
		errs = append(errs, models.ValidationError{
			Line:    lines[f.Item],
			Field:   field,
			Message: f.Message,
			Value:   f.Item,
		})
	}
	return errs
}
