// Package rollnumber hands out per-owner sequential roll numbers.
//
// Allocation reads the owner's current numbers and inserts max+1. Two
// concurrent creators can read the same max; the (owner, roll number) unique
// index rejects the loser, which then re-reads and tries again.
package rollnumber

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

const DefaultMaxAttempts = 5

var ErrAllocationExhausted = errors.New("roll number allocation kept conflicting, please retry")

// Next returns max(existing)+1, or 1 for an owner without records.
func Next(existing []int) int {
	max := 0
	for _, n := range existing {
		if n > max {
			max = n
		}
	}
	return max + 1
}

// Source lists the roll numbers an owner currently uses.
type Source interface {
	RollNumbers(ctx context.Context, ownerID uuid.UUID) ([]int, error)
}

type Options struct {
	MaxAttempts int
	// IsConflict decides whether an insert error is a uniqueness collision worth retrying.
	IsConflict func(error) bool
}

// Allocate runs read → insert until insert succeeds, fails for a reason other
// than a conflict, or MaxAttempts is used up. It returns the roll number that
// was stored.
func Allocate(ctx context.Context, src Source, ownerID uuid.UUID, insert func(roll int) error, opt Options) (int, error) {
	attempts := opt.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	isConflict := opt.IsConflict
	if isConflict == nil {
		isConflict = func(error) bool { return false }
	}

	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		existing, err := src.RollNumbers(ctx, ownerID)
		if err != nil {
			return 0, err
		}
		roll := Next(existing)

		err = insert(roll)
		if err == nil {
			return roll, nil
		}
		if !isConflict(err) {
			return 0, err
		}
		log.Printf("[WARN] roll number %d taken for owner=%s (attempt %d/%d), retrying", roll, ownerID, i, attempts)
	}
	return 0, ErrAllocationExhausted
}
