package postgres

import (
	"context"
	"fmt"

	"github.com/RaihanulHaque/rimu-world/internal/domain"
	"github.com/RaihanulHaque/rimu-world/pkg/database"
	apperrors "github.com/RaihanulHaque/rimu-world/pkg/errors"
)

// SequenceAllocator issues RW#### identifiers from a durable counter row.
// The counter only ever moves forward, so an identifier consumed by a failed
// creation is never reissued.
type SequenceAllocator struct {
	pool database.DBTX
}

// NewSequenceAllocator creates a counter-backed identifier allocator.
func NewSequenceAllocator(pool database.DBTX) *SequenceAllocator {
	return &SequenceAllocator{pool: pool}
}

// Next reserves and returns the next product identifier. Once the sequence
// passes its four-digit ceiling the allocator fails permanently.
func (a *SequenceAllocator) Next(ctx context.Context) (string, error) {
	query := `UPDATE product_sequence SET value = value + 1 WHERE name = 'product' RETURNING value`

	var seq int
	if err := a.pool.QueryRow(ctx, query).Scan(&seq); err != nil {
		return "", fmt.Errorf("advance product sequence: %w", err)
	}

	if seq > domain.MaxSequence {
		return "", apperrors.CapacityExceeded(domain.MaxSequence)
	}

	return domain.FormatID(seq), nil
}
