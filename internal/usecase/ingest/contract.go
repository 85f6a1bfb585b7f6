package ingest

import (
	"context"

	domrec "github.com/naga-cloud/mediadex/internal/domain/record"
)

// Repository defines the storage contract for records.
type Repository interface {
	Upsert(ctx context.Context, rec *domrec.Record) (created bool, err error)
}

// Stats receives counter updates for accepted records.
type Stats interface {
	Increment(name string)
}
