package stage

import (
	"context"

	"comicvault/internal/collection"
)

// Handler describes the contract the run loop needs from each stage.
//
// Process handles one record and queues its writes on batch. Per-record
// failures are recorded on the record itself; a returned error aborts the run.
type Handler interface {
	Process(ctx context.Context, batch *collection.Batch, rec collection.Record) error
	HealthCheck(context.Context) Health
}
