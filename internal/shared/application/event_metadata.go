package application

import (
	"context"

	"github.com/felixgeelhaar/daylog/internal/shared/domain"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

// NewEventMetadata scopes events to owner. The correlation id comes from
// ctx, or is generated when ctx has none.
func NewEventMetadata(ctx context.Context, owner string) domain.EventMetadata {
	correlationID := observability.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = domain.NewID().String()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		Owner:         owner,
	}
}
