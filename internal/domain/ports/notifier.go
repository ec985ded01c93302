package ports

import (
	"context"

	"build-notifier/internal/domain/model"
)

// Dispatcher delivers a composed message to a stream/topic of the messaging server.
// Implementations send at most once and do not retry.
type Dispatcher interface {
	Send(ctx context.Context, creds model.ZulipCredentials, msg model.Message) error
}
