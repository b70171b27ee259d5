package ports

import "context"

// EventPublisher notifies external consumers, including the on-chain
// mirror worker. Publishes are fire-and-forget from the caller's point of
// view: failures are logged, never surfaced to the client.
type EventPublisher interface {
	PublishSignOut(ctx context.Context, address string) error
	PublishTokenMirror(ctx context.Context, address, token string) error
	PublishUsernameChanged(ctx context.Context, address, username string) error
}
