package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/porter/ports"
)

const (
	// SignOutTopic carries sign-out notifications for other instances
	SignOutTopic = "porter.auth.signout"

	// TokenMirrorTopic carries access tokens for the on-chain mirror worker
	TokenMirrorTopic = "porter.mirror.token"

	// UsernameChangedTopic carries username changes for the on-chain mirror worker
	UsernameChangedTopic = "porter.mirror.username"
)

// SignOutEvent represents a sign-out event
type SignOutEvent struct {
	Address string `json:"address"`
}

// TokenMirrorEvent asks the mirror worker to push a token on chain
type TokenMirrorEvent struct {
	Address string `json:"address"`
	Token   string `json:"token"`
}

// UsernameChangedEvent announces a username change
type UsernameChangedEvent struct {
	Address  string `json:"address"`
	Username string `json:"username"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishSignOut publishes a sign-out event
func (p *WatermillPublisher) PublishSignOut(ctx context.Context, address string) error {
	return p.publish(SignOutTopic, SignOutEvent{Address: address})
}

// PublishTokenMirror publishes a token mirror event
func (p *WatermillPublisher) PublishTokenMirror(ctx context.Context, address, token string) error {
	return p.publish(TokenMirrorTopic, TokenMirrorEvent{Address: address, Token: token})
}

// PublishUsernameChanged publishes a username-changed event
func (p *WatermillPublisher) PublishUsernameChanged(ctx context.Context, address, username string) error {
	return p.publish(UsernameChangedTopic, UsernameChangedEvent{Address: address, Username: username})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
