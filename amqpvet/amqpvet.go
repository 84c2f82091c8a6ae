// Package amqpvet validates AMQP message bodies before they reach a
// consumer handler. The delivery's Type property selects the schema from
// a registry; messages without a registered schema pass through, so
// validation is opt-in per message type.
package amqpvet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	typevet "github.com/typevet/typevet-go"
)

// DeliveryHandler processes a single AMQP delivery.
type DeliveryHandler func(ctx context.Context, delivery amqp.Delivery) error

// Option configures the validating middleware.
type Option func(*validator)

// WithLogger sets the logger used for rejected deliveries.
func WithLogger(logger *slog.Logger) Option {
	return func(v *validator) {
		v.logger = logger
	}
}

// WithReject negatively acknowledges deliveries that fail validation,
// with the given requeue flag. Without it the middleware only returns
// the error and leaves acknowledgment to the caller's strategy.
func WithReject(requeue bool) Option {
	return func(v *validator) {
		v.reject = true
		v.requeue = requeue
	}
}

type validator struct {
	registry *typevet.Registry
	logger   *slog.Logger
	reject   bool
	requeue  bool
}

// Middleware wraps a delivery handler with body validation. The body must
// be a JSON object when the delivery's Type has a registered schema; a
// delivery with an empty Type skips validation entirely. A nil registry
// is replaced by an empty one, which lets every delivery through.
func Middleware(registry *typevet.Registry, next DeliveryHandler, opts ...Option) DeliveryHandler {
	if registry == nil {
		registry = typevet.NewRegistry(nil)
	}
	v := &validator{
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}

	return func(ctx context.Context, delivery amqp.Delivery) error {
		if delivery.Type == "" {
			return next(ctx, delivery)
		}

		var payload map[string]any
		if err := json.Unmarshal(delivery.Body, &payload); err != nil {
			v.fail(delivery, err)
			return fmt.Errorf("message body is not a JSON object: %w", err)
		}

		if err := v.registry.Validate(ctx, delivery.Type, payload); err != nil {
			v.fail(delivery, err)
			return fmt.Errorf("message validation failed: %w", err)
		}

		return next(ctx, delivery)
	}
}

func (v *validator) fail(delivery amqp.Delivery, err error) {
	v.logger.Warn("rejecting message",
		"messageType", delivery.Type,
		"messageId", delivery.MessageId,
		"error", err,
	)
	if v.reject {
		if nackErr := delivery.Nack(false, v.requeue); nackErr != nil {
			v.logger.Error("failed to nack message",
				"messageType", delivery.Type,
				"messageId", delivery.MessageId,
				"error", nackErr,
			)
		}
	}
}
