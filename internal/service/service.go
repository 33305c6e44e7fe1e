package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/actor"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/repository"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/outbox"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/ptr"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
)

// actingUser returns the authenticated user of ctx.
func actingUser(ctx context.Context) (uuid.UUID, error) {
	userID, ok := actor.FromContext(ctx)
	if !ok {
		return uuid.Nil, apperr.UnauthorizedErr
	}
	return userID, nil
}

func validate(v validator.Validator, s any) error {
	if err := v.Validate(s); err != nil {
		if validator.IsValidationError(err) {
			return apperr.ValidationErr.WrapParent(err)
		}
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// outboxMsg encodes ev for topic, keyed so that all events of one product
// land on the same partition.
func outboxMsg(ctx context.Context, topic string, key uuid.UUID, ev any) (repository.CreateOutboxMsgParams, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return repository.CreateOutboxMsgParams{}, fmt.Errorf("marshal %s event: %w", topic, err)
	}

	return repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: ptr.New(key.String()),
	}, nil
}
