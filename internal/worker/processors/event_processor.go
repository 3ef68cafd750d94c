package processors

import (
	"context"

	"curator/internal/config"
	"curator/internal/database"
	"curator/internal/events"
	"curator/internal/logger"
	"curator/internal/worker/processors/validation"
)

type EventProcessor struct {
	config    *config.Config
	logger    *logger.Logger
	validator *validation.Validator
}

func NewEventProcessor(cfg *config.Config, log *logger.Logger, db *database.Database) *EventProcessor {
	return &EventProcessor{
		config:    cfg,
		logger:    log,
		validator: validation.New(log, db),
	}
}

func (ep *EventProcessor) Process(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TypeVariantGenerated, events.TypeVariantCreated, events.TypeVariantUpdated:
		variantID, _ := event.Data["variant_id"].(string)
		return ep.validator.ValidateVariant(ctx, event.ProductID, variantID)
	case events.TypeVariantDeleted:
		// nothing to re-check once the variant is gone
		return nil
	default:
		ep.logger.Debug("Ignoring event type %s", event.Type)
		return nil
	}
}
