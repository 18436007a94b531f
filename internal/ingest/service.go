package ingest

import (
	"context"

	"gorm.io/gorm"

	"github.com/tagdeck/backend/internal/orders"
	"github.com/tagdeck/backend/pkg/db"
	"github.com/tagdeck/backend/pkg/db/models"
	pkgerrors "github.com/tagdeck/backend/pkg/errors"
	"github.com/tagdeck/backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service applies normalized order webhooks to the local mirror.
type Service interface {
	ApplyOrderWebhook(ctx context.Context, payload *NormalizedPayload) error
}

type service struct {
	tx   txRunner
	repo orders.Repository
	log  *logger.Logger
}

func NewService(tx txRunner, repo orders.Repository, log *logger.Logger) Service {
	return &service{tx: tx, repo: repo, log: log}
}

// ApplyOrderWebhook upserts the payload's customer and order in a single
// transaction, customer first so the order's FK is satisfied. Re-applying the
// same payload overwrites the same rows, so redelivery is harmless. Any
// failure rolls back both writes and surfaces as a dependency error, which
// the HTTP layer turns into a 5xx so the platform redelivers.
func (s *service) ApplyOrderWebhook(ctx context.Context, payload *NormalizedPayload) error {
	if payload == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "normalized payload required")
	}
	ctx = s.log.WithOrderID(ctx, payload.OrderID)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer := &models.Customer{
			ID:       payload.CustomerID,
			FullName: payload.CustomerName,
			Email:    payload.CustomerEmail,
		}
		if err := repo.UpsertCustomer(ctx, customer); err != nil {
			return err
		}

		order := &models.Order{
			ID:              payload.OrderID,
			Number:          payload.OrderNumber,
			CustomerID:      payload.CustomerID,
			TotalPrice:      payload.TotalPrice,
			ShippingAddress: payload.ShippingAddress,
			Tags:            payload.Tags,
			PaymentGateway:  payload.PaymentGateway,
		}
		return repo.UpsertOrder(ctx, order)
	})
	if err != nil {
		werr := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ingest order webhook")
		if db.IsForeignKeyViolation(err) || db.IsUniqueViolation(err, "") {
			werr = werr.WithDetails(map[string]any{"constraint_violation": true})
		}
		return werr
	}

	s.log.Info(ctx, "order webhook applied")
	return nil
}
