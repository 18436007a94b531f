package orders

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/tagdeck/backend/pkg/errors"
	"github.com/tagdeck/backend/pkg/gid"
	"github.com/tagdeck/backend/pkg/logger"
	"github.com/tagdeck/backend/pkg/pagination"
	"github.com/tagdeck/backend/pkg/shopify"

	"github.com/tagdeck/backend/internal/tags"
)

// tagPusher is the slice of the platform client this service needs.
type tagPusher interface {
	UpdateOrderTags(ctx context.Context, orderID, tagsWire string) (*shopify.UpdatedOrder, []shopify.UserError, error)
}

// Service exposes the order list, CSV export and the tag edit workflow.
type Service interface {
	ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error)
	ExportRows(ctx context.Context) ([][]string, error)

	OpenTagSession(ctx context.Context, orderID string) (tags.OptionList, error)
	TagOptions(ctx context.Context, orderID, query string) (tags.OptionList, error)
	ToggleTag(ctx context.Context, orderID, tag, query string) (tags.OptionList, error)
	CancelTagSession(ctx context.Context, orderID string)
	SaveTags(ctx context.Context, orderID string) (*SaveTagsResult, error)
}

type service struct {
	repo     Repository
	platform tagPusher
	sessions *tags.Registry
	log      *logger.Logger
}

// NewService wires the order service from its collaborators.
func NewService(repo Repository, platform tagPusher, sessions *tags.Registry, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		platform: platform,
		sessions: sessions,
		log:      log,
	}
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListOrders(ctx, params)
	if err != nil {
		if perr := pkgerrors.As(err); perr != nil {
			return nil, perr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return list, nil
}

// exportHeader is the fixed first row of the CSV export.
var exportHeader = []string{
	"order_id", "number", "created_at", "customer", "email",
	"total_price", "shipping_address", "tags", "payment_gateway",
}

// ExportRows flattens every mirrored order into CSV-ready rows, newest first,
// header row included.
func (s *service) ExportRows(ctx context.Context) ([][]string, error) {
	orders, err := s.repo.ListAllOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders for export")
	}

	rows := make([][]string, 0, len(orders)+1)
	rows = append(rows, exportHeader)
	for _, order := range orders {
		rows = append(rows, []string{
			order.ID,
			order.Number,
			order.CreatedAt.UTC().Format(time.RFC3339),
			order.Customer.FullName,
			order.Customer.Email,
			order.TotalPrice.StringFixed(2),
			order.ShippingAddress,
			order.Tags,
			order.PaymentGateway,
		})
	}
	return rows, nil
}

func (s *service) OpenTagSession(ctx context.Context, orderID string) (tags.OptionList, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tags.OptionList{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return tags.OptionList{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	session := s.sessions.Open(orderID, order.Tags)
	return session.OptionsFor(""), nil
}

func (s *service) TagOptions(ctx context.Context, orderID, query string) (tags.OptionList, error) {
	session := s.sessions.Get(orderID)
	if session == nil {
		return tags.OptionList{}, pkgerrors.New(pkgerrors.CodeNotFound, "no open tag session for this order")
	}
	return session.OptionsFor(query), nil
}

func (s *service) ToggleTag(ctx context.Context, orderID, tag, query string) (tags.OptionList, error) {
	session := s.sessions.Get(orderID)
	if session == nil {
		return tags.OptionList{}, pkgerrors.New(pkgerrors.CodeNotFound, "no open tag session for this order")
	}
	session.Toggle(tag)
	return session.OptionsFor(query), nil
}

func (s *service) CancelTagSession(ctx context.Context, orderID string) {
	s.sessions.Close(orderID)
}

// SaveTags pushes the session's working selection to the remote platform and,
// on confirmation, updates the local mirror and the session baseline. The
// remote response is authoritative for the persisted tag set.
func (s *service) SaveTags(ctx context.Context, orderID string) (*SaveTagsResult, error) {
	ctx = s.log.WithOrderID(ctx, orderID)

	session := s.sessions.Get(orderID)
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open tag session for this order")
	}

	wire, err := session.BeginSave()
	if err != nil {
		return nil, err
	}

	updated, userErrs, err := s.platform.UpdateOrderTags(ctx, orderID, wire)
	if err != nil {
		s.failSave(orderID)
		if perr := pkgerrors.As(err); perr != nil {
			return nil, perr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "push order tags")
	}
	if len(userErrs) > 0 {
		s.failSave(orderID)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "platform rejected the tag update").
			WithDetails(userErrs)
	}

	persistedID := gid.ExtractID(updated.ID)
	tagsWire := tags.Join(updated.Tags)

	// The mirror is best effort here: the remote save already succeeded, and
	// the next order webhook carries the same tags anyway.
	if err := s.repo.UpdateOrderTags(ctx, persistedID, tagsWire); err != nil {
		s.log.Error(ctx, "update local tag mirror after save", err)
	}

	if !s.sessions.ApplyPersisted(persistedID, updated.Tags) {
		s.log.Warn(ctx, "dropping save response for closed tag session")
		// If the response gid did not map back to the order we saved, the
		// original session never saw the completion. Return it to editing so
		// the operator is not stuck behind a permanent in-flight save.
		if persistedID != orderID {
			s.failSave(orderID)
		}
	}

	return &SaveTagsResult{
		OrderID: persistedID,
		Tags:    tagsWire,
		TagList: updated.Tags,
	}, nil
}

// failSave returns an order's session to editing, if it is still open.
func (s *service) failSave(orderID string) {
	if session := s.sessions.Get(orderID); session != nil {
		session.FailSave()
	}
}
