package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/tagdeck/backend/pkg/db/models"
	"github.com/tagdeck/backend/pkg/pagination"
)

// Repository defines persistence operations for the order/customer mirror.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	FindOrder(ctx context.Context, id string) (*models.Order, error)
	UpsertCustomer(ctx context.Context, customer *models.Customer) error
	UpsertOrder(ctx context.Context, order *models.Order) error
	UpdateOrderTags(ctx context.Context, id, tagsWire string) error
}
