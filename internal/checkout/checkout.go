package checkout

import (
	checkoutmodel "github.com/dhakamart/commerce/internal/core/datamodel/checkout"
)

// RepositoryAPI persists checkout sessions. Consume must be conditional on
// the session being unconsumed so replayed callbacks cannot double-spend it.
type RepositoryAPI interface {
	Create(s *checkoutmodel.Session) error
	GetByOrderID(orderID string) (*checkoutmodel.Session, error)
	Consume(orderID string) (*checkoutmodel.Session, error)
}

type ServiceAPI interface {
	Begin(dto BeginCheckoutDTO) (*checkoutmodel.Session, error)
	Get(orderID string) (*checkoutmodel.Session, error)
	Consume(orderID string) (*checkoutmodel.Session, error)
}
