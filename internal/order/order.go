package order

import (
	checkoutmodel "github.com/dhakamart/commerce/internal/core/datamodel/checkout"
	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
)

// RepositoryAPI persists orders. Upsert must be create-or-overwrite keyed by
// the order id so a replayed gateway callback cannot append a second row.
type RepositoryAPI interface {
	Upsert(o *ordermodel.Order) error
	GetByID(id string) (*ordermodel.Order, error)
	List() ([]*ordermodel.Order, error)
	UpdateStatus(id, status string) error
}

type ServiceAPI interface {
	Materialize(session *checkoutmodel.Session, details ordermodel.PaymentDetails) (*ordermodel.Order, error)
	Get(id string) (*ordermodel.Order, error)
	List() ([]*ordermodel.Order, error)
	UpdateStatus(id string, dto UpdateStatusDTO) (*ordermodel.Order, error)
}
