package repository

import "gorm.io/gorm"

type Repository struct {
	DB *gorm.DB

	// Transactor, when set, handles WithTx instead of gorm. In-memory test
	// repositories install one that snapshots their stores and restores
	// them when fn fails, mirroring a database rollback.
	Transactor func(fn func(tx *Repository) error) error

	Users        UserRepo
	Products     ProductRepo
	ProductLines ProductLineRepo
	Suppliers    SupplierRepo
	Stock        StockRepo
	Movements    MovementRepo
	Carts        CartRepo
	Orders       OrderRepo
	OrderLns     OrderLineRepo
	Purchases    PurchaseRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:           db,
		Users:        NewUserRepo(db),
		Products:     NewProductRepo(db),
		ProductLines: NewProductLineRepo(db),
		Suppliers:    NewSupplierRepo(db),
		Stock:        NewStockRepo(db),
		Movements:    NewMovementRepo(db),
		Carts:        NewCartRepo(db),
		Orders:       NewOrderRepo(db),
		OrderLns:     NewOrderLineRepo(db),
		Purchases:    NewPurchaseRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a repository set bound to one database transaction.
// A repository assembled without a DB handle runs fn through its Transactor,
// or directly against its own stores when none is installed.
func (r *Repository) WithTx(fn func(tx *Repository) error) error {
	if r.Transactor != nil {
		return r.Transactor(fn)
	}
	if r.DB == nil {
		return fn(r)
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
