package migrate

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shopstock/internal/models"
)

type Options struct {
	CreateExtensions       bool // pgcrypto for gen_random_uuid
	CreateChecks           bool
	CreateIndexes          bool
	CreateFKsViaSQL        bool
	CreateUpdatedAtTrigger bool
}

func DefaultOptions() Options {
	return Options{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger, opt Options) error {
	log.Info("starting database migration")
	db = db.WithContext(ctx)

	if opt.CreateExtensions {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("pgcrypto error", zap.Error(err))
			return err
		}
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.ProductLine{},
		&models.Product{},
		&models.StockRecord{},
		&models.StockMovement{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
		&models.Supplier{},
		&models.Purchase{},
		&models.PurchaseItem{},
	); err != nil {
		log.Error("automigrate error", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_stock_records_updated ON stock_records;
CREATE TRIGGER trg_stock_records_updated BEFORE UPDATE ON stock_records
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_carts_updated ON carts;
CREATE TRIGGER trg_carts_updated BEFORE UPDATE ON carts
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("triggers error", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		checks := []string{
			`ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_price_non_negative,
	ADD CONSTRAINT chk_products_price_non_negative
	CHECK (price >= 0)`,
			`ALTER TABLE cart_lines
	DROP CONSTRAINT IF EXISTS chk_cart_lines_quantity_gt_zero,
	ADD CONSTRAINT chk_cart_lines_quantity_gt_zero
	CHECK (quantity > 0)`,
			`ALTER TABLE order_lines
	DROP CONSTRAINT IF EXISTS chk_order_lines_quantity_gt_zero,
	ADD CONSTRAINT chk_order_lines_quantity_gt_zero
	CHECK (quantity > 0)`,
			`ALTER TABLE purchase_items
	DROP CONSTRAINT IF EXISTS chk_purchase_items_quantity_gt_zero,
	ADD CONSTRAINT chk_purchase_items_quantity_gt_zero
	CHECK (quantity > 0)`,
			`ALTER TABLE stock_movements
	DROP CONSTRAINT IF EXISTS chk_stock_movements_delta_non_zero,
	ADD CONSTRAINT chk_stock_movements_delta_non_zero
	CHECK (delta <> 0)`,
			`ALTER TABLE stock_movements
	DROP CONSTRAINT IF EXISTS chk_stock_movements_kind_allowed,
	ADD CONSTRAINT chk_stock_movements_kind_allowed
	CHECK (kind IN ('PURCHASE','SALE','ADJUSTMENT','RETURN'))`,
			`ALTER TABLE carts
	DROP CONSTRAINT IF EXISTS chk_carts_state_allowed,
	ADD CONSTRAINT chk_carts_state_allowed
	CHECK (state IN ('ACTIVE','COMPLETED'))`,
			`ALTER TABLE orders
	DROP CONSTRAINT IF EXISTS chk_orders_state_allowed,
	ADD CONSTRAINT chk_orders_state_allowed
	CHECK (state IN ('PENDING','CONFIRMED','CANCELLED'))`,
			`ALTER TABLE purchases
	DROP CONSTRAINT IF EXISTS chk_purchases_state_allowed,
	ADD CONSTRAINT chk_purchases_state_allowed
	CHECK (state IN ('DRAFT','RECEIVED','CANCELLED'))`,
		}
		for _, stmt := range checks {
			if err := db.Exec(stmt).Error; err != nil {
				log.Error("check constraint error", zap.Error(err))
				return err
			}
		}
	}

	if opt.CreateIndexes {
		// One ACTIVE cart per user; completed carts accumulate freely.
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_carts_user_active
ON carts (user_id) WHERE state = 'ACTIVE';
`).Error; err != nil {
			log.Error("ux carts user_active", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_products_sku
ON products (lower(sku));
`).Error; err != nil {
			log.Error("ux products sku", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_stock_records_quantity
ON stock_records (quantity);
`).Error; err != nil {
			log.Error("ix stock_records quantity", zap.Error(err))
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		fks := []string{
			`ALTER TABLE stock_records
  DROP CONSTRAINT IF EXISTS fk_stock_records_product,
  ADD CONSTRAINT fk_stock_records_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE`,
			`ALTER TABLE stock_movements
  DROP CONSTRAINT IF EXISTS fk_stock_movements_product,
  ADD CONSTRAINT fk_stock_movements_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT`,
			`ALTER TABLE cart_lines
  DROP CONSTRAINT IF EXISTS fk_cart_lines_cart,
  ADD CONSTRAINT fk_cart_lines_cart
    FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE`,
			`ALTER TABLE order_lines
  DROP CONSTRAINT IF EXISTS fk_order_lines_order,
  ADD CONSTRAINT fk_order_lines_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE RESTRICT`,
			`ALTER TABLE purchase_items
  DROP CONSTRAINT IF EXISTS fk_purchase_items_purchase,
  ADD CONSTRAINT fk_purchase_items_purchase
    FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE`,
			`ALTER TABLE purchases
  DROP CONSTRAINT IF EXISTS fk_purchases_supplier,
  ADD CONSTRAINT fk_purchases_supplier
    FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE RESTRICT`,
		}
		for _, stmt := range fks {
			if err := db.Exec(stmt).Error; err != nil {
				log.Error("foreign key error", zap.Error(err))
				return err
			}
		}
	}

	log.Info("database migration finished")
	return nil
}
