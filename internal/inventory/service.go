package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"inventory-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrProductNotFound = errors.New("product not found")
	ErrStockNotFound   = errors.New("stock not found")
	ErrUpstream        = errors.New("storage failure")
	ErrConflict        = errors.New("stock changed concurrently")
)

// LowStockAlert carries everything the notifier needs to render the message.
type LowStockAlert struct {
	To        string
	Product   string
	SKU       string
	Category  string
	Quantity  int
	Threshold int
}

type Notifier interface {
	SendLowStockAlert(ctx context.Context, alert LowStockAlert) error
}

type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Adjustment is one requested stock change. ProductID targets an existing
// product directly; otherwise SKU is used to resolve it, and Name/Category/
// Brand describe the product to create when the SKU is unknown.
type Adjustment struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	Category  string
	Brand     string
	Qty       int
	Type      models.StockLogType
	Source    string
}

type AdjustResult struct {
	Outcome  Outcome
	Product  models.Product
	Quantity int
}

// Service implements the stock adjustment workflow: resolve product, compute
// the new quantity, persist it, append the audit log and evaluate the
// low-stock alert. Quantities never go negative; an OUT larger than the
// available stock floors the quantity at zero while the log keeps the
// requested qty.
type Service struct {
	db        *gorm.DB
	notifier  Notifier
	threshold int
	log       *slog.Logger
}

func NewService(db *gorm.DB, notifier Notifier, threshold int, log *slog.Logger) *Service {
	return &Service{
		db:        db,
		notifier:  notifier,
		threshold: threshold,
		log:       log,
	}
}

// Adjust applies an IN/OUT change to an existing product owned by userID.
// The product is resolved by id when set, by SKU otherwise.
func (s *Service) Adjust(ctx context.Context, userID uint, userEmail string, in Adjustment) (*AdjustResult, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	switch {
	case in.ProductID != uuid.Nil:
		q = q.Where("id = ?", in.ProductID)
	case in.SKU != "":
		q = q.Where("sku = ?", in.SKU)
	default:
		return nil, fmt.Errorf("%w: product_id or sku is required", ErrValidation)
	}

	var product models.Product
	if err := q.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, upstreamErr("load product", err)
	}

	return s.adjustExisting(ctx, product, userEmail, in)
}

// Upsert resolves the caller's product by SKU and adjusts its stock, creating
// the product (with its initial stock and log row) when the SKU is unknown.
// A blank SKU always creates a new product.
func (s *Service) Upsert(ctx context.Context, userID uint, userEmail string, in Adjustment) (*AdjustResult, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	if in.SKU != "" {
		var existing models.Product
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND sku = ?", userID, in.SKU).
			First(&existing).Error
		switch {
		case err == nil:
			return s.adjustExisting(ctx, existing, userEmail, in)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// fall through to create
		default:
			return nil, upstreamErr("lookup product by sku", err)
		}
	}

	return s.create(ctx, userID, userEmail, in)
}

func (s *Service) adjustExisting(ctx context.Context, product models.Product, userEmail string, in Adjustment) (*AdjustResult, error) {
	quantity, err := s.applyDelta(ctx, product.ID, in)
	if err != nil {
		return nil, err
	}

	// The log append is not transactional with the quantity update; a failure
	// here leaves the stock updated and surfaces as an error.
	if err := s.appendLog(ctx, product.ID, in); err != nil {
		return nil, err
	}

	s.maybeNotify(ctx, userEmail, product, quantity)

	return &AdjustResult{Outcome: OutcomeUpdated, Product: product, Quantity: quantity}, nil
}

func (s *Service) create(ctx context.Context, userID uint, userEmail string, in Adjustment) (*AdjustResult, error) {
	if in.Name == "" || in.Category == "" {
		return nil, fmt.Errorf("%w: name and category are required to create a product", ErrValidation)
	}

	var sku *string
	if in.SKU != "" {
		sku = &in.SKU
	}
	product := models.Product{
		UserID:   userID,
		Name:     in.Name,
		SKU:      sku,
		Category: in.Category,
		Brand:    in.Brand,
	}

	// First scan of a new SKU creates product, stock and the opening log row
	// together. The opening movement is always an IN for the full qty.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		stock := models.Stock{ProductID: product.ID, Quantity: in.Qty}
		if err := tx.Create(&stock).Error; err != nil {
			return fmt.Errorf("create stock: %w", err)
		}
		logRow := models.StockLog{
			ProductID: product.ID,
			Type:      models.StockLogIn,
			Qty:       in.Qty,
			Source:    in.Source,
		}
		if err := tx.Create(&logRow).Error; err != nil {
			return fmt.Errorf("create stock log: %w", err)
		}
		return nil
	})
	if err != nil {
		// Two first scans of the same new SKU can both miss the lookup; the
		// unique index over (user_id, sku) turns the loser's insert into an
		// adjustment of the winner's row.
		if in.SKU != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Product
			lookupErr := s.db.WithContext(ctx).
				Where("user_id = ? AND sku = ?", userID, in.SKU).
				First(&existing).Error
			if lookupErr == nil {
				return s.adjustExisting(ctx, existing, userEmail, in)
			}
		}
		return nil, upstreamErr("create product", err)
	}

	s.maybeNotify(ctx, userEmail, product, in.Qty)

	return &AdjustResult{Outcome: OutcomeCreated, Product: product, Quantity: in.Qty}, nil
}

const applyDeltaAttempts = 3

// applyDelta computes and persists the new quantity. The UPDATE is guarded by
// the quantity read in the same attempt, so a concurrent adjustment of the
// same product makes RowsAffected zero and the attempt is retried instead of
// losing the other writer's change.
func (s *Service) applyDelta(ctx context.Context, productID uuid.UUID, in Adjustment) (int, error) {
	for attempt := 0; attempt < applyDeltaAttempts; attempt++ {
		var stock models.Stock
		if err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&stock).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrStockNotFound
			}
			return 0, upstreamErr("load stock", err)
		}

		newQty := stock.Quantity
		if in.Type == models.StockLogIn {
			newQty += in.Qty
		} else {
			newQty -= in.Qty
		}
		if newQty < 0 {
			newQty = 0
		}

		res := s.db.WithContext(ctx).Model(&models.Stock{}).
			Where("product_id = ? AND quantity = ?", productID, stock.Quantity).
			Update("quantity", newQty)
		if res.Error != nil {
			return 0, upstreamErr("update stock", res.Error)
		}
		if res.RowsAffected == 1 {
			return newQty, nil
		}
	}
	return 0, ErrConflict
}

func (s *Service) appendLog(ctx context.Context, productID uuid.UUID, in Adjustment) error {
	logRow := models.StockLog{
		ProductID: productID,
		Type:      in.Type,
		Qty:       in.Qty,
		Source:    in.Source,
	}
	if err := s.db.WithContext(ctx).Create(&logRow).Error; err != nil {
		return upstreamErr("append stock log", err)
	}
	return nil
}

// maybeNotify fires the low-stock alert when the new quantity is at or below
// the product's threshold. Alerts are best effort: a mail outage must never
// fail the stock update, so errors are only logged.
func (s *Service) maybeNotify(ctx context.Context, userEmail string, product models.Product, quantity int) {
	threshold := s.threshold
	var rule models.LowStockRule
	if err := s.db.WithContext(ctx).Where("product_id = ?", product.ID).First(&rule).Error; err == nil {
		threshold = rule.MinQty
	}

	if quantity > threshold {
		return
	}

	alert := LowStockAlert{
		To:        userEmail,
		Product:   product.Name,
		SKU:       product.SKUValue(),
		Category:  product.Category,
		Quantity:  quantity,
		Threshold: threshold,
	}
	if err := s.notifier.SendLowStockAlert(ctx, alert); err != nil {
		s.log.Error("low stock alert failed",
			"product_id", product.ID,
			"quantity", quantity,
			"error", err,
		)
		return
	}
	s.log.Info("low stock alert sent",
		"product_id", product.ID,
		"quantity", quantity,
		"threshold", threshold,
	)
}

func (in Adjustment) check() error {
	if in.Qty < 1 {
		return fmt.Errorf("%w: qty must be at least 1", ErrValidation)
	}
	if in.Type != models.StockLogIn && in.Type != models.StockLogOut {
		return fmt.Errorf("%w: type must be IN or OUT", ErrValidation)
	}
	return nil
}

func upstreamErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}
