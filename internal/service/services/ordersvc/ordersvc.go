package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/icategoryrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/ieventrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iuserrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	categoryrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/category/postgres"
	"github.com/corray333/backend-labs/shop/internal/dal/repositories/events"
	orderrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/orderitem/postgres"
	productrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/product/postgres"
	userrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/user/postgres"
	"github.com/corray333/backend-labs/shop/internal/dal/uow"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/event"
	"github.com/corray333/backend-labs/shop/internal/service/models/order"
	"github.com/corray333/backend-labs/shop/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// OrderService is a service for managing orders.
type OrderService struct {
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	productRepo   iproductrepo.IProductRepository
	categoryRepo  icategoryrepo.ICategoryRepository
	userRepo      iuserrepo.IUserRepository
	eventRepo     ieventrepo.IEventRepository

	newUOW func() unitOfWork
	now    func() time.Time
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		eventRepo: events.Noop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil || s.orderItemRepo == nil || s.productRepo == nil ||
		s.categoryRepo == nil || s.userRepo == nil || s.newUOW == nil {
		panic("order service: repositories are not configured")
	}

	return s
}

// WithPostgresClient binds every repository of the OrderService to the Postgres pool.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.orderRepo = orderrepo.NewPostgresOrderRepository(pgClient.Pool())
		s.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(pgClient.Pool())
		s.productRepo = productrepo.NewPostgresProductRepository(pgClient.Pool())
		s.categoryRepo = categoryrepo.NewPostgresCategoryRepository(pgClient.Pool())
		s.userRepo = userrepo.NewPostgresUserRepository(pgClient.Pool())
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithEventRepository sets the publisher of order events.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventRepository(repo ieventrepo.IEventRepository) option {
	return func(s *OrderService) {
		s.eventRepo = repo
	}
}

// WithRepositories sets the repositories explicitly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(
	orders iorderrepo.IOrderRepository,
	items iorderitemrepo.IOrderItemRepository,
	products iproductrepo.IProductRepository,
	categories icategoryrepo.ICategoryRepository,
	users iuserrepo.IUserRepository,
) option {
	return func(s *OrderService) {
		s.orderRepo = orders
		s.orderItemRepo = items
		s.productRepo = products
		s.categoryRepo = categories
		s.userRepo = users
	}
}

// WithUnitOfWork sets the factory of transactional units of work.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWork(newUOW func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = newUOW
	}
}

// Create places an order.
//
// Order items are persisted concurrently and kept in submission order. Unit
// prices are resolved only after every item is persisted, and the order is
// inserted only after every price is known. Items persisted before a failure
// are left in place.
func (s *OrderService) Create(ctx context.Context, cmd order.CreateCommand) (order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return order.Order{}, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	items, err := s.createItems(ctx, cmd.OrderItems)
	if err != nil {
		return order.Order{}, fmt.Errorf("%w: %w", errs.ErrDependencyCreateFailed, err)
	}

	prices, err := s.resolvePrices(ctx, items)
	if err != nil {
		return order.Order{}, err
	}

	total := decimal.Zero
	for i, item := range items {
		total = total.Add(prices[i].Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	created, err := s.orderRepo.Insert(ctx, order.Order{
		OrderItems:       items,
		ShippingAddress1: cmd.ShippingAddress1,
		ShippingAddress2: cmd.ShippingAddress2,
		City:             cmd.City,
		Zip:              cmd.Zip,
		Country:          cmd.Country,
		Phone:            cmd.Phone,
		Status:           cmd.Status,
		TotalPrice:       total,
		UserID:           cmd.UserID,
		CreatedAt:        s.now().UTC(),
	})
	if err != nil {
		return order.Order{}, fmt.Errorf("%w: %w", errs.ErrOrderCreateFailed, err)
	}
	created.OrderItems = items

	s.publish(ctx, event.TypeOrderCreated, created)

	return created, nil
}

func (s *OrderService) createItems(ctx context.Context, lines []orderitem.LineItem) ([]orderitem.OrderItem, error) {
	items := make([]orderitem.OrderItem, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	for i, line := range lines {
		g.Go(func() error {
			item, err := s.orderItemRepo.Insert(gctx, orderitem.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
			if err != nil {
				return err
			}
			items[i] = item

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *OrderService) resolvePrices(ctx context.Context, items []orderitem.OrderItem) ([]decimal.Decimal, error) {
	prices := make([]decimal.Decimal, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			p, err := s.productRepo.GetByID(gctx, item.ProductID)
			if errors.Is(err, errs.ErrNotFound) {
				return fmt.Errorf("%w: %d", errs.ErrProductNotFound, item.ProductID)
			}
			if err != nil {
				return err
			}
			prices[i] = p.Price

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return prices, nil
}

// List returns every order, newest first, with the user summary populated.
func (s *OrderService) List(ctx context.Context) ([]order.Order, error) {
	orders, err := s.orderRepo.Query(ctx, &order.QueryOrdersModel{})
	if err != nil {
		return nil, err
	}

	userIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
	}
	users, err := s.userRepo.GetSummaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if u, ok := users[orders[i].UserID]; ok {
			orders[i].User = &u
		}
	}

	return orders, nil
}

// Get returns an order with its items, their products and the products' categories.
func (s *OrderService) Get(ctx context.Context, id int64) (order.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	users, err := s.userRepo.GetSummaries(ctx, []int64{o.UserID})
	if err != nil {
		return order.Order{}, err
	}
	if u, ok := users[o.UserID]; ok {
		o.User = &u
	}

	orders := []order.Order{o}
	if err := s.populateItems(ctx, orders); err != nil {
		return order.Order{}, err
	}

	return orders[0], nil
}

// UserOrders returns the orders of a user, newest first, with items populated.
func (s *OrderService) UserOrders(ctx context.Context, userID int64) ([]order.Order, error) {
	orders, err := s.orderRepo.Query(ctx, &order.QueryOrdersModel{UserIds: []int64{userID}})
	if err != nil {
		return nil, err
	}

	if err := s.populateItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// populateItems replaces the id-only items of the orders with the stored
// items. References to removed items or products are kept as they are.
func (s *OrderService) populateItems(ctx context.Context, orders []order.Order) error {
	var itemIDs []int64
	for _, o := range orders {
		itemIDs = append(itemIDs, o.ItemIDs()...)
	}

	items, err := s.orderItemRepo.GetByIDs(ctx, itemIDs)
	if err != nil {
		return err
	}

	itemsByID := make(map[int64]orderitem.OrderItem, len(items))
	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return err
	}

	categoryIDs := make([]int64, 0, len(products))
	for _, p := range products {
		categoryIDs = append(categoryIDs, p.CategoryID)
	}
	categories, err := s.categoryRepo.GetByIDs(ctx, categoryIDs)
	if err != nil {
		return err
	}

	for i := range orders {
		for j, ref := range orders[i].OrderItems {
			item, ok := itemsByID[ref.ID]
			if !ok {
				continue
			}
			if p, ok := products[item.ProductID]; ok {
				if c, ok := categories[p.CategoryID]; ok {
					p.Category = &c
				}
				item.Product = &p
			}
			orders[i].OrderItems[j] = item
		}
	}

	return nil
}

// UpdateStatus sets the status of an order.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (order.Order, error) {
	if status == "" {
		return order.Order{}, fmt.Errorf("%w: status is required", errs.ErrValidation)
	}

	return s.orderRepo.UpdateStatus(ctx, id, status)
}

// Delete removes an order and its items in one transaction.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if err := work.Rollback(ctx); err != nil {
			slog.Error("Failed to rollback order deletion", "error", err, "order_id", id)
		}
	}()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := work.OrderItemRepository().DeleteByIDs(ctx, o.ItemIDs()); err != nil {
		return err
	}

	deleted, err := work.OrderRepository().Delete(ctx, id)
	if err != nil {
		return err
	}

	if err := work.Commit(ctx); err != nil {
		return err
	}

	s.publish(ctx, event.TypeOrderDeleted, deleted)

	return nil
}

// Count returns the number of orders.
func (s *OrderService) Count(ctx context.Context) (int64, error) {
	return s.orderRepo.Count(ctx)
}

// TotalSales returns the sum of the total prices of all orders.
func (s *OrderService) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	return s.orderRepo.TotalSales(ctx)
}

// publish sends the event once. Failures are logged and dropped.
func (s *OrderService) publish(ctx context.Context, t event.Type, o order.Order) {
	e := event.OrderEvent{
		Type:       t,
		OrderID:    o.ID,
		UserID:     o.UserID,
		ItemIDs:    o.ItemIDs(),
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		OccurredAt: s.now().UTC(),
	}
	if err := s.eventRepo.Publish(ctx, e); err != nil {
		slog.Error("Failed to publish order event", "error", err, "type", t, "order_id", o.ID)
	}
}
