package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/icategoryrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iuserrepo"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/category"
	"github.com/corray333/backend-labs/shop/internal/service/models/event"
	"github.com/corray333/backend-labs/shop/internal/service/models/order"
	"github.com/corray333/backend-labs/shop/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/shop/internal/service/models/product"
	"github.com/corray333/backend-labs/shop/internal/service/models/user"
	"github.com/shopspring/decimal"
)

type fakeOrderRepo struct {
	iorderrepo.IOrderRepository

	mu        sync.Mutex
	nextID    int64
	orders    map[int64]order.Order
	insertErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]order.Order{}}
}

func (f *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return order.Order{}, f.insertErr
	}
	f.nextID++
	o.ID = f.nextID
	refs := make([]orderitem.OrderItem, len(o.OrderItems))
	for i, item := range o.OrderItems {
		refs[i] = orderitem.OrderItem{ID: item.ID}
	}
	o.OrderItems = refs
	f.orders[o.ID] = o

	return o, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order %d: %w", id, errs.ErrNotFound)
	}

	return copyOrder(o), nil
}

func (f *fakeOrderRepo) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []order.Order{}
	for _, o := range f.orders {
		if len(filter.UserIds) > 0 && o.UserID != filter.UserIds[0] {
			continue
		}
		result = append(result, copyOrder(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })

	return result, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status string) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order %d: %w", id, errs.ErrNotFound)
	}
	o.Status = status
	f.orders[id] = o

	return o, nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id int64) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order %d: %w", id, errs.ErrNotFound)
	}
	delete(f.orders, id)

	return o, nil
}

func (f *fakeOrderRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return int64(len(f.orders)), nil
}

func (f *fakeOrderRepo) TotalSales(context.Context) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := decimal.Zero
	for _, o := range f.orders {
		total = total.Add(o.TotalPrice)
	}

	return total, nil
}

func copyOrder(o order.Order) order.Order {
	o.OrderItems = append([]orderitem.OrderItem(nil), o.OrderItems...)

	return o
}

type fakeItemRepo struct {
	iorderitemrepo.IOrderItemRepository

	mu     sync.Mutex
	nextID int64
	items  map[int64]orderitem.OrderItem
	// failProduct makes Insert fail for items of that product.
	failProduct int64
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[int64]orderitem.OrderItem{}}
}

func (f *fakeItemRepo) Insert(_ context.Context, item orderitem.OrderItem) (orderitem.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failProduct != 0 && item.ProductID == f.failProduct {
		return orderitem.OrderItem{}, errors.New("insert failed")
	}
	f.nextID++
	item.ID = f.nextID
	f.items[item.ID] = item

	return item, nil
}

func (f *fakeItemRepo) GetByIDs(_ context.Context, ids []int64) ([]orderitem.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []orderitem.OrderItem{}
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			result = append(result, item)
		}
	}

	return result, nil
}

func (f *fakeItemRepo) DeleteByIDs(_ context.Context, ids []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := f.items[id]; ok {
			delete(f.items, id)
			n++
		}
	}

	return n, nil
}

func (f *fakeItemRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.items)
}

type fakeProductRepo struct {
	iproductrepo.IProductRepository

	products map[int64]product.Product
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return product.Product{}, fmt.Errorf("product %d: %w", id, errs.ErrNotFound)
	}

	return p, nil
}

func (f *fakeProductRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]product.Product, error) {
	result := map[int64]product.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			result[id] = p
		}
	}

	return result, nil
}

type fakeCategoryRepo struct {
	icategoryrepo.ICategoryRepository

	categories map[int64]category.Category
}

func (f *fakeCategoryRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]category.Category, error) {
	result := map[int64]category.Category{}
	for _, id := range ids {
		if c, ok := f.categories[id]; ok {
			result[id] = c
		}
	}

	return result, nil
}

type fakeUserRepo struct {
	iuserrepo.IUserRepository

	users map[int64]user.Summary
}

func (f *fakeUserRepo) GetSummaries(_ context.Context, ids []int64) (map[int64]user.Summary, error) {
	result := map[int64]user.Summary{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			result[id] = u
		}
	}

	return result, nil
}

type fakeUOW struct {
	orders *fakeOrderRepo
	items  *fakeItemRepo

	begun      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUOW) Begin(context.Context) error {
	u.begun = true

	return nil
}

func (u *fakeUOW) Commit(context.Context) error {
	u.committed = true

	return nil
}

func (u *fakeUOW) Rollback(context.Context) error {
	if !u.committed {
		u.rolledBack = true
	}

	return nil
}

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return u.orders
}

func (u *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.items
}

type fakeEvents struct {
	mu     sync.Mutex
	events []event.OrderEvent
	err    error
}

func (f *fakeEvents) Publish(_ context.Context, e event.OrderEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, e)

	return f.err
}
