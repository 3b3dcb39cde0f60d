package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mikeychann-hash/Evies-Epoxy/models"
	"github.com/mikeychann-hash/Evies-Epoxy/repository"
)

// In-memory repository doubles shared by the service tests. They mirror the
// conditional-update semantics of the real implementations, MarkProcessing
// and DecrementStock in particular, because the services lean on those
// guarantees for idempotency.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product

	decrements []uuid.UUID
	orderRefs  map[uuid.UUID]bool
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	r := &fakeProductRepo{
		products:  make(map[uuid.UUID]*models.Product),
		orderRefs: make(map[uuid.UUID]bool),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.products {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["stock"]; ok {
		p.Stock = v.(int)
	}
	if v, ok := updates["price"]; ok {
		p.Price = v.(float64)
	}
	if v, ok := updates["is_active"]; ok {
		p.IsActive = v.(bool)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.IsActive = false
	}
	return nil
}

func (r *fakeProductRepo) HasOrderReferences(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orderRefs[id], nil
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	r.decrements = append(r.decrements, id)
	return true, nil
}

func (r *fakeProductRepo) stockOf(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p.Stock
	}
	return -1
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order

	createErr error
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.PaymentIntentID == paymentIntentID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) SetPaymentIntentID(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		o.PaymentIntentID = paymentIntentID
	}
	return nil
}

func (r *fakeOrderRepo) MarkProcessing(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != models.OrderPending {
		return false, nil
	}
	o.Status = models.OrderProcessing
	if paymentRef != "" {
		o.PaymentIntentID = paymentRef
	}
	return true, nil
}

func (r *fakeOrderRepo) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return false, nil
	}
	if o.Status != models.OrderPending && o.Status != models.OrderProcessing {
		return false, nil
	}
	o.Status = models.OrderCancelled
	return true, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *fakeOrderRepo) statusOf(id uuid.UUID) models.OrderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		return o.Status
	}
	return ""
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type fakeGateway struct {
	sessionID string
	err       error

	calls     int
	lastLines []CheckoutLine
	lastShip  float64
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, orderID uuid.UUID, email string, lines []CheckoutLine, shipping float64) (string, error) {
	g.calls++
	g.lastLines = lines
	g.lastShip = shipping
	if g.err != nil {
		return "", g.err
	}
	if g.sessionID == "" {
		return "cs_test_" + orderID.String(), nil
	}
	return g.sessionID, nil
}

var errGatewayDown = errors.New("payment gateway unavailable")

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*models.Category
	withStock  map[uuid.UUID]bool
}

func newFakeCategoryRepo(categories ...*models.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{
		categories: make(map[uuid.UUID]*models.Category),
		withStock:  make(map[uuid.UUID]bool),
	}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := updates["slug"]; ok {
		c.Slug = v.(string)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.withStock[id], nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}
