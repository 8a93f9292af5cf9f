package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ayoogunade/AyoZon/models"
	"github.com/ayoogunade/AyoZon/repository"
	"github.com/ayoogunade/AyoZon/sender"
	"github.com/ayoogunade/AyoZon/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- in-memory product repository ---

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]models.Product
	order    []string
	findErr  error
	calls    int

	// updateErr fails Update; updateGone makes Update match nothing.
	updateErr  error
	updateGone bool
}

func newMemProductRepo(seed ...models.Product) *memProductRepo {
	r := &memProductRepo{products: map[string]models.Product{}}
	for _, p := range seed {
		p := p
		_, _ = r.Create(context.Background(), &p)
	}
	r.calls = 0
	return r
}

func (r *memProductRepo) Create(_ context.Context, p *models.Product) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	p.ID = primitive.NewObjectID()
	id := p.ID.Hex()
	r.products[id] = *p
	r.order = append(r.order, id)
	return id, nil
}

func (r *memProductRepo) FindAll(context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) Update(_ context.Context, id string, f models.ProductFields) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.updateErr != nil {
		return 0, 0, r.updateErr
	}
	p, ok := r.products[id]
	if !ok || r.updateGone {
		return 0, 0, nil
	}
	next := models.Product{ID: p.ID, Name: f.Name, Price: f.Price, Description: f.Description, ImageURL: f.ImageURL}
	if next == p {
		return 1, 0, nil
	}
	r.products[id] = next
	return 1, 1, nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	return 1, nil
}

func (r *memProductRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// --- in-memory order repository ---

type memOrderRepo struct {
	mu        sync.Mutex
	orders    []models.Order
	insertErr error
}

func (r *memOrderRepo) Insert(_ context.Context, o *models.Order) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return "", r.insertErr
	}
	o.ID = primitive.NewObjectID()
	r.orders = append(r.orders, *o)
	return o.ID.Hex(), nil
}

func (r *memOrderRepo) all() []models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Order(nil), r.orders...)
}

// --- payment gateway ---

type mockGateway struct {
	createFn    func(ctx context.Context, amount int64, currency string, md map[string]string) (*models.PaymentIntent, error)
	retrieveFn  func(ctx context.Context, id string) (*models.PaymentIntent, error)
	createCalls int
}

func (m *mockGateway) CreateIntent(ctx context.Context, amount int64, currency string, md map[string]string) (*models.PaymentIntent, error) {
	m.createCalls++
	if m.createFn == nil {
		return nil, errors.New("unexpected CreateIntent call")
	}
	return m.createFn(ctx, amount, currency, md)
}

func (m *mockGateway) RetrieveIntent(ctx context.Context, id string) (*models.PaymentIntent, error) {
	if m.retrieveFn == nil {
		return nil, errors.New("unexpected RetrieveIntent call")
	}
	return m.retrieveFn(ctx, id)
}

// --- notifications ---

type mockNotifications struct {
	confirmErr error
	placedErr  error
	confirmed  []models.Order
	products   []*models.Product
	placed     []string
}

func (m *mockNotifications) SendOrderConfirmation(_ context.Context, o *models.Order, p *models.Product) error {
	m.confirmed = append(m.confirmed, *o)
	m.products = append(m.products, p)
	return m.confirmErr
}

func (m *mockNotifications) SendPlacedOrderConfirmation(_ context.Context, email string, _ *models.Product) error {
	m.placed = append(m.placed, email)
	return m.placedErr
}

// --- email sender ---

type mockSender struct {
	err  error
	sent []sender.Email
}

func (m *mockSender) SendEmail(_ context.Context, msg sender.Email) (sender.SendResult, error) {
	m.sent = append(m.sent, msg)
	if m.err != nil {
		return sender.SendResult{}, m.err
	}
	return sender.SendResult{MessageID: "email_1"}, nil
}

// --- notification log ---

type memLogRepo struct {
	logs []models.NotificationLog
}

func (r *memLogRepo) SaveLog(_ context.Context, l *models.NotificationLog) error {
	r.logs = append(r.logs, *l)
	return nil
}

// --- events ---

type mockPublisher struct {
	eventTypes []string
	messages   [][]byte
}

func (m *mockPublisher) PublishEvent(_ context.Context, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.eventTypes = append(m.eventTypes, eventType)
	m.messages = append(m.messages, body)
	return nil
}

// --- image store ---

type recordingImages struct {
	stored   []string
	deleted  []string
	replaced []string
}

func (r *recordingImages) Store(_ context.Context, up *storage.Upload) (string, error) {
	if _, ok := storage.AllowedExtension(up.Filename); !ok {
		return "", storage.ErrUnsupportedFileType
	}
	ref := "http://localhost:5003/uploads/abc_" + up.Filename
	r.stored = append(r.stored, ref)
	return ref, nil
}

func (r *recordingImages) Replace(ctx context.Context, oldRef string, up *storage.Upload) (string, error) {
	ref, err := r.Store(ctx, up)
	if err != nil {
		return "", err
	}
	r.replaced = append(r.replaced, oldRef)
	return ref, nil
}

func (r *recordingImages) Delete(_ context.Context, ref string) {
	r.deleted = append(r.deleted, ref)
}
