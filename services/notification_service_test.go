package services_test

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayoogunade/AyoZon/models"
	"github.com/ayoogunade/AyoZon/services"
	"github.com/ayoogunade/AyoZon/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type notificationFixture struct {
	dir     string
	images  *storage.Manager
	sender  *mockSender
	logs    *memLogRepo
	svc     services.NotificationService
	order   *models.Order
	product *models.Product
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	dir := t.TempDir()
	f := &notificationFixture{
		dir:    dir,
		images: storage.NewManager(storage.NewLocalBackend(dir, "http://localhost:5003"), zap.NewNop()),
		sender: &mockSender{},
		logs:   &memLogRepo{},
	}
	svc, err := services.NewNotificationService(f.logs, f.sender, f.images, zap.NewNop())
	require.NoError(t, err)
	f.svc = svc

	f.order = &models.Order{
		ID:          primitive.NewObjectID(),
		Email:       "buyer@example.com",
		ProductName: "Sunset Beach",
		AmountPaid:  12.5,
		OrderDate:   time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC),
		Status:      models.OrderStatusCompleted,
	}
	return f
}

func (f *notificationFixture) storeImage(t *testing.T, name, body string) string {
	t.Helper()
	ref, err := f.images.Store(context.Background(), &storage.Upload{Filename: name, Body: strings.NewReader(body)})
	require.NoError(t, err)
	return ref
}

func TestSendOrderConfirmation_AttachesLocalImage(t *testing.T) {
	f := newNotificationFixture(t)
	ref := f.storeImage(t, "beach.png", "pixels")
	product := &models.Product{Name: "Sunset Beach", ImageURL: ref}

	require.NoError(t, f.svc.SendOrderConfirmation(context.Background(), f.order, product))

	require.Len(t, f.sender.sent, 1)
	msg := f.sender.sent[0]
	assert.Equal(t, "buyer@example.com", msg.To)
	assert.Equal(t, "Your Digital Photo - Sunset Beach", msg.Subject)
	assert.Contains(t, msg.HTML, "$12.50")
	assert.Contains(t, msg.HTML, f.order.ID.Hex())
	assert.Contains(t, msg.HTML, "March 04, 2026")
	assert.Contains(t, msg.HTML, "Sunset_Beach.png")

	require.Len(t, msg.Attachments, 1)
	att := msg.Attachments[0]
	assert.Equal(t, "Sunset_Beach.png", att.Filename)
	assert.Equal(t, "image/png", att.ContentType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("pixels")), att.Content)

	require.Len(t, f.logs.logs, 1)
	assert.Equal(t, models.StatusSent, f.logs.logs[0].Status)
	assert.True(t, f.logs.logs[0].Attachment)
	assert.Equal(t, "email_1", f.logs.logs[0].MessageID)
}

func TestSendOrderConfirmation_RemoteImageHasNoAttachment(t *testing.T) {
	f := newNotificationFixture(t)
	product := &models.Product{Name: "Sunset Beach", ImageURL: "https://cdn.example.com/beach.png"}

	require.NoError(t, f.svc.SendOrderConfirmation(context.Background(), f.order, product))

	require.Len(t, f.sender.sent, 1)
	assert.Empty(t, f.sender.sent[0].Attachments)
	assert.Contains(t, f.sender.sent[0].HTML, "https://cdn.example.com/beach.png")
	assert.Equal(t, models.StatusSent, f.logs.logs[0].Status)
}

func TestSendOrderConfirmation_MissingFileIsPartial(t *testing.T) {
	f := newNotificationFixture(t)
	ref := f.storeImage(t, "beach.jpg", "pixels")
	require.NoError(t, os.Remove(filepath.Join(f.dir, filepath.Base(ref))))

	err := f.svc.SendOrderConfirmation(context.Background(), f.order, &models.Product{Name: "Sunset Beach", ImageURL: ref})
	require.ErrorIs(t, err, services.ErrAttachmentSkipped)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	require.Len(t, f.sender.sent, 1)
	assert.Empty(t, f.sender.sent[0].Attachments)
	require.Len(t, f.logs.logs, 1)
	assert.Equal(t, models.StatusPartial, f.logs.logs[0].Status)
	assert.NotEmpty(t, f.logs.logs[0].Error)
}

func TestSendOrderConfirmation_NilProduct(t *testing.T) {
	f := newNotificationFixture(t)

	require.NoError(t, f.svc.SendOrderConfirmation(context.Background(), f.order, nil))
	require.Len(t, f.sender.sent, 1)
	assert.Empty(t, f.sender.sent[0].Attachments)
}

func TestSendOrderConfirmation_SendFailureIsReturnedAndLogged(t *testing.T) {
	f := newNotificationFixture(t)
	f.sender.err = errors.New("resend error 422")

	err := f.svc.SendOrderConfirmation(context.Background(), f.order, nil)
	require.Error(t, err)
	require.Len(t, f.logs.logs, 1)
	assert.Equal(t, models.StatusFailed, f.logs.logs[0].Status)
	assert.Equal(t, "resend error 422", f.logs.logs[0].Error)
}

func TestSendPlacedOrderConfirmation(t *testing.T) {
	f := newNotificationFixture(t)
	product := &models.Product{Name: "Sunset", Price: 12.5, Description: "Golden <b>hour</b>"}

	require.NoError(t, f.svc.SendPlacedOrderConfirmation(context.Background(), "a@b.co", product))

	require.Len(t, f.sender.sent, 1)
	msg := f.sender.sent[0]
	assert.Equal(t, "Order Confirmation for Sunset", msg.Subject)
	assert.Contains(t, msg.HTML, "$12.5")
	assert.Contains(t, msg.HTML, "Golden &lt;b&gt;hour&lt;/b&gt;")
	assert.Equal(t, models.TypeOrderPlaced, f.logs.logs[0].Type)
}

func TestNotificationService_NilLogRepository(t *testing.T) {
	s := &mockSender{}
	svc, err := services.NewNotificationService(nil, s, storage.NewManager(storage.NewLocalBackend(t.TempDir(), "http://x"), zap.NewNop()), zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, svc.SendPlacedOrderConfirmation(context.Background(), "a@b.co", &models.Product{Name: "n", Price: 1}))
	assert.Len(t, s.sent, 1)
}

func TestAttachmentFilename(t *testing.T) {
	assert.Equal(t, "Sunset_Over_Bay.jpeg", services.AttachmentFilename("Sunset Over Bay", "jpeg"))
}
