package services

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/ayoogunade/AyoZon/models"
	"github.com/ayoogunade/AyoZon/repository"
	"github.com/ayoogunade/AyoZon/sender"
	"github.com/ayoogunade/AyoZon/storage"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxAttachmentBytes keeps the JSON body within the provider's request limit.
const maxAttachmentBytes = 30 << 20

// ErrAttachmentSkipped marks a confirmation that was delivered without its image attachment.
var ErrAttachmentSkipped = errors.New("email sent without attachment")

// ImageOpener resolves a product image reference to its stored bytes.
type ImageOpener interface {
	Open(ctx context.Context, refOrName string) (*storage.Object, error)
}

type NotificationService interface {
	// SendOrderConfirmation mails the buyer, attaching the product image when it is stored locally.
	// When the image cannot be attached the email still goes out and the returned error
	// wraps ErrAttachmentSkipped.
	SendOrderConfirmation(ctx context.Context, order *models.Order, product *models.Product) error
	SendPlacedOrderConfirmation(ctx context.Context, email string, product *models.Product) error
}

type notificationService struct {
	repo        repository.NotificationLogRepository
	emailSender sender.EmailSender
	images      ImageOpener
	templates   *template.Template
	logger      *zap.Logger
}

type confirmationView struct {
	ProductName    string
	Amount         string
	OrderID        string
	OrderDate      string
	AttachmentName string
	ImageURL       string
}

type placedView struct {
	ProductName string
	Amount      string
	Description string
}

// NewNotificationService parses the embedded templates. repo may be nil.
func NewNotificationService(
	repo repository.NotificationLogRepository,
	emailSender sender.EmailSender,
	images ImageOpener,
	logger *zap.Logger,
) (NotificationService, error) {
	tmpls, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &notificationService{
		repo:        repo,
		emailSender: emailSender,
		images:      images,
		templates:   tmpls,
		logger:      logger,
	}, nil
}

func (s *notificationService) SendOrderConfirmation(ctx context.Context, order *models.Order, product *models.Product) error {
	msg := sender.Email{
		To:      order.Email,
		Subject: "Your Digital Photo - " + order.ProductName,
	}
	view := confirmationView{
		ProductName: order.ProductName,
		Amount:      fmt.Sprintf("%.2f", order.AmountPaid),
		OrderID:     order.ID.Hex(),
		OrderDate:   order.OrderDate.Format("January 02, 2006"),
	}

	status := models.StatusSent
	var attachErr error
	if product != nil && product.ImageURL != "" {
		att, err := s.buildAttachment(ctx, order.ProductName, product.ImageURL)
		switch {
		case err == nil:
			msg.Attachments = []sender.Attachment{*att}
			view.AttachmentName = att.Filename
		case errors.Is(err, storage.ErrNotLocal):
			view.ImageURL = product.ImageURL
		default:
			attachErr = err
			status = models.StatusPartial
			view.ImageURL = product.ImageURL
			s.logger.Warn("Failed to attach product image",
				zap.String("order_id", view.OrderID),
				zap.String("image_url", product.ImageURL),
				zap.Error(err),
			)
		}
	}

	html, err := s.render("order_confirmation.html", view)
	if err != nil {
		return err
	}
	msg.HTML = html

	result, err := s.emailSender.SendEmail(ctx, msg)
	entry := &models.NotificationLog{
		Recipient:  order.Email,
		Type:       models.TypeOrderConfirmation,
		OrderID:    view.OrderID,
		Status:     status,
		Attachment: len(msg.Attachments) > 0,
		MessageID:  result.MessageID,
	}
	if attachErr != nil {
		entry.Error = attachErr.Error()
	}
	if err != nil {
		entry.Status = models.StatusFailed
		entry.Error = err.Error()
	}
	s.saveLog(ctx, entry)

	if err != nil {
		s.logger.Error("Failed to send order confirmation",
			zap.String("order_id", view.OrderID),
			zap.String("email", order.Email),
			zap.Error(err),
		)
		return err
	}
	s.logger.Info("Order confirmation sent",
		zap.String("order_id", view.OrderID),
		zap.String("message_id", result.MessageID),
		zap.Bool("attachment", entry.Attachment),
	)
	if attachErr != nil {
		return fmt.Errorf("%w: %w", ErrAttachmentSkipped, attachErr)
	}
	return nil
}

func (s *notificationService) SendPlacedOrderConfirmation(ctx context.Context, email string, product *models.Product) error {
	html, err := s.render("order_placed.html", placedView{
		ProductName: product.Name,
		Amount:      strconv.FormatFloat(product.Price, 'f', -1, 64),
		Description: product.Description,
	})
	if err != nil {
		return err
	}

	result, err := s.emailSender.SendEmail(ctx, sender.Email{
		To:      email,
		Subject: "Order Confirmation for " + product.Name,
		HTML:    html,
	})
	entry := &models.NotificationLog{
		Recipient: email,
		Type:      models.TypeOrderPlaced,
		Status:    models.StatusSent,
		MessageID: result.MessageID,
	}
	if err != nil {
		entry.Status = models.StatusFailed
		entry.Error = err.Error()
		s.logger.Error("Failed to send order placed email", zap.String("email", email), zap.Error(err))
	}
	s.saveLog(ctx, entry)
	return err
}

func (s *notificationService) buildAttachment(ctx context.Context, productName, imageURL string) (*sender.Attachment, error) {
	obj, err := s.images.Open(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(io.LimitReader(obj.Body, maxAttachmentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxAttachmentBytes {
		return nil, fmt.Errorf("image %s exceeds attachment limit", obj.Name)
	}

	ext := strings.TrimPrefix(path.Ext(obj.Name), ".")
	return &sender.Attachment{
		Filename:    AttachmentFilename(productName, ext),
		Content:     base64.StdEncoding.EncodeToString(data),
		ContentType: storage.ContentTypeFor(obj.Name),
	}, nil
}

// AttachmentFilename is the product name with spaces replaced by underscores plus ext.
func AttachmentFilename(productName, ext string) string {
	return strings.ReplaceAll(productName, " ", "_") + "." + ext
}

func (s *notificationService) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("template render failed: %w", err)
	}
	return buf.String(), nil
}

func (s *notificationService) saveLog(ctx context.Context, entry *models.NotificationLog) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveLog(ctx, entry); err != nil {
		s.logger.Error("Failed to save notification log", zap.Error(err))
	}
}
