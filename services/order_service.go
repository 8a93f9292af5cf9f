package services

import (
	"context"
	"errors"
	"time"

	"github.com/ayoogunade/AyoZon/models"
	aws_pkg "github.com/ayoogunade/AyoZon/pkg/aws"
	"github.com/ayoogunade/AyoZon/repository"
	"go.uber.org/zap"
)

const EventOrderCompleted = "order_completed"

type OrderService interface {
	CreatePaymentIntent(ctx context.Context, req *models.CreatePaymentIntentRequest) (*models.CreatePaymentIntentResponse, *ServiceError)
	// ConfirmPayment persists an order when the intent has succeeded. Calling it twice
	// for the same intent stores two orders.
	ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.ConfirmPaymentResult, *ServiceError)
	// PlaceOrder records an order without taking payment.
	PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) *ServiceError
}

type orderServiceImpl struct {
	products      repository.ProductRepository
	orders        repository.OrderRepository
	gateway       PaymentGateway
	notifications NotificationService
	events        aws_pkg.EventPublisher
	logger        *zap.Logger
	now           func() time.Time
}

// NewOrderService creates an OrderService. events may be nil.
func NewOrderService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	gateway PaymentGateway,
	notifications NotificationService,
	events aws_pkg.EventPublisher,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		products:      products,
		orders:        orders,
		gateway:       gateway,
		notifications: notifications,
		events:        events,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *orderServiceImpl) CreatePaymentIntent(ctx context.Context, req *models.CreatePaymentIntentRequest) (*models.CreatePaymentIntentResponse, *ServiceError) {
	if svcErr := checkOrderForm(req.ProductID, req.Email, "Missing product_id or email"); svcErr != nil {
		return nil, svcErr
	}

	product, svcErr := s.findProduct(ctx, req.ProductID)
	if svcErr != nil {
		return nil, svcErr
	}

	amount, err := ToMinorUnits(product.Price)
	if err != nil {
		s.logger.Error("Product price cannot be charged",
			zap.String("product_id", req.ProductID),
			zap.Float64("price", product.Price),
		)
		return nil, ServerError("Payment setup failed", err)
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, models.CurrencyUSD, map[string]string{
		models.MetadataProductID:     req.ProductID,
		models.MetadataProductName:   product.Name,
		models.MetadataCustomerEmail: req.Email,
	})
	if err != nil {
		s.logger.Error("Failed to create payment intent",
			zap.String("product_id", req.ProductID),
			zap.Error(err),
		)
		return nil, GatewayError("Payment setup failed", err)
	}

	s.logger.Info("Payment intent created",
		zap.String("payment_intent_id", intent.ID),
		zap.String("product_id", req.ProductID),
		zap.Int64("amount", intent.Amount),
	)
	return &models.CreatePaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		ProductName:  product.Name,
		Amount:       product.Price,
	}, nil
}

func (s *orderServiceImpl) ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.ConfirmPaymentResult, *ServiceError) {
	if req.PaymentIntentID == "" {
		return nil, InvalidInput("Missing payment_intent_id")
	}

	intent, err := s.gateway.RetrieveIntent(ctx, req.PaymentIntentID)
	if errors.Is(err, ErrIntentNotFound) {
		return nil, NotFound("Payment intent not found")
	}
	if err != nil {
		s.logger.Error("Failed to retrieve payment intent",
			zap.String("payment_intent_id", req.PaymentIntentID),
			zap.Error(err),
		)
		return nil, GatewayError("Payment confirmation failed", err)
	}

	if intent.Status != models.IntentStatusSucceeded {
		s.logger.Info("Payment intent not succeeded",
			zap.String("payment_intent_id", intent.ID),
			zap.String("status", intent.Status),
		)
		return nil, PaymentIncomplete()
	}

	productID := intent.Metadata[models.MetadataProductID]
	email := intent.Metadata[models.MetadataCustomerEmail]
	if productID == "" || email == "" {
		s.logger.Error("Payment intent is missing order metadata", zap.String("payment_intent_id", intent.ID))
		return nil, ServerError("Payment confirmation failed", errors.New("payment intent metadata incomplete"))
	}

	order := &models.Order{
		Email:                 email,
		ProductID:             productID,
		ProductName:           intent.Metadata[models.MetadataProductName],
		AmountPaid:            FromMinorUnits(intent.Amount),
		StripePaymentIntentID: intent.ID,
		OrderDate:             s.now(),
		Status:                models.OrderStatusCompleted,
	}
	orderID, err := s.orders.Insert(ctx, order)
	if err != nil {
		s.logger.Error("Failed to save order",
			zap.String("payment_intent_id", intent.ID),
			zap.Error(err),
		)
		return nil, ServerError("Payment confirmation failed", err)
	}
	s.logger.Info("Order created",
		zap.String("order_id", orderID),
		zap.String("payment_intent_id", intent.ID),
		zap.Float64("amount_paid", order.AmountPaid),
	)

	// The product may have been deleted since checkout; the email still goes out without an image.
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		s.logger.Warn("Product for confirmed order not found",
			zap.String("order_id", orderID),
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}

	emailStatus := confirmationStatus(s.notifications.SendOrderConfirmation(ctx, order, product))
	result := &models.ConfirmPaymentResult{
		OrderID:     orderID,
		EmailSent:   emailStatus != models.StatusFailed,
		EmailStatus: emailStatus,
	}
	s.publishOrderCompletedEvent(ctx, order, result)

	return result, nil
}

// confirmationStatus maps a SendOrderConfirmation error to a delivery status.
func confirmationStatus(err error) string {
	switch {
	case err == nil:
		return models.StatusSent
	case errors.Is(err, ErrAttachmentSkipped):
		return models.StatusPartial
	default:
		return models.StatusFailed
	}
}

func (s *orderServiceImpl) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) *ServiceError {
	if svcErr := checkOrderForm(req.ProductID, req.Email, "Missing email or product_id"); svcErr != nil {
		return svcErr
	}

	product, svcErr := s.findProduct(ctx, req.ProductID)
	if svcErr != nil {
		return svcErr
	}

	order := &models.Order{
		Email:       req.Email,
		ProductID:   req.ProductID,
		ProductName: product.Name,
		OrderDate:   s.now(),
		Status:      models.OrderStatusPlaced,
	}
	orderID, err := s.orders.Insert(ctx, order)
	if err != nil {
		s.logger.Error("Failed to save order", zap.String("product_id", req.ProductID), zap.Error(err))
		return ServerError("Server error", err)
	}

	if err := s.notifications.SendPlacedOrderConfirmation(ctx, req.Email, product); err != nil {
		return ServerError("Order saved, but failed to send email", nil)
	}
	s.logger.Info("Order placed", zap.String("order_id", orderID))
	return nil
}

func (s *orderServiceImpl) findProduct(ctx context.Context, id string) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		s.logger.Error("Failed to load product", zap.String("product_id", id), zap.Error(err))
		return nil, ServerError("Server error", err)
	}
	return product, nil
}

// publishOrderCompletedEvent announces a paid order to downstream subscribers.
func (s *orderServiceImpl) publishOrderCompletedEvent(ctx context.Context, order *models.Order, result *models.ConfirmPaymentResult) {
	if s.events == nil {
		return
	}

	event := models.OrderCompletedEvent{
		EventType:       EventOrderCompleted,
		OrderID:         order.ID.Hex(),
		ProductID:       order.ProductID,
		Email:           order.Email,
		AmountPaid:      order.AmountPaid,
		PaymentIntentID: order.StripePaymentIntentID,
		EmailSent:       result.EmailSent,
		EmailStatus:     result.EmailStatus,
		Timestamp:       order.OrderDate.Format(time.RFC3339),
	}
	if err := s.events.PublishEvent(ctx, EventOrderCompleted, event); err != nil {
		s.logger.Error("Failed to publish order_completed event",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}
