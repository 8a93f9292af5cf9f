package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ayoogunade/AyoZon/models"
	"github.com/ayoogunade/AyoZon/repository"
	"github.com/ayoogunade/AyoZon/storage"
	"go.uber.org/zap"
)

// ProductInput is the raw admin form. Price is parsed here so the form error
// messages stay in one place. Image is nil when no file was sent.
type ProductInput struct {
	Name        string
	Price       string
	Description string
	Image       *storage.Upload
}

// ImageStore is the part of storage.Manager the catalog needs.
type ImageStore interface {
	Store(ctx context.Context, up *storage.Upload) (string, error)
	Replace(ctx context.Context, oldRef string, up *storage.Upload) (string, error)
	Delete(ctx context.Context, ref string)
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]models.Product, *ServiceError)
	GetProduct(ctx context.Context, id string) (*models.Product, *ServiceError)
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, id string) *ServiceError
}

type productServiceImpl struct {
	repo   repository.ProductRepository
	images ImageStore
	cache  ProductCache
	logger *zap.Logger
}

// NewProductService wires the catalog. A nil cache disables list caching.
func NewProductService(repo repository.ProductRepository, images ImageStore, cache ProductCache, logger *zap.Logger) ProductService {
	if cache == nil {
		cache = noopCache{}
	}
	return &productServiceImpl{repo: repo, images: images, cache: cache, logger: logger}
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]models.Product, *ServiceError) {
	if products, ok := s.cache.GetProductList(ctx); ok {
		return products, nil
	}
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, ServerError("Database error", err)
	}
	s.cache.SetProductListAsync(products)
	return products, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id string) (*models.Product, *ServiceError) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		s.logger.Error("Failed to load product", zap.String("product_id", id), zap.Error(err))
		return nil, ServerError("Server error", err)
	}
	return p, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, *ServiceError) {
	price, svcErr := validateProductInput(in)
	if svcErr != nil {
		return nil, svcErr
	}

	product := &models.Product{Name: in.Name, Price: price, Description: in.Description}
	if in.Image != nil {
		ref, svcErr := s.storeImage(ctx, in.Image)
		if svcErr != nil {
			return nil, svcErr
		}
		product.ImageURL = ref
	}

	if _, err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to insert product", zap.Error(err))
		s.images.Delete(ctx, product.ImageURL)
		return nil, ServerError("Server error", err)
	}

	s.invalidate(ctx)
	s.logger.Info("Product created", zap.String("product_id", product.ID.Hex()), zap.String("name", product.Name))
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, *ServiceError) {
	price, svcErr := validateProductInput(in)
	if svcErr != nil {
		return nil, svcErr
	}

	existing, svcErr := s.GetProduct(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	imageURL := existing.ImageURL
	var storedRef string
	if in.Image != nil {
		if _, ok := storage.AllowedExtension(in.Image.Filename); !ok {
			return nil, InvalidInput("Unsupported file type")
		}
		ref, err := s.images.Replace(ctx, existing.ImageURL, in.Image)
		if err != nil {
			s.logger.Error("Failed to replace product image", zap.String("product_id", id), zap.Error(err))
			return nil, ServerError("Server error", err)
		}
		imageURL, storedRef = ref, ref
	}

	fields := models.ProductFields{Name: in.Name, Price: price, Description: in.Description, ImageURL: imageURL}
	matched, modified, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		s.logger.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		s.discardImage(ctx, storedRef)
		return nil, ServerError("Server error", err)
	}
	if matched == 0 {
		s.discardImage(ctx, storedRef)
		return nil, NotFound("Product not found")
	}
	if modified == 0 {
		return nil, NoChange()
	}

	s.invalidate(ctx)
	existing.Name, existing.Price, existing.Description, existing.ImageURL = fields.Name, fields.Price, fields.Description, fields.ImageURL
	return existing, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id string) *ServiceError {
	existing, svcErr := s.GetProduct(ctx, id)
	if svcErr != nil {
		return svcErr
	}

	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		return ServerError("Server error", err)
	}
	if n == 0 {
		return NotFound("Product not found or already deleted")
	}

	s.images.Delete(ctx, existing.ImageURL)
	s.invalidate(ctx)
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// discardImage removes an image stored during a request that then failed.
func (s *productServiceImpl) discardImage(ctx context.Context, ref string) {
	if ref != "" {
		s.images.Delete(ctx, ref)
	}
}

func (s *productServiceImpl) storeImage(ctx context.Context, up *storage.Upload) (string, *ServiceError) {
	ref, err := s.images.Store(ctx, up)
	if errors.Is(err, storage.ErrUnsupportedFileType) {
		return "", InvalidInput("Unsupported file type")
	}
	if err != nil {
		s.logger.Error("Failed to store product image", zap.Error(err))
		return "", ServerError("Server error", err)
	}
	return ref, nil
}

func (s *productServiceImpl) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}

func validateProductInput(in ProductInput) (float64, *ServiceError) {
	form := productForm{
		Name:        strings.TrimSpace(in.Name),
		Price:       strings.TrimSpace(in.Price),
		Description: strings.TrimSpace(in.Description),
	}
	if err := validate.Struct(form); err != nil {
		return 0, InvalidInput("Missing required fields")
	}
	return parsePrice(form.Price)
}
