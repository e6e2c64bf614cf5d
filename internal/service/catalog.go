package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/RaihanulHaque/rimu-world/pkg/errors"

	"github.com/RaihanulHaque/rimu-world/internal/domain"
	"github.com/RaihanulHaque/rimu-world/internal/repository"
	"github.com/RaihanulHaque/rimu-world/internal/storage"
)

// ProductCache caches product records keyed by identifier. Implementations
// must treat a miss as a not-found error.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	Set(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher publishes catalog lifecycle events.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id string) error
}

// CatalogService implements the business logic for catalog operations.
// Creations are serialized so identifier allocation and image staging for one
// product never interleave with another.
type CatalogService struct {
	repo   repository.ProductRepository
	seq    repository.SequenceAllocator
	images storage.ImageStore
	cache  ProductCache   // optional
	events EventPublisher // optional
	logger *slog.Logger

	maxImageBytes  int64
	storageTimeout time.Duration

	mu sync.Mutex
}

// NewCatalogService creates a new catalog service. cache and events may be
// nil, in which case the service runs without caching or event publishing.
func NewCatalogService(
	repo repository.ProductRepository,
	seq repository.SequenceAllocator,
	images storage.ImageStore,
	cache ProductCache,
	events EventPublisher,
	logger *slog.Logger,
	maxImageBytes int64,
	storageTimeout time.Duration,
) *CatalogService {
	return &CatalogService{
		repo:           repo,
		seq:            seq,
		images:         images,
		cache:          cache,
		events:         events,
		logger:         logger,
		maxImageBytes:  maxImageBytes,
		storageTimeout: storageTimeout,
	}
}

// ImageUpload is one image submitted with a product creation.
type ImageUpload struct {
	ContentType string
	Size        int64
	Data        io.Reader
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name     string
	Type     string
	Category string
	Price    int64
	Details  string
	Colors   []string
	Sizes    []string
	Images   []ImageUpload
}

// CreateProduct validates the input, allocates the next product identifier,
// stores the images, and persists the record. Validation happens before the
// identifier is consumed; once allocation succeeds the identifier is spent
// even if the creation later fails.
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}

	productType, ok := domain.ParseType(input.Type)
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("type must be %q or %q", domain.TypeClothing, domain.TypeJewelry))
	}
	if !domain.IsValidCategory(productType, input.Category) {
		return nil, apperrors.InvalidCategory(string(productType), input.Category)
	}

	if n := len(input.Images); n < domain.MinImages || n > domain.MaxImages {
		return nil, apperrors.InvalidImageCount(n, domain.MinImages, domain.MaxImages)
	}
	for _, img := range input.Images {
		if err := storage.ValidateImage(img.ContentType, img.Size, s.maxImageBytes); err != nil {
			return nil, err
		}
	}

	colors := input.Colors
	if colors == nil {
		colors = []string{}
	}
	sizes := input.Sizes
	if sizes == nil || !domain.SizesAllowed(input.Category) {
		sizes = []string{}
	}

	s.mu.Lock()
	product, err := s.create(ctx, input, productType, colors, sizes)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishProductCreated(ctx, product); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.created event",
				slog.String("product_id", product.ID),
				slog.String("error", err.Error()),
			)
			// Do not fail the operation if event publishing fails.
		}
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.Int("images", len(product.Images)),
	)

	return product, nil
}

// create runs the serialized portion of a creation: identifier allocation,
// image staging, and record insertion. Caller holds s.mu.
func (s *CatalogService) create(ctx context.Context, input *CreateProductInput, productType domain.ProductType, colors, sizes []string) (*domain.Product, error) {
	seqCtx, cancel := s.withTimeout(ctx)
	id, err := s.seq.Next(seqCtx)
	cancel()
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.StorageTimeout("allocate identifier")
		}
		return nil, apperrors.CreationFailed(err)
	}

	refs, err := s.storeImages(ctx, id, input.Images)
	if err != nil {
		// The identifier stays consumed; only the staged files are undone.
		s.rollbackImages(ctx, id, refs)
		return nil, creationError(err)
	}

	product := &domain.Product{
		ID:        id,
		Name:      input.Name,
		Type:      productType,
		Category:  input.Category,
		Price:     input.Price,
		Details:   input.Details,
		Colors:    colors,
		Sizes:     sizes,
		Images:    refs,
		CreatedAt: time.Now().UTC(),
	}

	insertCtx, cancel := s.withTimeout(ctx)
	err = s.repo.Insert(insertCtx, product)
	cancel()
	if err != nil {
		s.rollbackImages(ctx, id, refs)
		return nil, creationError(mapStorageErr(err, "insert product"))
	}

	return product, nil
}

// storeImages stages each image in order, stopping at the first failure. The
// references stored so far are always returned so the caller can undo them.
func (s *CatalogService) storeImages(ctx context.Context, productID string, images []ImageUpload) ([]string, error) {
	refs := make([]string, 0, len(images))

	for i, img := range images {
		storeCtx, cancel := s.withTimeout(ctx)
		result, err := s.images.Store(storeCtx, &storage.StoreInput{
			ProductID:   productID,
			Index:       i + 1,
			ContentType: img.ContentType,
			Size:        img.Size,
			Data:        img.Data,
		})
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return refs, apperrors.StorageTimeout("store image")
			}
			return refs, fmt.Errorf("store image %d for %s: %w", i+1, productID, err)
		}
		refs = append(refs, result.Ref)
	}

	return refs, nil
}

// rollbackImages removes staged images after a failed creation. Cleanup uses
// a fresh context so it still runs when the request context is already dead.
func (s *CatalogService) rollbackImages(ctx context.Context, productID string, refs []string) {
	if len(refs) == 0 {
		return
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), s.storageTimeout)
	defer cancel()

	for _, ref := range refs {
		if err := s.images.Delete(cleanupCtx, ref); err != nil {
			s.logger.ErrorContext(ctx, "failed to roll back staged image",
				slog.String("product_id", productID),
				slog.String("ref", ref),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.WarnContext(ctx, "rolled back staged images after failed creation",
		slog.String("product_id", productID),
		slog.Int("count", len(refs)),
	)
}

// creationError shapes an error out of the creation path: client-addressable
// validation failures and storage timeouts pass through, everything else is
// wrapped as a failed creation.
func creationError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status < 500 {
		return err
	}
	if errors.Is(err, apperrors.ErrStorageTimeout) {
		return err
	}
	return apperrors.CreationFailed(err)
}

// GetProduct retrieves a product by its ID, consulting the cache first.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if !domain.IsValidID(id) {
		return nil, apperrors.NotFound("product", id)
	}

	if s.cache != nil {
		if p, err := s.cache.Get(ctx, id); err == nil {
			return p, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	repoCtx, cancel := s.withTimeout(ctx)
	product, err := s.repo.GetByID(repoCtx, id)
	cancel()
	if err != nil {
		return nil, mapStorageErr(err, "get product")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, product); err != nil {
			s.logger.WarnContext(ctx, "product cache write failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return product, nil
}

// ListProducts returns catalog products, newest first. typeFilter narrows the
// result to one product type when non-empty.
func (s *CatalogService) ListProducts(ctx context.Context, typeFilter string) ([]domain.Product, error) {
	filter := repository.ProductFilter{}
	if typeFilter != "" {
		t, ok := domain.ParseType(typeFilter)
		if !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("type must be %q or %q", domain.TypeClothing, domain.TypeJewelry))
		}
		filter.Type = &t
	}

	repoCtx, cancel := s.withTimeout(ctx)
	products, err := s.repo.List(repoCtx, filter)
	cancel()
	if err != nil {
		return nil, mapStorageErr(err, "list products")
	}

	return products, nil
}

// DeleteProduct removes a product and its stored images. The database record
// is the source of truth: it goes first, and image cleanup afterwards is best
// effort.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if !domain.IsValidID(id) {
		return apperrors.NotFound("product", id)
	}

	repoCtx, cancel := s.withTimeout(ctx)
	refs, err := s.repo.Delete(repoCtx, id)
	cancel()
	if err != nil {
		return mapStorageErr(err, "delete product")
	}

	for _, ref := range refs {
		if err := s.images.Delete(ctx, ref); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete product image",
				slog.String("product_id", id),
				slog.String("ref", ref),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "product cache eviction failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.events != nil {
		if err := s.events.PublishProductDeleted(ctx, id); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
		slog.Int("images", len(refs)),
	)

	return nil
}

// OpenImage returns a reader over a stored product image and its content
// type. The caller is responsible for closing the reader.
func (s *CatalogService) OpenImage(ctx context.Context, productID, file string) (io.ReadCloser, string, error) {
	if !domain.IsValidID(productID) {
		return nil, "", apperrors.NotFound("image", productID+"/"+file)
	}

	ref := productID + "/" + file
	rc, contentType, err := s.images.Open(ctx, ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", apperrors.NotFound("image", ref)
		}
		return nil, "", fmt.Errorf("open image %s: %w", ref, err)
	}

	return rc, contentType, nil
}

// withTimeout bounds an image-store or repository call so a stalled backend
// surfaces as a retryable timeout instead of hanging the request.
func (s *CatalogService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storageTimeout)
}

// mapStorageErr translates a deadline expiry into a retryable storage timeout
// and passes structured errors through unchanged.
func mapStorageErr(err error, operation string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.StorageTimeout(operation)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
