package favorites

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/favorite_api/internal/catalog"
	"github.com/Skotchmaster/favorite_api/internal/logging"
	"github.com/Skotchmaster/favorite_api/internal/models"
	"github.com/Skotchmaster/favorite_api/internal/token"
)

// ProductSource confirms product existence, cache-first. A nil result means
// the product cannot be confirmed.
type ProductSource interface {
	Product(ctx context.Context, id int) *catalog.Product
}

// Publisher hands a favorite-creation request to the asynchronous channel.
type Publisher interface {
	PublishFavorite(ctx context.Context, clientID, productID uint) error
}

// Service orchestrates favorite management. The synchronous and asynchronous
// entry points share one validation routine so both paths enforce identical
// policy: client existence, ownership, catalog confirmation, duplicate check.
type Service struct {
	DB        *gorm.DB
	Store     *Store
	Products  ProductSource
	Publisher Publisher
}

type FavoriteOut struct {
	ID        uint    `json:"id"`
	ClientID  uint    `json:"client_id"`
	ProductID uint    `json:"product_id"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Review    string  `json:"review,omitempty"`
}

type Projection struct {
	ProductID uint    `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Review    string  `json:"review,omitempty"`
}

func (s *Service) clientByID(ctx context.Context, clientID uint) (*models.Client, error) {
	var client models.Client
	if err := s.DB.WithContext(ctx).First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("client lookup: %w", err)
	}
	return &client, nil
}

// validateCreate runs the shared pre-creation checks and returns the
// confirmed product. The duplicate check here is advisory for the async
// path: the store's unique index remains the backstop.
func (s *Service) validateCreate(ctx context.Context, ident *token.Identity, clientID uint, productID int) (*catalog.Product, error) {
	if _, err := s.clientByID(ctx, clientID); err != nil {
		return nil, err
	}
	if ident.ID != clientID {
		return nil, ErrForbidden
	}

	product := s.Products.Product(ctx, productID)
	if product == nil {
		return nil, ErrProductNotFound
	}

	exists, err := s.Store.Exists(ctx, clientID, uint(productID))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	return product, nil
}

func (s *Service) CreateSync(ctx context.Context, ident *token.Identity, clientID uint, productID int) (*models.Favorite, error) {
	product, err := s.validateCreate(ctx, ident, clientID, productID)
	if err != nil {
		return nil, err
	}
	return s.Store.Add(ctx, clientID, product)
}

// CreateAsync validates exactly like CreateSync but publishes instead of
// persisting. Persistence happens later in the consumer.
func (s *Service) CreateAsync(ctx context.Context, ident *token.Identity, clientID uint, productID int) error {
	if _, err := s.validateCreate(ctx, ident, clientID, productID); err != nil {
		return err
	}

	if err := s.Publisher.PublishFavorite(ctx, clientID, uint(productID)); err != nil {
		return fmt.Errorf("publish favorite: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, ident *token.Identity, clientID uint, limit, offset int) ([]FavoriteOut, error) {
	if _, err := s.clientByID(ctx, clientID); err != nil {
		return nil, err
	}
	if ident.ID != clientID {
		return nil, ErrForbidden
	}

	favorites, err := s.Store.ListByClient(ctx, clientID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]FavoriteOut, 0, len(favorites))
	for _, favorite := range favorites {
		item := FavoriteOut{
			ID:        favorite.ID,
			ClientID:  favorite.ClientID,
			ProductID: favorite.ProductID,
			Title:     favorite.Title,
			Image:     favorite.Image,
			Price:     favorite.Price,
		}
		// refetch live data; on failure keep the stored snapshot and drop review
		if product := s.Products.Product(ctx, int(favorite.ProductID)); product != nil {
			item.Title = product.Title
			item.Image = product.Image
			item.Price = product.Price
			item.Review = formatReview(product)
		}
		out = append(out, item)
	}

	return out, nil
}

func (s *Service) Remove(ctx context.Context, ident *token.Identity, clientID, productID uint) error {
	if _, err := s.clientByID(ctx, clientID); err != nil {
		return err
	}
	if ident.ID != clientID {
		return ErrForbidden
	}

	removed, err := s.Store.Remove(ctx, clientID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrFavoriteNotFound
	}
	return nil
}

// Project mirrors the favorite listing as a read-only query: no ownership
// scope, trimmed fields.
func (s *Service) Project(ctx context.Context, clientID uint, limit, offset int) ([]Projection, error) {
	favorites, err := s.Store.ListByClient(ctx, clientID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]Projection, 0, len(favorites))
	for _, favorite := range favorites {
		item := Projection{
			ProductID: favorite.ProductID,
			Title:     favorite.Title,
			Price:     favorite.Price,
		}
		if product := s.Products.Product(ctx, int(favorite.ProductID)); product != nil {
			item.Title = product.Title
			item.Price = product.Price
			item.Review = formatReview(product)
		}
		out = append(out, item)
	}

	return out, nil
}

// ProcessMessage applies one queued creation request. The world may have
// changed since publish, so client and product are re-validated. A favorite
// that already exists is an idempotent no-op: duplicate delivery and races
// with the sync path both land here.
func (s *Service) ProcessMessage(ctx context.Context, clientID, productID uint) error {
	l := logging.FromContext(ctx).With("client_id", clientID, "product_id", productID)

	if _, err := s.clientByID(ctx, clientID); err != nil {
		return err
	}

	product := s.Products.Product(ctx, int(productID))
	if product == nil {
		return ErrProductNotFound
	}

	favorite, err := s.Store.Add(ctx, clientID, product)
	if err != nil {
		return err
	}

	l.Info("favorite applied from queue", "favorite_id", favorite.ID)
	return nil
}
