package favorites

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Skotchmaster/favorite_api/internal/catalog"
	"github.com/Skotchmaster/favorite_api/internal/models"
)

// Store persists the client-product favorite relation. The composite unique
// index on (client_id, product_id) is the final dedup guarantee against
// concurrent creation; Add converts a lost race into returning the row that
// won it.
type Store struct {
	DB *gorm.DB
}

func (s *Store) Add(ctx context.Context, clientID uint, product *catalog.Product) (*models.Favorite, error) {
	favorite := models.Favorite{
		ClientID:  clientID,
		ProductID: uint(product.ID),
		Title:     product.Title,
		Image:     product.Image,
		Price:     product.Price,
		Review:    formatReview(product),
	}

	if err := s.DB.WithContext(ctx).Create(&favorite).Error; err != nil {
		var existing models.Favorite
		if ferr := s.DB.WithContext(ctx).
			Where("client_id = ? AND product_id = ?", clientID, product.ID).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create favorite: %w", err)
	}

	return &favorite, nil
}

func (s *Store) ListByClient(ctx context.Context, clientID uint, limit, offset int) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := s.DB.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

func (s *Store) Remove(ctx context.Context, clientID, productID uint) (bool, error) {
	result := s.DB.WithContext(ctx).
		Where("client_id = ? AND product_id = ?", clientID, productID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, fmt.Errorf("delete favorite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) Exists(ctx context.Context, clientID, productID uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("client_id = ? AND product_id = ?", clientID, productID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count favorites: %w", err)
	}
	return count > 0, nil
}

func formatReview(product *catalog.Product) string {
	if product.Rating.Rate == 0 {
		return ""
	}
	return strconv.FormatFloat(product.Rating.Rate, 'f', -1, 64)
}
