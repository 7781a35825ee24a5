package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/model"
)

type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	// FindOwned resolves an address only if it belongs to userID; any other
	// combination reports NotFound.
	FindOwned(ctx context.Context, addressID, userID uint) (*model.Address, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Address, error)
}

type addressRepoImpl struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepoImpl{db: db}
}

func (r *addressRepoImpl) Create(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *addressRepoImpl) FindOwned(ctx context.Context, addressID, userID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("shipping address %d not found", addressID)
	}
	if err != nil {
		return nil, err
	}

	return &address, nil
}

func (r *addressRepoImpl) ListByUser(ctx context.Context, userID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Find(&addresses).Error

	if err != nil {
		return nil, err
	}

	return addresses, nil
}
