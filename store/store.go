// Package store is the MySQL-backed persistence layer for the voting engine.
// It implements the voting package's store interfaces on GORM, relying on
// unique indexes and conditional updates instead of explicit locks.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fanzhub/fanzhub/models"
	"github.com/fanzhub/fanzhub/voting"
)

// Store bundles all voting persistence on one gorm handle.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Voter resolves a voter account.
func (s *Store) Voter(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, voting.ErrVoterNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Target resolves a vote target.
func (s *Store) Target(ctx context.Context, id uint) (models.Target, error) {
	var target models.Target
	if err := s.db.WithContext(ctx).First(&target, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Target{}, voting.ErrTargetNotFound
		}
		return models.Target{}, err
	}
	return target, nil
}
