package service

import (
	"context"
	"errors"

	"go-inventory-orders/internal/model"
	"go-inventory-orders/internal/repository"

	"github.com/google/uuid"
)

// TransactionService reads the append-only transaction log. The delete
// operation is administrative cleanup only and sits outside the order
// lifecycle; nothing in the lifecycle ever mutates an entry.
type TransactionService interface {
	GetAllEntries(ctx context.Context) ([]model.TransactionLog, error)
	GetEntryByID(ctx context.Context, id uuid.UUID) (*model.TransactionLog, error)
	DeleteEntry(ctx context.Context, role string, id uuid.UUID) error
}

type transactionService struct {
	transactions repository.TransactionRepository
}

func NewTransactionService(transactions repository.TransactionRepository) TransactionService {
	return &transactionService{transactions: transactions}
}

func (s *transactionService) GetAllEntries(ctx context.Context) ([]model.TransactionLog, error) {
	return s.transactions.FindAll(ctx)
}

func (s *transactionService) GetEntryByID(ctx context.Context, id uuid.UUID) (*model.TransactionLog, error) {
	entry, err := s.transactions.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	return entry, err
}

func (s *transactionService) DeleteEntry(ctx context.Context, role string, id uuid.UUID) error {
	if role != model.RoleDeveloper {
		return ErrForbidden
	}
	err := s.transactions.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEntryNotFound
	}
	return err
}
