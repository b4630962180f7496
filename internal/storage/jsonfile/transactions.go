package jsonfile

import (
	"context"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

// CreateTransaction records a settlement. A booking can be settled only once.
func (s *Store) CreateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.transactions {
		if existing.BookingID == tx.BookingID {
			return models.Transaction{}, storage.ErrAlreadyExists
		}
	}
	s.transactions = append(s.transactions, tx)
	if err := s.flush(transactionsFile, s.transactions); err != nil {
		s.transactions = s.transactions[:len(s.transactions)-1]
		return models.Transaction{}, err
	}
	return tx, nil
}

// ListTransactions returns every settlement, newest first.
func (s *Store) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Transaction, 0, len(s.transactions))
	for i := len(s.transactions) - 1; i >= 0; i-- {
		out = append(out, s.transactions[i])
	}
	return out, nil
}
