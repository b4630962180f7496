package jsonfile

import (
	"context"
	"strings"
	"time"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

// userRecord is the on-disk shape of a user. models.User hides the password
// hash from API responses with json:"-", so the store re-adds it here.
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func encodeUsers(users []models.User) []userRecord {
	out := make([]userRecord, len(users))
	for i, u := range users {
		out[i] = userRecord{User: u, PasswordHash: u.PasswordHash}
	}
	return out
}

func decodeUsers(records []userRecord) []models.User {
	if records == nil {
		return nil
	}
	out := make([]models.User, len(records))
	for i, r := range records {
		u := r.User
		u.PasswordHash = r.PasswordHash
		out[i] = u
	}
	return out
}

// CreateUser appends a user, rejecting duplicate emails.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	s.users = append(s.users, user)
	if err := s.flush(usersFile, encodeUsers(s.users)); err != nil {
		s.users = s.users[:len(s.users)-1]
		return models.User{}, err
	}
	return user, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// GetUserByEmail fetches a user by email address.
func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// ListUsers returns every account.
func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

// UpdateUserStatus changes the account lifecycle state.
func (s *Store) UpdateUserStatus(_ context.Context, id string, status models.UserStatus) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		prev := s.users[i]
		s.users[i].Status = status
		s.users[i].UpdatedAt = time.Now().UTC()
		if err := s.flush(usersFile, encodeUsers(s.users)); err != nil {
			s.users[i] = prev
			return models.User{}, err
		}
		return s.users[i], nil
	}
	return models.User{}, storage.ErrNotFound
}
