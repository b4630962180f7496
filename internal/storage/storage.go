package storage

import (
	"context"
	"errors"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// BookingFilter narrows a booking listing. Zero-value fields are ignored.
type BookingFilter struct {
	RiderID  string
	DriverID string
	Status   models.BookingStatus
	// UnassignedOnly keeps only bookings with no driver bound, used to build
	// the open pool shown to drivers.
	UnassignedOnly bool
}

// UserStore captures account persistence needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) (models.User, error)
}

// BookingStore captures booking persistence. UpdateBooking runs apply inside
// the store's read-modify-write boundary (a transaction for SQL backends, a
// lock for the file backend) so concurrent status updates cannot lose writes.
type BookingStore interface {
	CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, id string, apply func(*models.Booking) error) (models.Booking, error)
}

// DriverStore captures driver profile and vehicle persistence.
type DriverStore interface {
	UpsertDriverProfile(ctx context.Context, p models.DriverProfile) (models.DriverProfile, error)
	GetDriverProfile(ctx context.Context, driverID string) (models.DriverProfile, error)
	ListDriverProfiles(ctx context.Context) ([]models.DriverProfile, error)
	CreateVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error)
	ListVehicles(ctx context.Context, driverID string) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error)
}

// TransactionStore records completed-booking settlements. CreateTransaction
// returns ErrAlreadyExists if the booking was already settled.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
}

// Store is the full persistence surface the server wires against.
type Store interface {
	UserStore
	BookingStore
	DriverStore
	TransactionStore
	Close()
}
