package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itassets-dashboard/internal/models"
)

// Profiles persists user accounts.
type Profiles interface {
	// Create stores p and fills in its ids and timestamps.
	Create(ctx context.Context, p *models.Profile) error
	GetByEmail(ctx context.Context, email string) (models.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	UpdateFullName(ctx context.Context, userID uuid.UUID, fullName *string) (models.Profile, error)
}

const profileColumns = "id, user_id, email, password_hash, full_name, role, created_at, updated_at"

// PGProfiles reads and writes the profiles table.
type PGProfiles struct {
	pool *pgxpool.Pool
}

func NewPGProfiles(pool *pgxpool.Pool) *PGProfiles {
	return &PGProfiles{pool: pool}
}

func (s *PGProfiles) Create(ctx context.Context, p *models.Profile) error {
	if p.UserID == uuid.Nil {
		p.UserID = uuid.New()
	}
	rows, err := s.pool.Query(ctx, `
		INSERT INTO profiles (user_id, email, password_hash, full_name, role)
		VALUES ($1, lower($2), $3, $4, $5)
		RETURNING `+profileColumns,
		p.UserID, p.Email, p.PasswordHash, p.FullName, p.Role)
	if err != nil {
		return mapError("insert profile", err)
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Profile])
	if err != nil {
		return mapError("insert profile", err)
	}
	*p = created
	return nil
}

func (s *PGProfiles) GetByEmail(ctx context.Context, email string) (models.Profile, error) {
	return s.one(ctx, "get profile", "SELECT "+profileColumns+" FROM profiles WHERE email = lower($1)", email)
}

func (s *PGProfiles) GetByUserID(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	return s.one(ctx, "get profile", "SELECT "+profileColumns+" FROM profiles WHERE user_id = $1", userID)
}

func (s *PGProfiles) UpdateFullName(ctx context.Context, userID uuid.UUID, fullName *string) (models.Profile, error) {
	return s.one(ctx, "update profile", `
		UPDATE profiles SET full_name = $1, updated_at = now()
		WHERE user_id = $2
		RETURNING `+profileColumns, fullName, userID)
}

func (s *PGProfiles) one(ctx context.Context, op, sql string, args ...any) (models.Profile, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return models.Profile{}, mapError(op, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Profile])
	if err != nil {
		return models.Profile{}, mapError(op, err)
	}
	return p, nil
}

// MemoryProfiles is the in-process Profiles used with STORE_DRIVER=memory.
type MemoryProfiles struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID]models.Profile
}

func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{byUser: map[uuid.UUID]models.Profile{}}
}

func (s *MemoryProfiles) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(p.Email)
	for _, existing := range s.byUser {
		if existing.Email == email {
			return fmt.Errorf("insert profile: %w", withMessage(ErrConflict, "e-mail já cadastrado"))
		}
	}

	now := time.Now().UTC()
	p.ID = uuid.New()
	if p.UserID == uuid.Nil {
		p.UserID = uuid.New()
	}
	p.Email = email
	p.CreatedAt = now
	p.UpdatedAt = now
	s.byUser[p.UserID] = *p
	return nil
}

func (s *MemoryProfiles) GetByEmail(_ context.Context, email string) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byUser {
		if p.Email == strings.ToLower(email) {
			return p, nil
		}
	}
	return models.Profile{}, fmt.Errorf("get profile: %w", ErrNotFound)
}

func (s *MemoryProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byUser[userID]
	if !ok {
		return models.Profile{}, fmt.Errorf("get profile: %w", ErrNotFound)
	}
	return p, nil
}

func (s *MemoryProfiles) UpdateFullName(_ context.Context, userID uuid.UUID, fullName *string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byUser[userID]
	if !ok {
		return models.Profile{}, fmt.Errorf("update profile: %w", ErrNotFound)
	}
	p.FullName = fullName
	p.UpdatedAt = time.Now().UTC()
	s.byUser[userID] = p
	return p, nil
}
