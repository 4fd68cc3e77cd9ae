package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/internal/models"
)

// UserService handles accounts: signup, login, profile and password changes.
type UserService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewUserService(db *gorm.DB, settings *SettingsService) *UserService {
	return &UserService{db: db, settings: settings}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a user with a hashed password and default company settings.
func (s *UserService) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, Name: strings.TrimSpace(name), Password: string(hash)}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := s.emailTaken(tx, email, 0); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		cs, err := s.settings.load(tx, user.ID)
		if err != nil {
			return err
		}
		if cs.Name == "" {
			cs.Name = companyName(user)
			return tx.Model(cs).Update("name", cs.Name).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func companyName(u *models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Login returns the user matching email and password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get returns the user with id.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a live user with id exists. It backs the session
// verifier.
func (s *UserService) Exists(ctx context.Context, id uint) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count)
	return count > 0
}

// UpdateProfile changes name and email.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, name, email string) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		email = normalizeEmail(email)
		if taken, err := s.emailTaken(tx, email, id); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}
		u.Name, u.Email = strings.TrimSpace(name), email
		if err := tx.Model(&u).Select("name", "email").Updates(&u).Error; err != nil {
			return err
		}
		user = &u
		return nil
	})
	return user, err
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("password", string(hash)).Error
}

func (s *UserService) emailTaken(tx *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.User{}).Unscoped().Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
