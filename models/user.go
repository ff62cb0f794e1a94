package models

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

type User struct {
	ID          uint64   `gorm:"primaryKey" json:"id"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"-"`
	Name        string   `gorm:"type:varchar(100);not null" json:"name"`
	Email       string   `gorm:"type:varchar(180);index:uniq_email,unique;not null" json:"email"`
	Password    string   `gorm:"type:varchar(128)" json:"-"`
	Roles       []string `gorm:"serializer:json" json:"roles"`
	Admin       bool     `gorm:"not null;default:false;index" json:"admin"` // mirrors RoleAdmin, see BeforeSave
	Active      bool     `gorm:"not null" json:"active"`
	Description string   `gorm:"type:text" json:"description"`
}

func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if len(u.Roles) == 0 {
		u.Roles = []string{RoleUser}
	}
	u.Admin = u.HasRole(RoleAdmin)
	return
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

func (u *User) SetPassword(plainTextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) == nil
}

func (s *Store) FindUser(ctx context.Context, id uint64) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Admin returns the site owner
func (s *Store) Admin(ctx context.Context) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).Where("admin = ?", true).Order("id ASC").First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Guests lists the active users that are not administrators
func (s *Store) Guests(ctx context.Context) ([]User, error) {
	var users []User
	err := s.DB.WithContext(ctx).
		Where("admin = ? AND active = ?", false, true).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

// ActiveUsers is used for the owner selector of the media form
func (s *Store) ActiveUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := s.DB.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&users).Error
	return users, err
}

func (s *Store) ListUsers(ctx context.Context, page, limit int) (Page[User], error) {
	return Paginate[User](s.DB.WithContext(ctx).Model(&User{}).Order("id DESC"), page, limit)
}

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	if _, err := s.FindUserByEmail(ctx, u.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.DB.WithContext(ctx).Create(u).Error
}

func (s *Store) SaveUser(ctx context.Context, u *User) error {
	return s.DB.WithContext(ctx).Save(u).Error
}

// DeleteUser removes the account; its media stay as unowned media
func (s *Store) DeleteUser(ctx context.Context, u *User) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Media{}).Where("user_id = ?", u.ID).Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(u).Error
	})
}

// EnsureAdmin creates the site owner account unless an admin already exists
func (s *Store) EnsureAdmin(ctx context.Context, name, email, password string) (*User, bool, error) {
	if admin, err := s.Admin(ctx); err == nil {
		return admin, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	u := &User{
		Name:   name,
		Email:  email,
		Roles:  []string{RoleAdmin},
		Active: true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, false, err
	}
	if err := s.CreateUser(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
