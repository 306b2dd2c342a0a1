package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fsrsite/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService manages users and their admin grants.
type UserService struct {
	db *gorm.DB
}

// UserInfo is what CAS tells us about a user on first login.
type UserInfo struct {
	UGentID   string
	FirstName string
	LastName  string
}

// UserProfile is a user together with the FSRs they administer.
type UserProfile struct {
	ID        string       `json:"id"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Admins    []FSRSummary `json:"admins"`
}

func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Get loads a user by UGent ID.
func (s *UserService) Get(ctx context.Context, id string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound.Withf("User with ID %s not found", id)
		}
		return nil, err
	}
	return &user, nil
}

// Profile loads a user with the slug and name of every FSR they administer.
func (s *UserService) Profile(ctx context.Context, id string) (*UserProfile, error) {
	var user db.User
	err := s.db.WithContext(ctx).
		Preload("Admins", func(tx *gorm.DB) *gorm.DB { return tx.Order("fsr_slug asc") }).
		Preload("Admins.FSR").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound.Withf("User with ID %s not found", id)
		}
		return nil, err
	}

	profile := &UserProfile{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Admins:    make([]FSRSummary, 0, len(user.Admins)),
	}
	for _, grant := range user.Admins {
		profile.Admins = append(profile.Admins, FSRSummary{Slug: grant.FSR.Slug, Name: grant.FSR.Name})
	}
	return profile, nil
}

// Create inserts a new user.
func (s *UserService) Create(ctx context.Context, info UserInfo) (*db.User, error) {
	user := db.User{
		ID:        strings.TrimSpace(info.UGentID),
		FirstName: strings.TrimSpace(info.FirstName),
		LastName:  strings.TrimSpace(info.LastName),
	}
	if user.ID == "" {
		return nil, ErrUGentIDMissing
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Ensure returns the existing user for info.UGentID or creates it.
func (s *UserService) Ensure(ctx context.Context, info UserInfo) (*db.User, bool, error) {
	user, err := s.Get(ctx, info.UGentID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}
	user, err = s.Create(ctx, info)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// List pages through users ordered by first name. A zero limit returns everyone.
func (s *UserService) List(ctx context.Context, page, limit int) ([]db.User, error) {
	query := s.db.WithContext(ctx).Order("first_name asc").Order("last_name asc")
	if limit > 0 {
		query = query.Limit(limit).Offset((normalizePage(page) - 1) * limit)
	}

	var users []db.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SearchByName matches term case-insensitively against first and last names.
func (s *UserService) SearchByName(ctx context.Context, term string) ([]db.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrSearchTermEmpty
	}

	like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	var users []db.User
	if err := s.db.WithContext(ctx).
		Where(`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\'`, like, like).
		Order("first_name asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetAdmin grants or revokes admin rights of userID over fsrSlug. Granting
// twice is a no-op.
func (s *UserService) SetAdmin(ctx context.Context, userID, fsrSlug string, isAdmin bool) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	tx := s.db.WithContext(ctx)
	if isAdmin {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&db.UserAdmin{UserID: userID, FSRSlug: fsrSlug}).Error
	}
	return tx.Where("user_id = ? AND fsr_slug = ?", userID, fsrSlug).Delete(&db.UserAdmin{}).Error
}

// IsAdmin reports whether a UserAdmin row exists for the pair.
func (s *UserService) IsAdmin(ctx context.Context, userID, fsrSlug string) (bool, error) {
	if userID == "" || fsrSlug == "" {
		return false, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&db.UserAdmin{}).
		Where("user_id = ? AND fsr_slug = ?", userID, fsrSlug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Admins returns the admins of fsrSlug ordered by first name.
func (s *UserService) Admins(ctx context.Context, fsrSlug string) ([]db.User, error) {
	var users []db.User
	if err := s.db.WithContext(ctx).
		Joins("JOIN user_admins ON user_admins.user_id = users.id").
		Where("user_admins.fsr_slug = ?", fsrSlug).
		Order("users.first_name asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
