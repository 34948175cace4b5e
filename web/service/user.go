package service

import (
	"github.com/libdesk/libdesk/database"
	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/util/crypto"

	"gorm.io/gorm"
)

// UserService manages login accounts. Accounts are created from the CLI or
// the first-start seed; the web panel only authenticates against them.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// CheckUser returns the user whose username and password match. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) CheckUser(username string, password string) (*model.User, error) {
	user := &model.User{}
	err := s.DB.Where("username = ?", username).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil, err
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUsers() ([]model.User, error) {
	var users []model.User
	if err := s.DB.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) AddUser(username string, password string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: username, Password: hash, Role: role}
	if err := s.DB.Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrDuplicateUsername.wrap(err)
		}
		return nil, err
	}
	logger.Infof("user %q created with role %s", username, role)
	return user, nil
}

func (s *UserService) ResetPassword(username string, password string) error {
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	res := s.DB.Model(&model.User{}).Where("username = ?", username).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
