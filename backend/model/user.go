package model

import (
	"errors"
	"strings"
	"time"

	"artfolio/backend/common"

	"gorm.io/gorm"
)

type User struct {
	Id          int       `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:64;uniqueIndex"`
	Password    string    `json:"-" gorm:"size:128"`
	DisplayName string    `json:"display_name" gorm:"size:64"`
	Email       string    `json:"email" gorm:"size:128"`
	Bio         string    `json:"bio" gorm:"size:1024"`
	Role        int       `json:"role" gorm:"default:1"`
	Status      int       `json:"status" gorm:"default:1"`
	Token       string    `json:"-" gorm:"size:64;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) Insert() error {
	if u.Username == "" || u.Password == "" {
		return errors.New("username and password are required")
	}
	hashed, err := common.Password2Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	if u.Token == "" {
		u.Token = common.GetUUID()
	}
	return DB.Create(u).Error
}

func (u *User) Update() error {
	return DB.Model(u).Updates(u).Error
}

// ValidateAndFill checks the supplied password against the stored hash
// and fills the remaining fields on success.
func (u *User) ValidateAndFill() error {
	password := u.Password
	var stored User
	err := DB.Where("username = ?", u.Username).First(&stored).Error
	if err != nil {
		return errors.New("invalid username or password")
	}
	if !common.ValidatePasswordAndHash(password, stored.Password) {
		return errors.New("invalid username or password")
	}
	if stored.Status != common.UserStatusEnabled {
		return errors.New("user is disabled")
	}
	*u = stored
	return nil
}

func GetUserById(id int) (*User, error) {
	var user User
	err := DB.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(username string) (*User, error) {
	var user User
	err := DB.First(&user, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func ValidateUserToken(token string) *User {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	var user User
	if err := DB.First(&user, "token = ?", token).Error; err != nil {
		return nil
	}
	return &user
}

func IsUsernameTaken(username string) bool {
	var count int64
	DB.Model(&User{}).Where("username = ?", username).Count(&count)
	return count > 0
}

func DeleteUserById(id int) error {
	if id == 0 {
		return errors.New("id is empty")
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&PackageMockup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR target_id = ?", id, id).Delete(&Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&ProjectLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR recipient_id = ?", id, id).Delete(&Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&DeviceLocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&StorageSettings{}).Error; err != nil {
			return err
		}
		return tx.Delete(&User{}, "id = ?", id).Error
	})
}
