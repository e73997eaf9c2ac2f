package model

import "time"

type ProjectLike struct {
	Id        int       `json:"id" gorm:"primaryKey"`
	UserId    int       `json:"user_id" gorm:"uniqueIndex:idx_like_user_project"`
	ProjectId int       `json:"project_id" gorm:"uniqueIndex:idx_like_user_project;index"`
	CreatedAt time.Time `json:"created_at"`
}

type Follow struct {
	Id        int       `json:"id" gorm:"primaryKey"`
	UserId    int       `json:"user_id" gorm:"uniqueIndex:idx_follow_user_target"`
	TargetId  int       `json:"target_id" gorm:"uniqueIndex:idx_follow_user_target;index"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	Id          int       `json:"id" gorm:"primaryKey"`
	SenderId    int       `json:"sender_id" gorm:"index"`
	RecipientId int       `json:"recipient_id" gorm:"index"`
	Body        string    `json:"body" gorm:"size:4096"`
	IsRead      bool      `json:"is_read" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeviceLocation records a self-reported device position, used by the
// admin map screen.
type DeviceLocation struct {
	Id        int       `json:"id" gorm:"primaryKey"`
	UserId    int       `json:"user_id" gorm:"index"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	AccuracyM *float64  `json:"accuracy_m"`
	Ip        string    `json:"ip" gorm:"size:64"`
	UserAgent string    `json:"user_agent" gorm:"size:256"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleLike flips the like state and reports whether the project is
// now liked.
func ToggleLike(userId int, projectId int) (bool, error) {
	var like ProjectLike
	err := DB.First(&like, "user_id = ? AND project_id = ?", userId, projectId).Error
	if err == nil {
		if err := DB.Delete(&like).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	like = ProjectLike{UserId: userId, ProjectId: projectId}
	if err := DB.Create(&like).Error; err != nil {
		return false, err
	}
	return true, nil
}

func CountLikes(projectId int) int64 {
	var count int64
	DB.Model(&ProjectLike{}).Where("project_id = ?", projectId).Count(&count)
	return count
}

func IsLikedBy(userId int, projectId int) bool {
	var count int64
	DB.Model(&ProjectLike{}).Where("user_id = ? AND project_id = ?", userId, projectId).Count(&count)
	return count > 0
}

// ToggleFollow flips the follow state and reports whether the target is
// now followed.
func ToggleFollow(userId int, targetId int) (bool, error) {
	var follow Follow
	err := DB.First(&follow, "user_id = ? AND target_id = ?", userId, targetId).Error
	if err == nil {
		if err := DB.Delete(&follow).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	follow = Follow{UserId: userId, TargetId: targetId}
	if err := DB.Create(&follow).Error; err != nil {
		return false, err
	}
	return true, nil
}

func CountFollowers(targetId int) int64 {
	var count int64
	DB.Model(&Follow{}).Where("target_id = ?", targetId).Count(&count)
	return count
}

func IsFollowing(userId int, targetId int) bool {
	var count int64
	DB.Model(&Follow{}).Where("user_id = ? AND target_id = ?", userId, targetId).Count(&count)
	return count > 0
}

// GetConversation returns the messages between two users, oldest first,
// and marks the inbound ones read.
func GetConversation(userId int, peerId int, limit int) ([]Message, error) {
	var messages []Message
	q := DB.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		userId, peerId, peerId, userId,
	).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	DB.Model(&Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = ?", peerId, userId, false).
		Update("is_read", true)
	return messages, nil
}
