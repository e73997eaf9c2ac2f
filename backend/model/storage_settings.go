package model

// StorageSettings holds the per-user quota override. A nil or zero
// QuotaMB falls through to the global StorageQuotaMB option; a
// negative value means unlimited.
type StorageSettings struct {
	Id      int  `json:"id" gorm:"primaryKey"`
	UserId  int  `json:"user_id" gorm:"uniqueIndex"`
	QuotaMB *int `json:"quota_mb"`
}

func GetStorageSettings(userId int) (*StorageSettings, error) {
	var settings StorageSettings
	if err := DB.First(&settings, "user_id = ?", userId).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// SetStorageQuota upserts the per-user override. Passing nil clears the
// override back to the global default.
func SetStorageQuota(userId int, quotaMB *int) error {
	var settings StorageSettings
	err := DB.First(&settings, "user_id = ?", userId).Error
	if err != nil {
		settings = StorageSettings{UserId: userId, QuotaMB: quotaMB}
		return DB.Create(&settings).Error
	}
	settings.QuotaMB = quotaMB
	return DB.Model(&settings).Select("quota_mb").Updates(map[string]interface{}{"quota_mb": quotaMB}).Error
}

func ResetAllStorageQuotas() (int64, error) {
	result := DB.Model(&StorageSettings{}).Where("quota_mb IS NOT NULL").
		Update("quota_mb", nil)
	return result.RowsAffected, result.Error
}
