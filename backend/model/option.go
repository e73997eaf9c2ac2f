package model

import (
	"strconv"

	"artfolio/backend/common"
)

type Option struct {
	Key   string `json:"key" gorm:"primaryKey;size:64"`
	Value string `json:"value" gorm:"size:1024"`
}

// OptionMap is the in-memory copy of runtime options, guarded by
// common.OptionMapRWMutex.
var OptionMap = map[string]string{}

func InitOptionMap() error {
	common.OptionMapRWMutex.Lock()
	OptionMap = map[string]string{
		common.OptionStorageQuotaMB:  strconv.Itoa(common.EnvInt("USER_STORAGE_QUOTA_MB", 0)),
		common.OptionRegisterEnabled: "true",
		common.OptionNotice:          "",
	}
	common.OptionMapRWMutex.Unlock()

	var options []Option
	if err := DB.Find(&options).Error; err != nil {
		return err
	}
	common.OptionMapRWMutex.Lock()
	for _, option := range options {
		OptionMap[option.Key] = option.Value
	}
	common.OptionMapRWMutex.Unlock()
	return nil
}

func GetOption(key string) string {
	common.OptionMapRWMutex.RLock()
	defer common.OptionMapRWMutex.RUnlock()
	return OptionMap[key]
}

func GetIntOption(key string) int {
	v, err := strconv.Atoi(GetOption(key))
	if err != nil {
		return 0
	}
	return v
}

func GetBoolOption(key string) bool {
	return GetOption(key) == "true"
}

// UpdateOption persists the option and refreshes the in-memory map.
func UpdateOption(key string, value string) error {
	option := Option{Key: key, Value: value}
	if err := DB.Save(&option).Error; err != nil {
		return err
	}
	common.OptionMapRWMutex.Lock()
	OptionMap[key] = value
	common.OptionMapRWMutex.Unlock()
	return nil
}

func AllOptions() map[string]string {
	common.OptionMapRWMutex.RLock()
	defer common.OptionMapRWMutex.RUnlock()
	out := make(map[string]string, len(OptionMap))
	for k, v := range OptionMap {
		out[k] = v
	}
	return out
}
