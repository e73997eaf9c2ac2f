package service

import (
	"mime/multipart"

	"artfolio/backend/common"
	"artfolio/backend/model"
)

// ResolveQuotaMB returns the quota applying to a user: a nonzero
// per-user override wins, otherwise the global StorageQuotaMB option.
// Zero or negative means unlimited.
func ResolveQuotaMB(userId int) int {
	settings, err := model.GetStorageSettings(userId)
	if err == nil && settings.QuotaMB != nil && *settings.QuotaMB != 0 {
		return *settings.QuotaMB
	}
	return model.GetIntOption(common.OptionStorageQuotaMB)
}

// WouldExceed reports whether adding the given bytes would push the
// user past their quota. Current usage alone never rejects; only the
// increment does.
func WouldExceed(userId int, addBytes int64) bool {
	quotaMB := ResolveQuotaMB(userId)
	if quotaMB <= 0 {
		return false
	}
	if addBytes < 0 {
		addBytes = 0
	}
	return UsageBytes(userId)+addBytes > int64(quotaMB)*1024*1024
}

// IncomingFilesSize sums the declared sizes of a multipart upload. Nil
// entries are skipped.
func IncomingFilesSize(files ...*multipart.FileHeader) int64 {
	var total int64
	for _, f := range files {
		if f == nil {
			continue
		}
		if f.Size > 0 {
			total += f.Size
		}
	}
	return total
}
