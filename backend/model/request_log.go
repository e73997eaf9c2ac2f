package model

import (
	"errors"
	"fmt"
	"sync"

	"artfolio/backend/common"

	"github.com/burugo/thing"
)

// RequestLog is one recorded HTTP request, used by the admin traffic
// analytics screens. Stored through the Thing ORM so writes stay cheap
// on the hot path.
type RequestLog struct {
	thing.BaseModel
	UserId     int64  `db:"user_id,index"`
	Username   string `db:"username"`
	Method     string `db:"method"`
	Path       string `db:"path"`
	Status     int    `db:"status,index"`
	DurationMs int64  `db:"duration_ms"`
	Ip         string `db:"ip"`
	UserAgent  string `db:"user_agent"`
	Country    string `db:"country,index"`
	Region     string `db:"region"`
	City       string `db:"city"`
	LoggedAt   int64  `db:"logged_at,index"`
}

func (r *RequestLog) TableName() string {
	return "request_logs"
}

var requestLogThing *thing.Thing[*RequestLog]
var initRequestLogOnce sync.Once
var initRequestLogErr error

// GetRequestLogThing initializes and returns the Thing ORM handle for
// RequestLog, assuming thing.Configure ran at startup.
func GetRequestLogThing() (*thing.Thing[*RequestLog], error) {
	initRequestLogOnce.Do(func() {
		ormInstance, err := thing.Use[*RequestLog]()
		if err != nil {
			msg := fmt.Sprintf("request log ORM unavailable: %v", err)
			common.SysError(msg)
			initRequestLogErr = errors.New(msg)
			return
		}
		requestLogThing = ormInstance
	})
	if initRequestLogErr != nil {
		return nil, initRequestLogErr
	}
	if requestLogThing == nil {
		return nil, errors.New("request log ORM is nil after initialization")
	}
	return requestLogThing, nil
}

// RecordRequestLog saves one log entry. It degrades gracefully when the
// log store never came up.
func RecordRequestLog(entry *RequestLog) {
	logThing, err := GetRequestLogThing()
	if err != nil {
		return
	}
	if err := logThing.Save(entry); err != nil {
		common.SysError(fmt.Sprintf("failed to save request log: %v", err))
	}
}

// AllRequestLogs fetches every stored log entry. Aggregation happens in
// Go; the table is periodically purged to keep this bounded.
func AllRequestLogs() ([]*RequestLog, error) {
	logThing, err := GetRequestLogThing()
	if err != nil {
		return nil, err
	}
	result := logThing.Query(thing.QueryParams{})
	return result.All()
}

// PurgeRequestLogs deletes entries older than cutoff (unix seconds). A
// cutoff of zero deletes everything. Returns the number removed.
func PurgeRequestLogs(cutoff int64) (int, error) {
	logThing, err := GetRequestLogThing()
	if err != nil {
		return 0, err
	}
	logs, err := logThing.Query(thing.QueryParams{}).All()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range logs {
		if cutoff > 0 && entry.LoggedAt >= cutoff {
			continue
		}
		if err := logThing.Delete(entry); err != nil {
			common.SysError(fmt.Sprintf("failed to delete request log %d: %v", entry.ID, err))
			continue
		}
		removed++
	}
	return removed, nil
}
