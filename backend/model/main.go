package model

import (
	"fmt"
	"os"
	"path/filepath"

	"artfolio/backend/common"

	"github.com/burugo/thing"
	redisCache "github.com/burugo/thing/drivers/cache/redis"
	thingSqlite "github.com/burugo/thing/drivers/db/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func createRootAccountIfNeed() error {
	var count int64
	if err := DB.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		common.SysLog("no user exists, create a root user for you: username is root, password is 123456")
		hashedPassword, err := common.Password2Hash("123456")
		if err != nil {
			return err
		}
		rootUser := User{
			Username:    "root",
			Password:    hashedPassword,
			Role:        common.RoleRootUser,
			Status:      common.UserStatusEnabled,
			DisplayName: "Root User",
			Email:       "root@localhost",
			Token:       common.GetUUID(),
		}
		return DB.Create(&rootUser).Error
	}
	return nil
}

func openDB() (*gorm.DB, error) {
	if dsn := os.Getenv("SQL_DSN"); dsn != "" {
		common.SysLog("using MySQL as database")
		return gorm.Open(mysql.Open(dsn), &gorm.Config{PrepareStmt: true})
	}
	common.SysLog("using SQLite as database")
	if dir := filepath.Dir(common.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return gorm.Open(sqlite.Open(common.SQLitePath), &gorm.Config{PrepareStmt: true})
}

func InitDB() (err error) {
	DB, err = openDB()
	if err != nil {
		common.FatalLog("failed to initialize database: " + err.Error())
		return err
	}

	err = DB.AutoMigrate(
		&User{},
		&StorageSettings{},
		&Category{},
		&Project{},
		&ProjectImage{},
		&ProjectFile{},
		&PackageMockup{},
		&ProjectLike{},
		&Follow{},
		&Message{},
		&DeviceLocation{},
		&Option{},
	)
	if err != nil {
		return err
	}

	if err = createRootAccountIfNeed(); err != nil {
		return err
	}
	if err = InitOptionMap(); err != nil {
		return err
	}

	initRequestLogStore()
	return nil
}

// initRequestLogStore wires the Thing ORM used by the request log. A
// failure here disables traffic analytics but never blocks startup.
func initRequestLogStore() {
	adapter, err := thingSqlite.NewSQLiteAdapter(common.SQLitePath)
	if err != nil {
		common.SysError(fmt.Sprintf("request log store unavailable: %v", err))
		return
	}
	var cacheClient thing.CacheClient
	if common.RedisEnabled && common.RDB != nil {
		cacheClient, err = redisCache.NewClient(common.RDB, nil)
		if err != nil {
			common.SysError(fmt.Sprintf("request log cache unavailable: %v", err))
			cacheClient = nil
		}
	}
	thing.Configure(adapter, cacheClient)
	if err := thing.AutoMigrate(&RequestLog{}); err != nil {
		common.SysError(fmt.Sprintf("request log migration failed: %v", err))
	}
}

func CloseDB() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func CountTable(model interface{}) int64 {
	var count int64
	if err := DB.Model(model).Count(&count).Error; err != nil {
		common.SysError("failed to count table: " + err.Error())
		return 0
	}
	return count
}
