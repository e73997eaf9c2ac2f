package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"artfolio/backend/api/middleware"
	"artfolio/backend/api/route"
	"artfolio/backend/common"
	"artfolio/backend/common/i18n"
	"artfolio/backend/library/imaging"
	"artfolio/backend/library/storage"
	"artfolio/backend/library/tasks"
	"artfolio/backend/model"
	"artfolio/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	common.InitConfig()
	common.SetupGinLog()
	common.SysLog(common.SystemName + " " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := common.InitRedisClient(); err != nil {
		common.FatalLog(err)
	}
	if err := i18n.Init(); err != nil {
		common.FatalLog(err)
	}
	if err := model.InitDB(); err != nil {
		common.FatalLog(err)
	}
	defer func() {
		if err := model.CloseDB(); err != nil {
			common.FatalLog(err)
		}
	}()

	store, err := storage.NewLocal(common.UploadPath)
	if err != nil {
		common.FatalLog(err)
	}
	service.Init(
		store,
		imaging.Sanitizer{Enabled: common.ImageProcessingEnabled},
		tasks.NewRunner(),
	)

	server := gin.Default()
	server.Use(middleware.CORS())

	if common.RedisEnabled {
		opt := common.ParseRedisOption()
		sessionStore, _ := redis.NewStore(opt.MinIdleConns, opt.Network, opt.Addr, opt.Password, []byte(common.SessionSecret))
		server.Use(sessions.Sessions("session", sessionStore))
	} else {
		sessionStore := cookie.NewStore([]byte(common.SessionSecret))
		server.Use(sessions.Sessions("session", sessionStore))
	}

	route.SetRouter(server)
	server.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(404, gin.H{
				"success": false,
				"message": "API route not found",
			})
			return
		}
		c.JSON(404, gin.H{
			"success": false,
			"message": "not found",
		})
	})

	setupGracefulShutdown()

	port := strconv.Itoa(*common.Port)
	common.SysLog("Server listening on port: " + port)
	if err := server.Run(":" + port); err != nil {
		log.Fatal("failed to start server: " + err.Error())
	}
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		common.SysLog("Shutting down...")
		if err := model.CloseDB(); err != nil {
			common.SysLog("Error closing database: " + err.Error())
		}
		os.Exit(0)
	}()
}
