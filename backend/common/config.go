package common

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var Version = "v0.4.0"
var SystemName = "Artfolio"
var ServerAddress = "http://localhost:3000"

var StartTime = time.Now().Unix()

var Port = flag.Int("port", 3000, "the listening port")
var PrintVersion = flag.Bool("version", false, "print version and exit")
var PrintHelpFlag = flag.Bool("help", false, "print help and exit")

// SessionSecret is regenerated on every start unless overridden via
// SESSION_SECRET, which is required when running multiple instances.
var SessionSecret = uuid.New().String()
var JWTSecret = ""
var JWTExpirationHours = 24

var SQLitePath = "data/artfolio.db"
var UploadPath = "data/upload"

// OptionMapRWMutex guards model.OptionMap.
var OptionMapRWMutex sync.RWMutex

// Role constants
const (
	RoleGuestUser  = 0
	RoleCommonUser = 1
	RoleAdminUser  = 10
	RoleRootUser   = 100
)

// User status constants
const (
	UserStatusEnabled  = 1
	UserStatusDisabled = 2
)

// Option keys editable at runtime through the admin option API.
const (
	OptionStorageQuotaMB  = "StorageQuotaMB"
	OptionRegisterEnabled = "RegisterEnabled"
	OptionNotice          = "Notice"
)

// Per-file-type upload constraints, in megabytes. Extension checks use
// lowercase extensions including the dot.
var (
	MaxImageSizeMB    = 10
	MaxVideoSizeMB    = 200
	MaxAudioSizeMB    = 50
	MaxDocumentSizeMB = 50

	ImageExtensions    = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}
	VideoExtensions    = []string{".mp4", ".mov", ".webm", ".mkv", ".avi"}
	AudioExtensions    = []string{".mp3", ".wav", ".ogg", ".flac", ".m4a"}
	DocumentExtensions = []string{".pdf", ".txt", ".md", ".zip", ".psd", ".ai", ".svg", ".blend"}
)

// ImageProcessingEnabled gates the sanitizer and the mockup compositor.
// Explicit flag rather than runtime capability detection.
var ImageProcessingEnabled = true

// External tool toggles for the background task runner.
var (
	ClamAVEnabled = false
	FFmpegEnabled = false
)

// InitConfig applies the optional ini config file and environment
// overrides. Called from main after flag.Parse.
func InitConfig() {
	if err := loadConfigFile(); err != nil {
		// The config file is optional; env and flags still apply.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if v := os.Getenv("SESSION_SECRET"); v != "" {
		SessionSecret = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		JWTSecret = v
	}
	if JWTSecret == "" {
		JWTSecret = SessionSecret
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		SQLitePath = v
	}
	if v := os.Getenv("UPLOAD_PATH"); v != "" {
		UploadPath = v
	}
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		ServerAddress = strings.TrimSuffix(v, "/")
	}
	if v := os.Getenv("IMAGE_PROCESSING"); v != "" {
		ImageProcessingEnabled = v != "false" && v != "0"
	}
	ClamAVEnabled = os.Getenv("CLAMAV_ENABLED") == "true"
	FFmpegEnabled = os.Getenv("FFMPEG_ENABLED") == "true"
}

// EnvInt reads an integer environment variable with a default.
func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func PrintHelp() {
	fmt.Println(SystemName + " " + Version)
	fmt.Println("Usage: artfolio [--port <port>] [--version] [--help]")
}
