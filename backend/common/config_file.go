package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"
)

const defaultConfigTemplate = "PORT=3000\nSQLITE_PATH=data/artfolio.db\nUPLOAD_PATH=data/upload\nJWT_SECRET=%s\n"

func loadConfigFile() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".config", "artfolio", "config.ini")
	if err := ensureConfigFile(configPath); err != nil {
		return err
	}

	configMap, err := parseIniConfig(configPath)
	if err != nil {
		return err
	}

	applyConfigMap(configMap)
	return nil
}

func ensureConfigFile(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", configDir, err)
	}

	configFile, err := os.OpenFile(configPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create config file %s: %w", configPath, err)
	}
	defer configFile.Close()

	if _, err := configFile.WriteString(fmt.Sprintf(defaultConfigTemplate, uuid.New().String())); err != nil {
		return fmt.Errorf("write default config file %s: %w", configPath, err)
	}

	return nil
}

func parseIniConfig(path string) (map[string]string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse ini config %s: %w", path, err)
	}

	configMap := make(map[string]string)
	for _, section := range cfg.Sections() {
		for _, key := range section.Keys() {
			configKey := strings.ToUpper(strings.TrimSpace(key.Name()))
			if configKey == "" {
				continue
			}
			configMap[configKey] = strings.TrimSpace(key.Value())
		}
	}

	return configMap, nil
}

func applyConfigMap(configMap map[string]string) {
	if v, ok := configMap["SESSION_SECRET"]; ok && v != "" {
		SessionSecret = v
	}
	if v, ok := configMap["JWT_SECRET"]; ok && v != "" {
		JWTSecret = v
	}
	if v, ok := configMap["SQLITE_PATH"]; ok && v != "" {
		SQLitePath = v
	}
	if v, ok := configMap["UPLOAD_PATH"]; ok && v != "" {
		UploadPath = v
	}
	if v, ok := configMap["SERVER_ADDRESS"]; ok && v != "" {
		ServerAddress = strings.TrimSuffix(v, "/")
	}
	if v, ok := configMap["PORT"]; ok && v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			*Port = p
		}
	}
}
