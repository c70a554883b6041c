package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// SettingsFileName is the file name under the user config directory.
const SettingsFileName = "settings.msgpack"

// Settings are the player preferences that survive restarts. Only the
// cosmetic skin is stored; nothing here affects gameplay.
type Settings struct {
	AltSkin bool `msgpack:"alt_skin"`
}

// DefaultSettingsPath returns $STARFALL_SETTINGS, or settings.msgpack in the
// user's config directory.
func DefaultSettingsPath() string {
	if p := GetEnv("STARFALL_SETTINGS", ""); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return SettingsFileName
	}
	return filepath.Join(dir, "starfall", SettingsFileName)
}

// LoadSettings reads the settings file. A missing file yields defaults and
// no error; a corrupt file yields defaults and the decode error.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes the settings file, creating its directory. The write
// goes through a temp file so a crash never leaves a truncated file.
func SaveSettings(path string, s Settings) error {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
