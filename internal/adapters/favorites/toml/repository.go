// Package toml persists the favorited post list in a versioned TOML file.
// Writes go through a temp file and rename so a crash never leaves a
// half-written list behind.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/blogware/blogctl/internal/domain"
	"github.com/blogware/blogctl/internal/ports"
)

const (
	configName        = "config"
	configType        = "toml"
	favoritesPathKey  = "favorites.path"
	favoritesFileMode = 0o600
	favoritesDirMode  = 0o700
	configDir         = ".blogctl"
	favoritesFile     = "favorites.toml"
	tempFilePattern   = ".favorites-*.toml.tmp"
)

type Repository struct {
	favoritesPath string
	mu            *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.FavoritesRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDir, favoritesFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetDefault(favoritesPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	favoritesPath := cfg.GetString(favoritesPathKey)
	if favoritesPath == "" {
		return nil, errors.New("favorites path is empty")
	}
	favoritesPath, err = normalizePath(favoritesPath)
	if err != nil {
		return nil, err
	}

	return &Repository{favoritesPath: favoritesPath, mu: lockForPath(favoritesPath)}, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.PostID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	ids := make([]domain.PostID, 0, len(file.Favorites))
	for _, raw := range file.Favorites {
		ids = append(ids, domain.PostID(raw))
	}

	return ids, nil
}

func (r *Repository) Save(ctx context.Context, ids []domain.PostID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file := fileSchema{Version: currentSchemaVersion}
	file.Favorites = make([]string, 0, len(ids))
	for _, id := range ids {
		file.Favorites = append(file.Favorites, string(id))
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.favoritesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read favorites file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode favorites file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.favoritesPath), favoritesDirMode); err != nil {
		return fmt.Errorf("create favorites directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode favorites file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.favoritesPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp favorites file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp favorites file: %w", err)
	}

	if err := tempFile.Chmod(favoritesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp favorites file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp favorites file: %w", err)
	}

	if err := os.Rename(tempName, r.favoritesPath); err != nil {
		return fmt.Errorf("replace favorites file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.favoritesPath, favoritesFileMode); err != nil {
		return fmt.Errorf("chmod favorites file: %w", err)
	}

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve favorites path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
