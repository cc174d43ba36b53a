package secrets

import (
	"context"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Yuji-2251/expert-assistant/utils/log"
)

// FileStore implements domain.SecretStore over a local secrets file
// (secrets.toml by default; viper also accepts yaml/json by extension).
// A missing file is not an error: lookups just return empty and the caller
// falls back to the environment.
type FileStore struct {
	v *viper.Viper
}

func New(path string) *FileStore {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		log.WithCtx(context.Background()).Info("secrets file not loaded, relying on environment",
			zap.String("path", path),
			zap.Error(err))
	}
	return &FileStore{v: v}
}

func (s *FileStore) Get(name string) string {
	return s.v.GetString(name)
}
