package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int      `toml:"version"`
	Favorites []string `toml:"favorites"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Favorites == nil {
		s.Favorites = []string{}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported favorites schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}
