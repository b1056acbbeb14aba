package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SecretsDir - стандартный путь Docker Secrets.
var SecretsDir = "/run/secrets"

// ReadSecret читает секрет из файла в SecretsDir.
func ReadSecret(name string) (string, error) {
	path := filepath.Join(SecretsDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", path, err)
	}
	secret := strings.TrimSpace(string(raw))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", path)
	}
	return secret, nil
}

func lookupEnvOrSecret(envKey, secretName string, read func(string) (string, error)) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	v, err := read(secretName)
	if err != nil {
		return ""
	}
	return v
}
