package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// SecretManager reads deploy secrets from Vault KV v2. Only used when the
// vault block is enabled in config; otherwise secrets come from env vars.
type SecretManager struct {
	client *api.Client
	path   string
}

func NewSecretManager(address, token, path string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	if path == "" {
		path = "secret/data/canaswarm"
	}

	return &SecretManager{client: client, path: path}, nil
}

func (sm *SecretManager) read(key string) (string, error) {
	secret, err := sm.client.Logical().Read(sm.path)
	if err != nil {
		return "", err
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: no secret at %s", sm.path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: unexpected secret shape at %s", sm.path)
	}
	value, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: key %q not found at %s", key, sm.path)
	}
	return value, nil
}

// GetPrecisionAPIKey returns the Precision Platform API key.
func (sm *SecretManager) GetPrecisionAPIKey() (string, error) {
	return sm.read("precision_api_key")
}

// GetJWTSecret returns the HS256 signing secret for the API.
func (sm *SecretManager) GetJWTSecret() (string, error) {
	return sm.read("jwt_secret")
}

// GetDatabaseURL returns the PostgreSQL connection string.
func (sm *SecretManager) GetDatabaseURL() (string, error) {
	return sm.read("database_url")
}
