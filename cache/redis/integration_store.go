package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"go.pavemaster.dev/integrations/domain"
)

// IntegrationStore implements domain.IntegrationStore on Redis. Credentials
// are hashes, the sync history is a list of JSON documents.
type IntegrationStore struct {
	client redis.UniversalClient
	prefix string
}

// NewIntegrationStore creates a store whose keys all start with prefix.
func NewIntegrationStore(client redis.UniversalClient, prefix string) *IntegrationStore {
	return &IntegrationStore{client: client, prefix: prefix}
}

func (s *IntegrationStore) credentialKey(platform domain.Platform) string {
	return fmt.Sprintf("%s:credential:%s", s.prefix, platform)
}

func (s *IntegrationStore) historyKey() string {
	return s.prefix + ":sync_history"
}

// saveCredentialScript writes the hash only when its version field still
// matches ARGV[1]. It returns the new version, or -1 with the stored version.
var saveCredentialScript = redis.NewScript(`
local stored = tonumber(redis.call('HGET', KEYS[1], 'version') or '0')
if stored ~= tonumber(ARGV[1]) then
	return {-1, stored}
end
redis.call('HSET', KEYS[1], unpack(ARGV, 2))
redis.call('HSET', KEYS[1], 'version', stored + 1)
return {stored + 1, stored}
`)

// Save stores the credential hash if nobody saved it since cred was loaded.
func (s *IntegrationStore) Save(ctx context.Context, platform domain.Platform, cred *domain.Credential) error {
	args := []interface{}{
		cred.Version,
		"platform_id", string(platform),
		"client_id", cred.ClientID,
		"client_secret", cred.ClientSecret,
		"access_token", cred.AccessToken,
		"refresh_token", cred.RefreshToken,
		"expires_at", cred.ExpiresAtEpochMillis(),
		"updated_at", cred.UpdatedAt.UnixMilli(),
	}
	res, err := saveCredentialScript.Run(ctx, s.client, []string{s.credentialKey(platform)}, args...).Int64Slice()
	if err != nil {
		return fmt.Errorf("failed to set %s credential in Redis: %w", platform, err)
	}
	if len(res) != 2 {
		return fmt.Errorf("unexpected reply saving %s credential: %v", platform, res)
	}
	if res[0] < 0 {
		return fmt.Errorf("%w: %s saved at version %d, stored version is %d",
			domain.ErrCredentialConflict, platform, cred.Version, res[1])
	}
	cred.Version = res[0]
	return nil
}

// Load reads the credential hash.
func (s *IntegrationStore) Load(ctx context.Context, platform domain.Platform) (*domain.Credential, error) {
	res, err := s.client.HGetAll(ctx, s.credentialKey(platform)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s credential from Redis: %w", platform, err)
	}
	if len(res) == 0 {
		return nil, domain.ErrCredentialNotFound
	}

	cred := &domain.Credential{
		PlatformID:   domain.Platform(res["platform_id"]),
		ClientID:     res["client_id"],
		ClientSecret: res["client_secret"],
		AccessToken:  res["access_token"],
		RefreshToken: res["refresh_token"],
	}
	if cred.ExpiresAt, err = parseMillis(res["expires_at"]); err != nil {
		return nil, fmt.Errorf("invalid expires_at for %s: %w", platform, err)
	}
	if cred.UpdatedAt, err = parseMillis(res["updated_at"]); err != nil {
		return nil, fmt.Errorf("invalid updated_at for %s: %w", platform, err)
	}
	if v := res["version"]; v != "" {
		if cred.Version, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid version for %s: %w", platform, err)
		}
	}
	return cred, nil
}

// Append pushes the status onto the history list.
func (s *IntegrationStore) Append(ctx context.Context, status *domain.SyncStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal sync status: %w", err)
	}
	if err := s.client.RPush(ctx, s.historyKey(), raw).Err(); err != nil {
		return fmt.Errorf("failed to append sync status in Redis: %w", err)
	}
	return nil
}

// Query reads the whole history list and filters it.
func (s *IntegrationStore) Query(ctx context.Context, platform domain.Platform) ([]domain.SyncStatus, error) {
	entries, err := s.client.LRange(ctx, s.historyKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read sync history from Redis: %w", err)
	}

	out := make([]domain.SyncStatus, 0, len(entries))
	for _, entry := range entries {
		var status domain.SyncStatus
		if err := json.Unmarshal([]byte(entry), &status); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sync status: %w", err)
		}
		if platform == "" || status.Platform == platform {
			out = append(out, status)
		}
	}
	return out, nil
}

// parseMillis turns stored epoch milliseconds back into a time; 0 is the zero time.
func parseMillis(raw string) (time.Time, error) {
	if raw == "" || raw == "0" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}
