package guardrail_test

import (
	"testing"

	"github.com/go-redis/redismock/v8"

	"github.com/partsdesk/partsdesk/pkg/cache"
	"github.com/partsdesk/partsdesk/pkg/infra/providers"
)

func testProviderConfig() *providers.Config {
	return &providers.Config{
		Credentials: providers.Credentials{ApiKey: "test-key"},
		Model:       "deepseek-chat",
	}
}

// newMockedVerdictCache backs the verdict cache with a mocked redis
// client. The local tier still works, which is all the pipeline tests
// need; redis round-trips are covered in the cache package.
func newMockedVerdictCache(t *testing.T) *cache.VerdictCache {
	t.Helper()
	db, _ := redismock.NewClientMock()
	return cache.NewVerdictCacheWithClient(db)
}
