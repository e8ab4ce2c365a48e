package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutbox struct {
	stats map[string]int64
	err   error
}

func (f fakeOutbox) Stats(context.Context) (map[string]int64, error) { return f.stats, f.err }

func TestHealthChecker_Report(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	manifest := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(manifest, []byte("[]\n"), 0o644))

	h := NewHealthChecker("v1.0.0")
	h.AddChecker(&RedisChecker{Client: client, Name: "redis"})
	h.AddChecker(&FileChecker{Path: manifest, Name: "gallery_manifest"})
	h.AddChecker(&OutboxChecker{Outbox: fakeOutbox{stats: map[string]int64{"dead": 2}}, Name: "contact_outbox"})

	report := h.CheckHealth(context.Background())
	assert.Equal(t, StatusUp, report.Status)
	assert.Equal(t, "v1.0.0", report.Version)
	require.Len(t, report.Checks, 3)
	assert.Equal(t, "PONG", report.Checks["redis"].Details["ping_response"])
	assert.Equal(t, "2", report.Checks["contact_outbox"].Details["dead"])
	assert.Equal(t, "3", report.Checks["gallery_manifest"].Details["size"])

	ready := h.CheckReadiness(context.Background())
	assert.Len(t, ready.Checks, 2)
	assert.NotContains(t, ready.Checks, "contact_outbox")
}

func TestHealthChecker_Down(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	h := NewHealthChecker("dev")
	h.AddChecker(&RedisChecker{Client: client, Name: "redis"})
	h.AddChecker(&FileChecker{Path: filepath.Join(t.TempDir(), "missing.json"), Name: "gallery_manifest"})
	h.AddChecker(&OutboxChecker{Outbox: fakeOutbox{err: errors.New("boom")}, Name: "contact_outbox"})

	report := h.CheckHealth(context.Background())
	assert.Equal(t, StatusDown, report.Status)
	for _, name := range []string{"redis", "gallery_manifest", "contact_outbox"} {
		assert.Equal(t, StatusDown, report.Checks[name].Status, name)
	}

	assert.Equal(t, StatusUp, h.CheckLiveness(context.Background()).Status)
}

func TestFileChecker_Directory(t *testing.T) {
	c := &FileChecker{Path: t.TempDir(), Name: "dir"}
	assert.Equal(t, StatusDown, c.Check(context.Background()).Status)
}
