package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/photostrip/pkg/template"
	"github.com/matzehuels/photostrip/pkg/template/storetest"
)

// Runs against a real server when PHOTOSTRIP_TEST_REDIS is set, e.g. localhost:6379.
func TestStore(t *testing.T) {
	addr := os.Getenv("PHOTOSTRIP_TEST_REDIS")
	if addr == "" {
		t.Skip("PHOTOSTRIP_TEST_REDIS not set")
	}
	storetest.Run(t, func(t *testing.T) template.Store {
		key := "photostrip:test:" + time.Now().Format(time.RFC3339Nano)
		s, err := NewStore(context.Background(), Config{Addr: addr, Key: key})
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		t.Cleanup(func() {
			s.client.Del(context.Background(), key)
			s.Close()
		})
		return s
	})
}
