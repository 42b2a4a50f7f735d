//go:build integration

package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "logofield_test")
	require.NoError(t, err)
	defer s.Close()
	defer s.client.Database("logofield_test").Drop(ctx)

	runStoreTests(t, s)
}
