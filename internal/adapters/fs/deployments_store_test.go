package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

func TestDeploymentStore_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  models.Deployments
	}{
		{name: "empty", doc: models.Deployments{}},
		{
			name: "single",
			doc: models.Deployments{
				"erc20": {Address: "0x123", TxHash: "0x456", Artifact: "build/erc20.json"},
			},
		},
		{
			name: "several",
			doc: models.Deployments{
				"erc20":   {Address: "0x1", TxHash: "0x2", Artifact: "build/erc20.json"},
				"account": {Address: "0x3", TxHash: "0x4", Artifact: "build/account.json"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := newTestConfig(t)
			store := NewDeploymentStore(cfg)

			require.NoError(t, store.Save(ctx, tt.doc))
			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.doc, got)
			assert.Empty(t, leftoverTemps(t, cfg.DeploymentsDir))
		})
	}
}

func TestDeploymentStore_FileFormat(t *testing.T) {
	ctx := context.Background()
	store := NewDeploymentStore(newTestConfig(t))
	require.NoError(t, store.Save(ctx, models.Deployments{
		"erc20": {Address: "0x123", TxHash: "0x456", Artifact: "build/erc20.json"},
	}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"erc20":{"address":"0x123","tx":"0x456","artifact":"build/erc20.json"}}`, string(data))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestDeploymentStore_Load(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		want       models.Deployments
		wantErr    bool
		wantAbsent bool
	}{
		{name: "absent", wantErr: true, wantAbsent: true},
		{name: "malformed", content: `{"erc20": {"address": }`, wantErr: true},
		{name: "wrong record type", content: `{"erc20": "0x1"}`, wantErr: true},
		{
			name:    "valid",
			content: `{"erc20":{"address":"0x1","tx":"0x2","artifact":"build/erc20.json"}}`,
			want:    models.Deployments{"erc20": {Address: "0x1", TxHash: "0x2", Artifact: "build/erc20.json"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewDeploymentStore(newTestConfig(t))
			if tt.content != "" {
				writeRegistry(t, store.Path(), tt.content)
			}

			got, err := store.Load(context.Background())
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			assert.ErrorIs(t, err, domain.ErrRegistryUnavailable)
			if tt.wantAbsent {
				assert.ErrorIs(t, err, fs.ErrNotExist)
			} else {
				assert.NotErrorIs(t, err, fs.ErrNotExist)
			}
		})
	}
}

func TestDeploymentStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	store := NewDeploymentStore(cfg)

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Update(ctx, func(d models.Deployments) error {
				d[fmt.Sprintf("c%d", i)] = models.DeploymentRecord{Address: fmt.Sprintf("0x%x", i+1)}
				return nil
			}))
		}(i)
	}
	wg.Wait()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, n)
	assert.Empty(t, leftoverTemps(t, cfg.DeploymentsDir))
}
