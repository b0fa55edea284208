package usecase_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

func TestShowRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("no registries yet", func(t *testing.T) {
		l := newLifecycle(t, nil)
		view, err := usecase.NewShowRegistry(l.declarations, l.deployments, l.sink).Run(ctx)
		require.NoError(t, err)
		assert.Empty(t, view.Entries)
	})

	t.Run("merges both registries", func(t *testing.T) {
		l := newLifecycle(t, nil)
		require.NoError(t, l.declarations.Save(ctx, models.Declarations{"token": "0x1", "account": "0x2"}))
		require.NoError(t, l.deployments.Save(ctx, models.Deployments{"token": {Address: "0xa", TxHash: "0xb"}, "legacy": {Address: "0xc"}}))

		view, err := usecase.NewShowRegistry(l.declarations, l.deployments, l.sink).Run(ctx)
		require.NoError(t, err)
		require.Len(t, view.Entries, 3)
		assert.Equal(t, "account", view.Entries[0].Name)
		assert.Nil(t, view.Entries[0].Deployment)
		assert.Equal(t, "legacy", view.Entries[1].Name)
		assert.Empty(t, view.Entries[1].ClassHash)
		assert.Equal(t, "0xa", view.Entries[2].Deployment.Address)
		assert.Equal(t, 2, view.Declared())
		assert.Equal(t, 2, view.Deployed())
	})

	t.Run("malformed registry", func(t *testing.T) {
		l := newLifecycle(t, nil)
		require.NoError(t, os.MkdirAll(l.cfg.DeploymentsDir, 0o755))
		require.NoError(t, os.WriteFile(l.deployments.Path(), []byte("[]"), 0o644))

		_, err := usecase.NewShowRegistry(l.declarations, l.deployments, l.sink).Run(ctx)
		assert.ErrorIs(t, err, domain.ErrRegistryUnavailable)
	})
}

func TestWaitTransaction(t *testing.T) {
	ctx := context.Background()
	poller := &MockFinalityPoller{}
	accepted := felt.FromUint64(1)
	rejected := felt.FromUint64(2)
	poller.On("AwaitFinality", mock.Anything, accepted).Return(&models.Receipt{Status: models.TransactionStatusAccepted}, nil)
	poller.On("AwaitFinality", mock.Anything, rejected).Return(&models.Receipt{Status: models.TransactionStatusRejected, RevertReason: "nope"}, nil)

	uc := usecase.NewWaitTransaction(poller, usecase.NopProgress{})

	receipt, err := uc.Run(ctx, accepted)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusAccepted, receipt.Status)

	receipt, err = uc.Run(ctx, rejected)
	assert.ErrorIs(t, err, domain.ErrTransactionRejected)
	require.NotNil(t, receipt)
	assert.Equal(t, "nope", receipt.RevertReason)
}

func TestComputeClassHash(t *testing.T) {
	ctx := context.Background()
	l := newLifecycle(t, map[string][]string{"erc20": {"src/erc20.cairo"}})
	uc := usecase.NewComputeClassHash(l.compile, fakeHasher{}, l.declarations)

	result, err := uc.Run(ctx, "erc20")
	require.NoError(t, err)
	assert.Empty(t, result.Recorded)
	assert.False(t, result.Matches())

	require.NoError(t, l.declarations.Save(ctx, models.Declarations{"erc20": result.ClassHash.String()}))
	result, err = uc.Run(ctx, "erc20")
	require.NoError(t, err)
	assert.True(t, result.Matches())
	assert.Equal(t, []string{"erc20"}, l.compiler.compiled)
}

func TestShowAccount(t *testing.T) {
	ledger := &MockLedgerClient{}
	info := &usecase.AccountInfo{Address: felt.FromUint64(1), PublicKey: felt.FromUint64(2), ChainID: felt.FromUint64(3)}
	ledger.On("Account", mock.Anything).Return(info, nil)

	got, err := usecase.NewShowAccount(ledger).Run(context.Background())
	require.NoError(t, err)
	assert.Same(t, info, got)
}
