package services

import (
	"context"
	"testing"
	"time"

	"consoul-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPairFixture() (*PairService, *fakeUserStore) {
	store := newFakeUserStore()
	for _, u := range []struct{ id, code string }{
		{"user-a", "AAAAAA"},
		{"user-b", "BBBBBB"},
		{"user-c", "CCCCCC"},
	} {
		store.add(&models.User{ID: u.id, Name: u.id, Code: u.code, CreatedAt: time.Now()})
	}
	return NewPairService(store), store
}

func TestCreateMutualPair(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPairFixture()

	require.NoError(t, svc.CreateMutualPair(ctx, "user-a", "user-b"))

	partner, err := svc.PartnerOf(ctx, "user-a")
	require.NoError(t, err)
	require.NotNil(t, partner)
	assert.Equal(t, "user-b", partner.ID)

	partner, err = svc.PartnerOf(ctx, "user-b")
	require.NoError(t, err)
	require.NotNil(t, partner)
	assert.Equal(t, "user-a", partner.ID)

	paired, err := svc.IsPaired(ctx, "user-a")
	require.NoError(t, err)
	assert.True(t, paired)
}

func TestCreateMutualPairSelf(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPairFixture()

	err := svc.CreateMutualPair(ctx, "user-a", "user-a")
	assert.ErrorIs(t, err, models.ErrSelfPair)
}

func TestPairingIsExclusive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPairFixture()

	require.NoError(t, svc.CreateMutualPair(ctx, "user-a", "user-b"))

	err := svc.CreateMutualPair(ctx, "user-a", "user-c")
	assert.ErrorIs(t, err, models.ErrAlreadyPaired)

	err = svc.CreateMutualPair(ctx, "user-c", "user-b")
	assert.ErrorIs(t, err, models.ErrAlreadyPaired)

	// The original pairing stays intact.
	partner, err := svc.PartnerOf(ctx, "user-a")
	require.NoError(t, err)
	require.NotNil(t, partner)
	assert.Equal(t, "user-b", partner.ID)

	partner, err = svc.PartnerOf(ctx, "user-c")
	require.NoError(t, err)
	assert.Nil(t, partner)
}

func TestUnpair(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPairFixture()

	require.NoError(t, svc.CreateMutualPair(ctx, "user-a", "user-b"))
	require.NoError(t, svc.Unpair(ctx, "user-b"))

	for _, id := range []string{"user-a", "user-b"} {
		partner, err := svc.PartnerOf(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, partner)
	}

	// Unpairing again is a no-op.
	require.NoError(t, svc.Unpair(ctx, "user-b"))

	// Both users can pair again afterwards.
	require.NoError(t, svc.CreateMutualPair(ctx, "user-b", "user-c"))
}

func TestUnpairClearsOneSidedLink(t *testing.T) {
	ctx := context.Background()
	svc, store := newPairFixture()

	// A legacy link where only one side points at the other.
	aID := "user-a"
	store.mu.Lock()
	store.users["user-b"].PartnerID = &aID
	store.mu.Unlock()

	partner, err := svc.PartnerOf(ctx, "user-a")
	require.NoError(t, err)
	require.NotNil(t, partner)
	assert.Equal(t, "user-b", partner.ID)

	require.NoError(t, svc.Unpair(ctx, "user-a"))

	partner, err = svc.PartnerOf(ctx, "user-a")
	require.NoError(t, err)
	assert.Nil(t, partner)
}

func TestCreatePairByCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPairFixture()

	partner, err := svc.CreatePairByCode(ctx, "user-a", "BBBBBB")
	require.NoError(t, err)
	assert.Equal(t, "user-b", partner.ID)

	_, err = svc.CreatePairByCode(ctx, "user-c", "short")
	assert.ErrorIs(t, err, models.ErrValidationFailed)

	_, err = svc.CreatePairByCode(ctx, "user-c", "ZZZZZZ")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.CreatePairByCode(ctx, "user-a", "AAAAAA")
	assert.ErrorIs(t, err, models.ErrSelfPair)
}
