package data

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/terms/internal/models"
)

func TestAgreementLifecycle(t *testing.T) {
	mgr := testManager(t)
	store := mgr.AgreementStore()
	ctx := testContext()

	agreement := &models.Agreement{
		ID:        uuid.New().String(),
		User:      "alice",
		Term:      "canonical",
		Revision:  2,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, store.SaveAgreement(ctx, agreement))

	got, err := store.GetAgreement(ctx, "alice", "canonical", 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, agreement.ID, got.ID)
	assert.Equal(t, 2, got.Revision)

	absent, err := store.GetAgreement(ctx, "alice", "canonical", 3)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestAgreementListByUser(t *testing.T) {
	mgr := testManager(t)
	store := mgr.AgreementStore()
	ctx := testContext()

	for i, term := range []string{"canonical", "enterprise", "privacy"} {
		require.NoError(t, store.SaveAgreement(ctx, &models.Agreement{
			ID:        uuid.New().String(),
			User:      "bob",
			Term:      term,
			Revision:  1,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, store.SaveAgreement(ctx, &models.Agreement{
		ID:        uuid.New().String(),
		User:      "carol",
		Term:      "canonical",
		Revision:  1,
		CreatedAt: time.Now().UTC(),
	}))

	mine, err := store.ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, a := range mine {
		assert.Equal(t, "bob", a.User)
	}

	none, err := store.ListByUser(ctx, "dave")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAgreementListByUserAndTerms(t *testing.T) {
	mgr := testManager(t)
	store := mgr.AgreementStore()
	ctx := testContext()

	for _, term := range []string{"canonical", "enterprise", "privacy"} {
		require.NoError(t, store.SaveAgreement(ctx, &models.Agreement{
			ID:        uuid.New().String(),
			User:      "erin",
			Term:      term,
			Revision:  1,
			CreatedAt: time.Now().UTC(),
		}))
	}

	filtered, err := store.ListByUserAndTerms(ctx, "erin", []string{"canonical", "privacy"})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	names := []string{filtered[0].Term, filtered[1].Term}
	assert.ElementsMatch(t, []string{"canonical", "privacy"}, names)
}
