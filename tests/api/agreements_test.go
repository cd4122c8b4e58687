package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	termsclient "github.com/bobmcallan/terms/internal/clients/terms"
	"github.com/bobmcallan/terms/tests/common"
)

func TestAgreementWorkflow(t *testing.T) {
	env := common.NewEnv(t)
	env.SeedTerm("alice", "canonical", "canonical terms", "text v1")
	env.SeedTerm("alice", "canonical", "canonical terms", "text v2")

	token := env.RegisterAndLogin("bob", "s3cret-pass")
	client := env.Client(token)
	ctx := context.Background()

	agreement, err := client.SaveAgreement(ctx, "canonical", 2)
	require.NoError(t, err)
	require.NotNil(t, agreement)
	assert.Equal(t, "bob", agreement.User)
	assert.Equal(t, "canonical", agreement.Term)
	assert.Equal(t, 2, agreement.Revision)
	assert.NotEmpty(t, agreement.ID)

	agreements, err := client.GetAgreements(ctx)
	require.NoError(t, err)
	require.Len(t, agreements, 1)
	assert.Equal(t, agreement.ID, agreements[0].ID)
}

func TestAgreementIdempotent(t *testing.T) {
	env := common.NewEnv(t)
	env.SeedTerm("alice", "canonical", "canonical terms", "text")

	token := env.RegisterAndLogin("bob", "s3cret-pass")
	client := env.Client(token)
	ctx := context.Background()

	first, err := client.SaveAgreement(ctx, "canonical", 1)
	require.NoError(t, err)

	second, err := client.SaveAgreement(ctx, "canonical", 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-agreeing must return the original record")

	agreements, err := client.GetAgreements(ctx)
	require.NoError(t, err)
	assert.Len(t, agreements, 1)
}

func TestAgreementUnknownRevisionFails(t *testing.T) {
	env := common.NewEnv(t)
	env.SeedTerm("alice", "canonical", "canonical terms", "text")

	token := env.RegisterAndLogin("bob", "s3cret-pass")

	_, err := env.Client(token).SaveAgreement(context.Background(), "canonical", 7)
	require.Error(t, err)

	apiErr, ok := err.(*termsclient.APIError)
	require.True(t, ok, "expected *terms.APIError, got %T", err)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestAgreementsFilteredByTerms(t *testing.T) {
	env := common.NewEnv(t)
	env.SeedTerm("alice", "canonical", "canonical terms", "text")
	env.SeedTerm("alice", "enterprise", "enterprise terms", "text")
	env.SeedTerm("alice", "privacy", "privacy policy", "text")

	token := env.RegisterAndLogin("bob", "s3cret-pass")
	client := env.Client(token)
	ctx := context.Background()

	for _, name := range []string{"canonical", "enterprise", "privacy"} {
		_, err := client.SaveAgreement(ctx, name, 1)
		require.NoError(t, err)
	}

	filtered, err := client.GetAgreementsByTerms(ctx, []string{"canonical", "privacy"})
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	names := []string{filtered[0].Term, filtered[1].Term}
	assert.ElementsMatch(t, []string{"canonical", "privacy"}, names)
}

func TestAgreementsAreScopedPerUser(t *testing.T) {
	env := common.NewEnv(t)
	env.SeedTerm("alice", "canonical", "canonical terms", "text")

	bobToken := env.RegisterAndLogin("bob", "s3cret-pass")
	carolToken := env.RegisterAndLogin("carol", "s3cret-pass")
	ctx := context.Background()

	_, err := env.Client(bobToken).SaveAgreement(ctx, "canonical", 1)
	require.NoError(t, err)

	carols, err := env.Client(carolToken).GetAgreements(ctx)
	require.NoError(t, err)
	assert.Empty(t, carols)
}
