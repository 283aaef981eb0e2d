package client_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	httpserver "github.com/turtacn/SAScore/internal/interfaces/http"
	"github.com/turtacn/SAScore/internal/interfaces/http/handlers"
	"github.com/turtacn/SAScore/pkg/client"
)

var corpus = []string{"CCO", "c1ccccc1", "CC(=O)O", "CCN", "c1ccccc1O", "CC(C)O", "CC(=O)Nc1ccc(O)cc1"}

func TestClient_AgainstServer(t *testing.T) {
	svc := app.NewService(app.Config{ModelName: "rt", Radius: 2, BatchLimit: 10}, nil)
	router := httpserver.NewRouter(httpserver.RouterConfig{
		ScoreHandler:  handlers.NewScoreHandler(svc, nil, 0),
		HealthHandler: handlers.NewHealthHandler("test", handlers.ModelChecker(svc.Ready)),
	})
	server := httptest.NewServer(router)
	defer server.Close()

	c, err := client.NewClient(server.URL, client.WithRetryMax(0))
	require.NoError(t, err)
	ctx := context.Background()

	ready, err := c.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, ready.Ready)

	_, err = c.Score(ctx, "CCO")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsModelNotLoaded())

	built, err := c.BuildModel(ctx, "rt", append(corpus, "C1CC"))
	require.NoError(t, err)
	assert.Equal(t, "rt", built.Model.Name)
	assert.Equal(t, len(corpus), built.Molecules)
	require.Len(t, built.Skipped, 1)
	assert.Equal(t, "C1CC", built.Skipped[0].SMILES)

	info, err := c.Model(ctx)
	require.NoError(t, err)
	assert.Equal(t, built.Model.ID, info.ID)

	score, err := c.Score(ctx, "CCO")
	require.NoError(t, err)
	assert.Equal(t, info.ID, score.ModelVersion)
	assert.GreaterOrEqual(t, score.Score, 1.0)
	assert.LessOrEqual(t, score.Score, 10.0)
	require.NotNil(t, score.Breakdown)
	assert.Equal(t, 3, score.Breakdown.Complexity.HeavyAtoms)

	batch, err := c.ScoreBatch(ctx, []string{"CCO", "C1CC"})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	assert.InDelta(t, score.Score, batch.Items[0].Result.Score, 1e-9)

	frags, err := c.Fragments(ctx, "CCO")
	require.NoError(t, err)
	assert.Equal(t, 2, frags.Radius)
	assert.NotEmpty(t, frags.Fragments)

	ready, err = c.Ready(ctx)
	require.NoError(t, err)
	assert.True(t, ready.Ready)
}

//Personal.AI order the ending
