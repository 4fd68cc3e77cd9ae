package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

func TestDashboardService_Stats(t *testing.T) {
	f := newFixture(t, pricing.Calculator{})
	ctx := context.Background()

	a, err := f.orders.Create(ctx, f.user.ID, OrderInput{ClientID: f.client.ID, DiscountPercent: nd("10"), Items: bannerAndPens(f)})
	require.NoError(t, err)
	b, err := f.orders.Create(ctx, f.user.ID, OrderInput{ClientID: f.client.ID,
		Items: []ItemInput{{ProductID: f.pen.ID, Quantity: dec("50")}}})
	require.NoError(t, err)
	cancelled, err := f.orders.Create(ctx, f.user.ID, OrderInput{ClientID: f.client.ID, Items: bannerAndPens(f)})
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, f.user.ID, cancelled.ID, models.StatusCancelled)
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, f.user.ID, OrderInput{Kind: models.KindQuote, ClientID: f.client.ID, Items: bannerAndPens(f)})
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, f.user.ID, b.ID, models.StatusApproved)
	require.NoError(t, err)

	d, err := NewDashboardService(f.db).Stats(ctx, f.user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.Clients)
	assert.EqualValues(t, 2, d.Products)
	assert.EqualValues(t, 3, d.Orders)
	assert.EqualValues(t, 1, d.Quotes)
	assert.EqualValues(t, 1, d.ByStatus[models.StatusPending])
	assert.EqualValues(t, 1, d.ByStatus[models.StatusApproved])
	assert.EqualValues(t, 1, d.ByStatus[models.StatusCancelled])
	assert.EqualValues(t, 0, d.ByStatus[models.StatusCompleted])
	// 342 + 10; the cancelled order and the quote do not count.
	requireDecimal(t, a.Total.Add(b.Total).String(), d.Revenue)
	requireDecimal(t, "352", d.Revenue)
	assert.Len(t, d.Recent, 4)

	empty, err := NewDashboardService(f.db).Stats(ctx, f.secondUser(t).ID)
	require.NoError(t, err)
	assert.Zero(t, empty.Orders)
	assert.True(t, empty.Revenue.IsZero())
}
