package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcore/internal/testdb"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/metrics"
)

func TestSubmitAndUpdate(t *testing.T) {
	conn := testdb.Open(t)
	svc := NewService(conn, metrics.NewWriteMetrics(nil))
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	product := testdb.SeedProduct(t, conn)

	review, err := svc.Submit(ctx, SubmitInput{
		ProductID: product.ID, UserID: user.ID, Rating: 4, Comment: "solid",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, review.ID, 5, "grew on me")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "grew on me", updated.Comment)
}

func TestSubmitSecondReviewRejected(t *testing.T) {
	conn := testdb.Open(t)
	svc := NewService(conn, metrics.NewWriteMetrics(nil))
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	product := testdb.SeedProduct(t, conn)

	_, err := svc.Submit(ctx, SubmitInput{ProductID: product.ID, UserID: user.ID, Rating: 3})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, SubmitInput{ProductID: product.ID, UserID: user.ID, Rating: 1})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestSameUserDifferentProducts(t *testing.T) {
	conn := testdb.Open(t)
	svc := NewService(conn, metrics.NewWriteMetrics(nil))
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	first := testdb.SeedProduct(t, conn)
	second := testdb.SeedProduct(t, conn)

	_, err := svc.Submit(ctx, SubmitInput{ProductID: first.ID, UserID: user.ID, Rating: 3})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitInput{ProductID: second.ID, UserID: user.ID, Rating: 4})
	require.NoError(t, err)
}

func TestRatingBounds(t *testing.T) {
	conn := testdb.Open(t)
	svc := NewService(conn, metrics.NewWriteMetrics(nil))
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	product := testdb.SeedProduct(t, conn)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(ctx, SubmitInput{ProductID: product.ID, UserID: user.ID, Rating: rating})
		require.Error(t, err, "rating %d", rating)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	}
}

func TestUpdateMissingReview(t *testing.T) {
	conn := testdb.Open(t)
	svc := NewService(conn, metrics.NewWriteMetrics(nil))

	_, err := svc.Update(context.Background(), uuid.New(), 3, "ghost")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestListForProduct(t *testing.T) {
	conn := testdb.Open(t)
	svc := NewService(conn, metrics.NewWriteMetrics(nil))
	ctx := context.Background()

	product := testdb.SeedProduct(t, conn)
	for i := 0; i < 3; i++ {
		user := testdb.SeedUser(t, conn)
		_, err := svc.Submit(ctx, SubmitInput{ProductID: product.ID, UserID: user.ID, Rating: i + 1})
		require.NoError(t, err)
	}

	rows, err := svc.ListForProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
