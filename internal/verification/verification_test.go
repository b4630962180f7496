package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
)

func docs(statuses ...models.DocumentStatus) []models.Document {
	types := []string{models.DocAadhar, models.DocPAN, models.DocLicense}
	out := make([]models.Document, len(statuses))
	for i, s := range statuses {
		out[i] = models.Document{Type: types[i%len(types)], Status: s}
	}
	return out
}

func TestAggregate(t *testing.T) {
	require.Equal(t, models.DocumentVerified,
		Aggregate(docs(models.DocumentVerified, models.DocumentVerified, models.DocumentVerified)))

	require.Equal(t, models.DocumentRejected,
		Aggregate(docs(models.DocumentVerified, models.DocumentRejected, models.DocumentPending)))

	require.Equal(t, models.DocumentPending, Aggregate(nil))
}

func TestAggregateUnverifiedIsPendingNotRejected(t *testing.T) {
	// A document that simply has not been verified yet must leave the set
	// pending; only an explicit rejection may reject it.
	set := docs(models.DocumentVerified, models.DocumentVerified, models.DocumentPending)
	require.Equal(t, models.DocumentPending, Aggregate(set))
}

func TestReview(t *testing.T) {
	set := docs(models.DocumentPending, models.DocumentPending, models.DocumentPending)
	now := time.Now()

	require.NoError(t, Review(set, models.DocPAN, true, "", now))
	require.Equal(t, models.DocumentVerified, set[1].Status)
	require.NotNil(t, set[1].ReviewedAt)

	require.NoError(t, Review(set, models.DocAadhar, false, "number mismatch", now))
	require.Equal(t, models.DocumentRejected, set[0].Status)
	require.Equal(t, "number mismatch", set[0].Remark)
	require.Equal(t, models.DocumentRejected, Aggregate(set))

	require.ErrorIs(t, Review(set, "passport", true, "", now), ErrUnknownDocument)
}

func TestResetClearsReviews(t *testing.T) {
	set := docs(models.DocumentVerified, models.DocumentRejected, models.DocumentPending)
	set[1].Remark = "blurry scan"

	Reset(set)

	for _, d := range set {
		require.Equal(t, models.DocumentPending, d.Status)
		require.Empty(t, d.Remark)
		require.Nil(t, d.ReviewedAt)
	}
	require.Equal(t, models.DocumentPending, Aggregate(set))
}
