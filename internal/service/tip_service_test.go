package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	pkgerrors "tipsy/pkg/errors"
	"tipsy/pkg/metrics"
)

func newTipSvc(f *fixture) TipService {
	return NewTipService(f.repo, nil, f.logger)
}

func TestTipService_Submit_RatedTip(t *testing.T) {
	f := newFixture(t)
	m := metrics.New()
	svc := NewTipService(f.repo, m, f.logger)

	resp, err := svc.Submit(context.Background(), &dto.SubmitTipRequest{
		QRSlug:      "aisha-qr",
		AmountCents: dto.Int(25000),
		PayerName:   ptr("Raj"),
		Rating:      ptr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25000), resp.Tip.AmountCents)
	assert.Equal(t, "INR", resp.Tip.Currency)
	assert.Equal(t, "Aisha", resp.Worker.Name)
	assert.Equal(t, "Spice Route", resp.Restaurant.Name)
	require.NotNil(t, resp.Review)
	assert.Equal(t, 5, resp.Review.Rating)
	assert.Equal(t, model.ReviewPending, resp.Review.Status)

	assert.Equal(t, int64(1), f.count(t, &model.Tip{}))
	assert.Equal(t, int64(1), f.count(t, &model.Review{}))
	assert.Equal(t, int64(2), f.count(t, &model.Notification{}))

	var notes []model.Notification
	require.NoError(t, f.db.Order("id").Find(&notes).Error)
	assert.Equal(t, model.NotificationTipReceived, notes[0].Type)
	assert.Equal(t, "You received a tip of ₹250.00 from Raj", notes[0].Body)
	assert.Equal(t, model.NotificationReviewPosted, notes[1].Type)
	assert.Equal(t, "You received a 5-star review from Raj", notes[1].Body)
	for _, n := range notes {
		assert.Equal(t, f.worker.ID, n.UserID)
	}

	var review model.Review
	require.NoError(t, f.db.First(&review).Error)
	require.NotNil(t, review.TipID)
	assert.Equal(t, resp.Tip.ID, *review.TipID)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.TipsSubmitted.WithLabelValues("INR", "true")))
}

func TestTipService_Submit_UnratedTipCreatesNoReview(t *testing.T) {
	f := newFixture(t)
	svc := newTipSvc(f)

	resp, err := svc.Submit(context.Background(), &dto.SubmitTipRequest{
		QRSlug:      "aisha-qr",
		AmountCents: dto.Int(5000),
		Message:     ptr("  Great service  "),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Review)
	require.NotNil(t, resp.Tip.Message)
	assert.Equal(t, "Great service", *resp.Tip.Message)

	assert.Equal(t, int64(0), f.count(t, &model.Review{}))
	assert.Equal(t, int64(1), f.count(t, &model.Notification{}))

	var n model.Notification
	require.NoError(t, f.db.First(&n).Error)
	assert.Equal(t, `You received a tip of ₹50.00: "Great service"`, n.Body)
}

func TestTipService_Submit_ValidationFailuresWriteNothing(t *testing.T) {
	cases := []struct {
		name string
		req  dto.SubmitTipRequest
		want error
	}{
		{"missing slug", dto.SubmitTipRequest{AmountCents: dto.Int(100)}, ErrMissingQRSlug},
		{"zero amount", dto.SubmitTipRequest{QRSlug: "aisha-qr", AmountCents: dto.Int(0)}, ErrInvalidAmount},
		{"negative amount", dto.SubmitTipRequest{QRSlug: "aisha-qr", AmountCents: dto.Int(-10)}, ErrInvalidAmount},
		{"non-numeric amount", dto.SubmitTipRequest{QRSlug: "aisha-qr", AmountCents: dto.FlexInt{Set: true}}, ErrInvalidAmount},
		{"rating too high", dto.SubmitTipRequest{QRSlug: "aisha-qr", AmountCents: dto.Int(100), Rating: ptr(6)}, ErrInvalidRating},
		{"rating too low", dto.SubmitTipRequest{QRSlug: "aisha-qr", AmountCents: dto.Int(100), Rating: ptr(0)}, ErrInvalidRating},
		{"unknown slug", dto.SubmitTipRequest{QRSlug: "nobody-qr", AmountCents: dto.Int(100), Rating: ptr(4)}, ErrInvalidQRSlug},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := newTipSvc(f).Submit(context.Background(), &tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)

			assert.Equal(t, int64(0), f.count(t, &model.Tip{}))
			assert.Equal(t, int64(0), f.count(t, &model.Review{}))
			assert.Equal(t, int64(0), f.count(t, &model.Notification{}))
		})
	}
}

func TestTipService_Submit_UnknownSlugIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := newTipSvc(f).Submit(context.Background(), &dto.SubmitTipRequest{QRSlug: "missing", AmountCents: dto.Int(100)})
	assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
}

func TestTipService_ListForWorker(t *testing.T) {
	f := newFixture(t)
	svc := newTipSvc(f)
	ctx := context.Background()

	for _, amount := range []int64{100, 200, 300} {
		_, err := svc.Submit(ctx, &dto.SubmitTipRequest{QRSlug: "aisha-qr", AmountCents: dto.Int(amount)})
		require.NoError(t, err)
	}

	items, err := svc.ListForWorker(ctx, f.worker, &dto.ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Restaurant)
	assert.Equal(t, "Spice Route", items[0].Restaurant.Name)

	items, err = svc.ListForWorker(ctx, f.owner, &dto.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹250.00", FormatAmount(25000, "INR"))
	assert.Equal(t, "₹0.05", FormatAmount(5, "INR"))
	assert.Equal(t, "USD 12.34", FormatAmount(1234, "USD"))
}
