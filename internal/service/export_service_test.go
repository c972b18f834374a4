package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tipsy/internal/dto"
)

func TestExportService_RestaurantTips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tips := newTipSvc(f)
	_, err := tips.Submit(ctx, &dto.SubmitTipRequest{QRSlug: "aisha-qr", AmountCents: dto.Int(25000), PayerName: ptr("Raj"), Rating: ptr(5)})
	require.NoError(t, err)
	_, err = tips.Submit(ctx, &dto.SubmitTipRequest{QRSlug: "aisha-qr", AmountCents: dto.Int(1050)})
	require.NoError(t, err)

	svc := NewExportService(f.repo, f.logger)
	buf, filename, err := svc.ExportTips(ctx, f.owner, f.restaurant.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "tips_restaurant_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Tips")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Spice Route tips", rows[0][0])
	assert.Equal(t, "Worker", rows[1][2])
	assert.Equal(t, "Aisha", rows[2][2])
	assert.Equal(t, "Total", rows[4][3])

	total, err := book.GetCellValue("Tips", "E5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "260.5", total)
}

func TestExportService_Access(t *testing.T) {
	f := newFixture(t)
	svc := NewExportService(f.repo, f.logger)
	ctx := context.Background()

	_, _, err := svc.ExportTips(ctx, f.otherOwner, f.restaurant.ID)
	assert.True(t, errors.Is(err, ErrAccessDenied))

	_, _, err = svc.ExportTips(ctx, f.admin, f.restaurant.ID)
	assert.NoError(t, err)

	buf, filename, err := svc.ExportTips(ctx, f.worker, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "tips_user_"))
	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Tips")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
