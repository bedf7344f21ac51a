package biz

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

func TestMomentLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := &fakeMomentRepo{}
	uc := NewMomentUseCase(repo, &fakeAssistant{}, log.DefaultLogger)

	later := time.Date(2024, 3, 21, 10, 0, 0, 0, time.UTC)
	sooner := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

	_, err := uc.Create(ctx, &MomentRequest{Content: "x", ScheduledTime: later})
	assert.Equal(t, ReasonMissingField, reasonOf(err))
	_, err = uc.Create(ctx, &MomentRequest{ImageURL: "img", Content: "x"})
	assert.Equal(t, ReasonMissingField, reasonOf(err))

	a, err := uc.Create(ctx, &MomentRequest{ImageURL: "img-a", Content: "晚一点", ScheduledTime: later})
	require.NoError(t, err)
	assert.Equal(t, domain.MomentPending, a.Status)
	b, err := uc.Create(ctx, &MomentRequest{ImageURL: "img-b", Content: "早一点", ScheduledTime: sooner, SyncToXiaohongshu: true})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	sent, err := uc.MarkSent(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MomentSent, sent.Status)

	updated, err := uc.Update(ctx, a.ID, &MomentRequest{ImageURL: "img-c", Content: "改过", ScheduledTime: sooner})
	require.NoError(t, err)
	assert.Equal(t, domain.MomentSent, updated.Status, "update keeps status")
	assert.Equal(t, "改过", repo.moments[a.ID].Content)

	require.NoError(t, uc.Delete(ctx, b.ID))
	_, err = uc.MarkSent(ctx, b.ID)
	assert.Equal(t, ReasonMomentNotFound, reasonOf(err))
}

func TestMomentGenerateContent(t *testing.T) {
	ctx := context.Background()
	uc := NewMomentUseCase(&fakeMomentRepo{}, &fakeAssistant{}, log.DefaultLogger)
	text, err := uc.GenerateContent(ctx, "周末")
	require.NoError(t, err)
	assert.Equal(t, "moment:周末", text)

	uc = NewMomentUseCase(&fakeMomentRepo{}, &fakeAssistant{err: stderrors.New("boom")}, log.DefaultLogger)
	_, err = uc.GenerateContent(ctx, "周末")
	assert.EqualError(t, err, "boom")
}
