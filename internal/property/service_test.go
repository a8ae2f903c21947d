package property

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/estify-backend/internal/pkg/cache"
	"github.com/nekogravitycat/estify-backend/internal/pkg/cache/mocks"
)

const (
	agentA = "aaaaaaaa-0000-0000-0000-000000000001"
	agentB = "aaaaaaaa-0000-0000-0000-000000000002"
)

func ptr[T any](v T) *T { return &v }

func validFields() Fields {
	return Fields{
		Title:         "Sea view villa",
		Description:   "Three bedrooms close to the beach",
		ContactName:   "Nimal Perera",
		ContactNumber: "0771234567",
		Type:          TypeRent,
		District:      "Galle",
		Price:         1000,
		Image:         ptr("img-original"),
	}
}

func newTestService() (Service, *memRepository) {
	repo := newMemRepository()
	return NewService(repo, nil, cache.NewNoop(), time.Minute), repo
}

func newTestServiceWithImages() (Service, *memRepository, *memImages) {
	repo := newMemRepository()
	images := &memImages{}
	return NewService(repo, images, cache.NewNoop(), time.Minute), repo, images
}

func assertKind(t *testing.T, err error, kind string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, kind, appErr.Kind())
}

func TestSubmitAdd(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, err := svc.SubmitAdd(ctx, validFields(), agentA)
	require.NoError(t, err)
	assert.Equal(t, PendingAdd{}, p.Lifecycle)
	assert.Equal(t, agentA, p.PostedByAgent)

	// A second identical add is allowed.
	_, err = svc.SubmitAdd(ctx, validFields(), agentA)
	require.NoError(t, err)

	public, total, err := svc.ListApprovedPublic(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, public)
	assert.Zero(t, total)
	assert.Len(t, repo.rows, 2)
}

func TestSubmitAddAcceptsLooseText(t *testing.T) {
	svc, _ := newTestService()

	f := validFields()
	f.ContactName = "Nimal  de  Silva"
	f.Description = "  roomy   "
	p, err := svc.SubmitAdd(context.Background(), f, agentA)
	require.NoError(t, err)
	assert.Equal(t, "  roomy   ", p.Description)
	assert.Equal(t, "Nimal  de  Silva", p.ContactName)
}

func TestSubmitAddValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Fields)
	}{
		{"short title", func(f *Fields) { f.Title = " ab " }},
		{"short description", func(f *Fields) { f.Description = "too short" }},
		{"contact name with digits", func(f *Fields) { f.ContactName = "Nimal 2" }},
		{"contact number 9 digits", func(f *Fields) { f.ContactNumber = "077123456" }},
		{"contact number with letters", func(f *Fields) { f.ContactNumber = "07712345ab" }},
		{"negative price", func(f *Fields) { f.Price = -1 }},
		{"blank district", func(f *Fields) { f.District = "   " }},
		{"unknown type", func(f *Fields) { f.Type = "lease" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			f := validFields()
			tt.mutate(&f)

			_, err := svc.SubmitAdd(context.Background(), f, agentA)
			require.Error(t, err)
			assertKind(t, err, apperror.KindValidation)
			assert.Empty(t, repo.rows)
		})
	}
}

func TestApproveAdd(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.SubmitAdd(ctx, validFields(), agentA)
	require.NoError(t, err)

	res, err := svc.Approve(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionPublished, res.Action)
	assert.Equal(t, Live{}, res.Property.Lifecycle)

	public, _, err := svc.ListApprovedPublic(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, p.ID, public[0].ID)
}

func TestApproveTwiceFails(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.SubmitAdd(ctx, validFields(), agentA)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, p.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, p.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assertKind(t, err, apperror.KindNotFound)
}

func TestApproveUpdateTwiceFails(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	orig := repo.seedLive(validFields(), agentA)

	shadow, err := svc.SubmitUpdate(ctx, orig.ID, Changes{Price: ptr(2000.0)}, agentA)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, shadow.ID)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, shadow.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	got, err := repo.GetByID(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.Price)
}

func TestApproveUnknownID(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Approve(context.Background(), "00000000-0000-0000-0000-00000000dead")
	assertKind(t, err, apperror.KindNotFound)

	_, err = svc.Reject(context.Background(), "00000000-0000-0000-0000-00000000dead")
	assertKind(t, err, apperror.KindNotFound)
}

// Scenario: update request for P1 raising the price, approved by an admin.
func TestSubmitUpdateThenApprove(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	p1 := repo.seedLive(validFields(), agentA)

	shadow, err := svc.SubmitUpdate(ctx, p1.ID, Changes{Price: ptr(2000.0)}, agentB)
	require.NoError(t, err)
	assert.Equal(t, PendingUpdate{OriginalID: p1.ID}, shadow.Lifecycle)
	assert.Equal(t, StatusPending, shadow.Status())
	assert.Equal(t, RequestUpdate, shadow.RequestType())
	assert.Nil(t, shadow.Image, "image is only staged when a new one is supplied")

	// The original stays public and untouched until approval.
	live, err := svc.GetPublic(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, live.Price)

	pending, _, err := svc.ListPending(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, shadow.ID, pending[0].Request.ID)
	require.NotNil(t, pending[0].Original)
	assert.Equal(t, p1.ID, pending[0].Original.ID)

	res, err := svc.Approve(ctx, shadow.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionMerged, res.Action)
	assert.Equal(t, p1.ID, res.Property.ID)

	got, err := repo.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.Price)
	assert.Equal(t, "img-original", *got.Image)
	assert.Equal(t, Live{}, got.Lifecycle)

	_, err = repo.GetByID(ctx, shadow.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	pending, _, err = svc.ListPending(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUpdateRoundTripCopiesSubmittedFields(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	p1 := repo.seedLive(validFields(), agentA)

	changes := Changes{
		Title:         ptr("Renovated villa"),
		Description:   ptr("Four bedrooms and a pool"),
		ContactName:   ptr("Kamala Silva"),
		ContactNumber: ptr("0719876543"),
		Type:          ptr(TypeSelling),
		District:      ptr("Kandy"),
		Price:         ptr(55000.0),
		Image:         ptr("img-new"),
	}
	shadow, err := svc.SubmitUpdate(ctx, p1.ID, changes, agentA)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, shadow.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, Fields{
		Title:         "Renovated villa",
		Description:   "Four bedrooms and a pool",
		ContactName:   "Kamala Silva",
		ContactNumber: "0719876543",
		Type:          TypeSelling,
		District:      "Kandy",
		Price:         55000,
		Image:         ptr("img-new"),
	}, got.Fields)
}

func TestSubmitUpdateRules(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	p1 := repo.seedLive(validFields(), agentA)

	_, err := svc.SubmitUpdate(ctx, p1.ID, Changes{}, agentA)
	assert.ErrorIs(t, err, ErrNoChanges)

	_, err = svc.SubmitUpdate(ctx, p1.ID, Changes{ContactNumber: ptr("123")}, agentA)
	assertKind(t, err, apperror.KindValidation)

	_, err = svc.SubmitUpdate(ctx, "00000000-0000-0000-0000-00000000dead", Changes{Price: ptr(1.0)}, agentA)
	assert.ErrorIs(t, err, ErrNotFound)

	pendingAdd, err := svc.SubmitAdd(ctx, validFields(), agentA)
	require.NoError(t, err)
	_, err = svc.SubmitUpdate(ctx, pendingAdd.ID, Changes{Price: ptr(1.0)}, agentA)
	assert.ErrorIs(t, err, ErrNotFound, "only live records can be updated")
}

func TestApproveOrphanedUpdate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	p1 := repo.seedLive(validFields(), agentA)

	shadow, err := svc.SubmitUpdate(ctx, p1.ID, Changes{Price: ptr(2000.0)}, agentA)
	require.NoError(t, err)

	// The original disappears before the update is reviewed.
	require.NoError(t, repo.Delete(ctx, p1.ID))

	_, err = svc.Approve(ctx, shadow.ID)
	assert.ErrorIs(t, err, ErrOriginalNotFound)
	assert.Equal(t, "original property not found", err.Error())

	_, err = repo.GetByID(ctx, shadow.ID)
	require.NoError(t, err, "shadow is left in place")

	pending, _, err := svc.ListPending(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Nil(t, pending[0].Original)

	res, err := svc.Reject(ctx, shadow.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionDiscarded, res.Action)
	_, err = repo.GetByID(ctx, shadow.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Scenario: delete request hides P1 until rejected.
func TestSubmitDeleteThenReject(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	p1 := repo.seedLive(validFields(), agentA)
	before, _ := repo.GetByID(ctx, p1.ID)

	flagged, err := svc.SubmitDelete(ctx, p1.ID, agentB)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, flagged.Status())
	assert.Equal(t, RequestDelete, flagged.RequestType())
	assert.Equal(t, agentB, flagged.PostedByAgent)

	public, _, err := svc.ListApprovedPublic(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, public)
	_, err = svc.GetPublic(ctx, p1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	res, err := svc.Reject(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionRestored, res.Action)

	got, err := repo.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status())
	assert.Equal(t, RequestAdd, got.RequestType())
	assert.Equal(t, before.Fields, got.Fields)

	public, _, err = svc.ListApprovedPublic(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, p1.ID, public[0].ID)
}

func TestSubmitDeleteThenApprove(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	p1 := repo.seedLive(validFields(), agentA)

	_, err := svc.SubmitDelete(ctx, p1.ID, agentA)
	require.NoError(t, err)

	_, err = svc.SubmitDelete(ctx, p1.ID, agentA)
	assert.ErrorIs(t, err, ErrNotFound, "a flagged record cannot be flagged again")

	res, err := svc.Approve(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, res.Action)

	_, err = repo.GetByID(ctx, p1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectAdd(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, err := svc.SubmitAdd(ctx, validFields(), agentA)
	require.NoError(t, err)

	res, err := svc.Reject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionDiscarded, res.Action)
	assert.Empty(t, repo.rows)
}

func TestRejectLiveRecordIsNotFound(t *testing.T) {
	svc, repo := newTestService()
	p1 := repo.seedLive(validFields(), agentA)

	_, err := svc.Reject(context.Background(), p1.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
	_, err = repo.GetByID(context.Background(), p1.ID)
	assert.NoError(t, err)
}

func TestListForAgentNewestFirst(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first := repo.seedLive(validFields(), agentA)
	second, err := svc.SubmitAdd(ctx, validFields(), agentA)
	require.NoError(t, err)
	_, err = svc.SubmitAdd(ctx, validFields(), agentB)
	require.NoError(t, err)

	mine, total, err := svc.ListForAgent(ctx, agentA, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
}

func TestReportFilters(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	repo.seedLive(validFields(), agentA)
	selling := validFields()
	selling.Type = TypeSelling
	repo.seedLive(selling, agentB)
	_, err := svc.SubmitAdd(ctx, validFields(), agentB)
	require.NoError(t, err)

	rows, total, err := svc.Report(ctx, Filter{Type: TypeRent})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, rows, 2)

	rows, _, err = svc.Report(ctx, Filter{Status: StatusApproved, AgentID: agentB})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, TypeSelling, rows[0].Type)
}

// Approved records never coexist with a pending shadow reflected as approved.
func TestNoApprovedShadowsRemain(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p1 := repo.seedLive(validFields(), agentA)
	for i := 0; i < 3; i++ {
		shadow, err := svc.SubmitUpdate(ctx, p1.ID, Changes{Price: ptr(float64(100 * (i + 1)))}, agentA)
		require.NoError(t, err)
		_, err = svc.Approve(ctx, shadow.ID)
		require.NoError(t, err)
	}

	for _, row := range repo.rows {
		if _, ok := row.Lifecycle.(PendingUpdate); ok {
			t.Fatalf("shadow %s survived approval", row.ID)
		}
	}
	got, _ := repo.GetByID(ctx, p1.ID)
	assert.Equal(t, 300.0, got.Price)
}

func TestGetPublicUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	mc := mocks.NewMockCache(ctrl)
	repo := newMemRepository()
	svc := NewService(repo, nil, mc, time.Minute)
	ctx := context.Background()

	p1 := repo.seedLive(validFields(), agentA)
	key := cachePrefix + "0:" + p1.ID

	gomock.InOrder(
		mc.EXPECT().Get(gomock.Any(), generationKey, gomock.Any()).Return(cache.ErrMiss),
		mc.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(cache.ErrMiss),
		mc.EXPECT().Set(gomock.Any(), key, gomock.Any(), time.Minute).Return(nil),
		mc.EXPECT().Get(gomock.Any(), generationKey, gomock.Any()).Return(cache.ErrMiss),
		mc.EXPECT().Get(gomock.Any(), key, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, dest any) error {
				*dest.(*Property) = *p1
				return nil
			}),
	)

	got, err := svc.GetPublic(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, got.ID)

	require.NoError(t, repo.Delete(ctx, p1.ID))
	got, err = svc.GetPublic(ctx, p1.ID)
	require.NoError(t, err, "served from cache")
	assert.Equal(t, p1.ID, got.ID)
}

func TestLifecycleTransitionsInvalidateCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	mc := mocks.NewMockCache(ctrl)
	repo := newMemRepository()
	svc := NewService(repo, nil, mc, time.Minute)
	ctx := context.Background()

	p1 := repo.seedLive(validFields(), agentA)

	mc.EXPECT().Set(gomock.Any(), generationKey, gomock.Any(), time.Duration(0)).Return(nil).Times(2)
	mc.EXPECT().DeletePrefix(gomock.Any(), cachePrefix).Return(nil).Times(2)

	_, err := svc.SubmitDelete(ctx, p1.ID, agentA)
	require.NoError(t, err)
	_, err = svc.Reject(ctx, p1.ID)
	require.NoError(t, err)
}

func TestCacheFailuresDoNotFailReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	mc := mocks.NewMockCache(ctrl)
	repo := newMemRepository()
	svc := NewService(repo, nil, mc, time.Minute)

	repo.seedLive(validFields(), agentA)

	// Without a known generation the cache is bypassed entirely.
	mc.EXPECT().Get(gomock.Any(), generationKey, gomock.Any()).Return(errors.New("redis down"))

	items, total, err := svc.ListApprovedPublic(context.Background(), Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
}

func TestCacheWriteFailureDoesNotFailRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	mc := mocks.NewMockCache(ctrl)
	repo := newMemRepository()
	svc := NewService(repo, nil, mc, time.Minute)

	p1 := repo.seedLive(validFields(), agentA)

	mc.EXPECT().Get(gomock.Any(), generationKey, gomock.Any()).Return(cache.ErrMiss)
	mc.EXPECT().Get(gomock.Any(), cachePrefix+"0:"+p1.ID, gomock.Any()).Return(errors.New("redis down"))
	mc.EXPECT().Set(gomock.Any(), cachePrefix+"0:"+p1.ID, gomock.Any(), time.Minute).Return(errors.New("redis down"))

	got, err := svc.GetPublic(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, got.ID)
}

// A read that fetched the live row before a delete approval and wrote it to
// the cache afterwards must not keep serving the removed listing.
func TestLateCacheFillAfterDeleteApprovalIsIgnored(t *testing.T) {
	repo := newPausingRepository()
	svc := NewService(repo, nil, newMapCache(), time.Minute)
	ctx := context.Background()

	p1 := repo.seedLive(validFields(), agentA)

	type result struct {
		p   *Property
		err error
	}
	done := make(chan result, 1)
	go func() {
		p, err := svc.GetPublic(ctx, p1.ID)
		done <- result{p, err}
	}()

	<-repo.fetched
	_, err := svc.SubmitDelete(ctx, p1.ID, agentA)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, p1.ID)
	require.NoError(t, err)
	close(repo.resume)

	stale := <-done
	require.NoError(t, stale.err)
	assert.True(t, stale.p.IsLive(), "the in-flight read saw the row before deletion")

	_, err = svc.GetPublic(ctx, p1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, total, err := svc.ListApprovedPublic(ctx, Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestApproveUpdateServesMergedRecordFromCache(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo, nil, newMapCache(), time.Minute)
	ctx := context.Background()

	p1 := repo.seedLive(validFields(), agentA)
	before, err := svc.GetPublic(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, before.Price)

	shadow, err := svc.SubmitUpdate(ctx, p1.ID, Changes{Price: ptr(2500.0)}, agentA)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, shadow.ID)
	require.NoError(t, err)

	after, err := svc.GetPublic(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, after.Price)
}

func TestRejectRemovesSubmittedImages(t *testing.T) {
	svc, repo, images := newTestServiceWithImages()
	ctx := context.Background()

	fields := validFields()
	fields.Image = ptr("img-new-listing")
	added, err := svc.SubmitAdd(ctx, fields, agentA)
	require.NoError(t, err)
	_, err = svc.Reject(ctx, added.ID)
	require.NoError(t, err)

	p1 := repo.seedLive(validFields(), agentA)
	shadow, err := svc.SubmitUpdate(ctx, p1.ID, Changes{Image: ptr("img-replacement")}, agentA)
	require.NoError(t, err)
	_, err = svc.Reject(ctx, shadow.ID)
	require.NoError(t, err)

	// A shadow without its own image must not touch the original's.
	shadow, err = svc.SubmitUpdate(ctx, p1.ID, Changes{Price: ptr(1.0)}, agentA)
	require.NoError(t, err)
	_, err = svc.Reject(ctx, shadow.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"img-new-listing", "img-replacement"}, images.removedIDs())
	live, err := repo.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "img-original", *live.Image)
}

func TestApproveRemovesReplacedImages(t *testing.T) {
	svc, repo, images := newTestServiceWithImages()
	ctx := context.Background()

	p1 := repo.seedLive(validFields(), agentA)

	// No new image: the original keeps its file.
	shadow, err := svc.SubmitUpdate(ctx, p1.ID, Changes{Price: ptr(1500.0)}, agentA)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, shadow.ID)
	require.NoError(t, err)
	assert.Empty(t, images.removedIDs())

	shadow, err = svc.SubmitUpdate(ctx, p1.ID, Changes{Image: ptr("img-replacement")}, agentA)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, shadow.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"img-original"}, images.removedIDs())

	_, err = svc.SubmitDelete(ctx, p1.ID, agentA)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"img-original", "img-replacement"}, images.removedIDs())
}

func TestImageRemovalFailureDoesNotFailReject(t *testing.T) {
	svc, _, images := newTestServiceWithImages()
	images.err = errors.New("storage unavailable")
	ctx := context.Background()

	added, err := svc.SubmitAdd(ctx, validFields(), agentA)
	require.NoError(t, err)
	res, err := svc.Reject(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionDiscarded, res.Action)
	assert.Equal(t, []string{"img-original"}, images.removedIDs())
}
