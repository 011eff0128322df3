package interaction

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"modportal/internal/models"
	"modportal/internal/notify"
	"modportal/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAPI records calls and fails when err is set. hook, when set, runs
// inside the call before it returns.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	err       error
	following *bool
	hook      func()
	nextID    int
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	hook, err := f.hook, f.err
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) Favorite(_ context.Context, _, slug string) error {
	return f.record("POST favorite " + slug)
}

func (f *fakeAPI) Unfavorite(_ context.Context, _, slug string) error {
	return f.record("DELETE favorite " + slug)
}

func (f *fakeAPI) Follow(_ context.Context, _, username string) (bool, error) {
	err := f.record("POST follow " + username)
	if f.following != nil {
		return *f.following, err
	}
	return true, err
}

func (f *fakeAPI) Unfollow(_ context.Context, _, username string) (bool, error) {
	err := f.record("DELETE follow " + username)
	if f.following != nil {
		return *f.following, err
	}
	return false, err
}

func (f *fakeAPI) AddComment(_ context.Context, _, slug, body string) (*models.Comment, error) {
	if err := f.record("POST comment " + slug); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.mu.Unlock()
	return &models.Comment{ID: id, Body: body}, nil
}

func (f *fakeAPI) DeleteComment(_ context.Context, _, slug string, id int) error {
	return f.record("DELETE comment " + slug)
}

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (r *countingRecorder) ObserveInteraction(kind, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = map[string]int{}
	}
	r.outcomes[kind+"/"+outcome]++
}

var creds = session.Static("token")

func TestToggleFavorite_Success(t *testing.T) {
	initial := []models.FavoriteState{
		{Favorited: false, FavoritesCount: 0},
		{Favorited: false, FavoritesCount: 41},
		{Favorited: true, FavoritesCount: 1},
		{Favorited: true, FavoritesCount: 99},
	}

	for _, start := range initial {
		api := &fakeAPI{}
		c := NewController(api, nil)
		toggle := NewFavoriteToggle("u1", "guide", start)

		res, err := c.ToggleFavorite(context.Background(), creds, nil, toggle)
		require.NoError(t, err)
		assert.Equal(t, Committed, res.Outcome)
		assert.Equal(t, !start.Favorited, res.State.Favorited)

		want := start.FavoritesCount + 1
		wantCall := "POST favorite guide"
		if start.Favorited {
			want = start.FavoritesCount - 1
			wantCall = "DELETE favorite guide"
		}
		assert.Equal(t, want, res.State.FavoritesCount)
		assert.Equal(t, []string{wantCall}, api.calls)
		assert.Equal(t, res.State, toggle.State())
	}
}

func TestToggleFavorite_FailureRestoresSnapshot(t *testing.T) {
	initial := []models.FavoriteState{
		{Favorited: false, FavoritesCount: 0},
		{Favorited: false, FavoritesCount: 7},
		{Favorited: true, FavoritesCount: 1},
		{Favorited: true, FavoritesCount: 250},
	}

	for _, start := range initial {
		api := &fakeAPI{err: errors.New("503")}
		rec := &countingRecorder{}
		c := NewController(api, nil, WithRecorder(rec))
		toggle := NewFavoriteToggle("u1", "guide", start)
		notices := notify.NewCollector()

		var optimistic models.FavoriteState
		api.hook = func() { optimistic = toggle.State() }

		res, err := c.ToggleFavorite(context.Background(), creds, notices, toggle)
		require.Error(t, err)
		assert.Equal(t, RolledBack, res.Outcome)
		assert.Equal(t, start, res.State)
		assert.Equal(t, start, toggle.State())
		assert.Equal(t, !start.Favorited, optimistic.Favorited, "flip must be visible while the request is in flight")

		got := notices.Drain()
		require.Len(t, got, 1)
		assert.Equal(t, notify.LevelError, got[0].Level)
		assert.Equal(t, 1, rec.outcomes["favorite/rolled_back"])
	}
}

func TestAuthMissing_NoNetworkCalls(t *testing.T) {
	api := &fakeAPI{}
	c := NewController(api, nil)
	ctx := context.Background()

	for _, anon := range []session.Credentials{nil, session.Anonymous} {
		notices := notify.NewCollector()

		fav := NewFavoriteToggle("anon", "guide", models.FavoriteState{FavoritesCount: 3})
		res, err := c.ToggleFavorite(ctx, anon, notices, fav)
		assert.ErrorIs(t, err, ErrAuthRequired)
		assert.Equal(t, AuthMissing, res.Outcome)
		assert.Equal(t, models.FavoriteState{FavoritesCount: 3}, fav.State())

		follow := NewFollowToggle("anon", "alice", models.FollowState{})
		_, err = c.ToggleFollow(ctx, anon, notices, follow)
		assert.ErrorIs(t, err, ErrAuthRequired)

		thread := NewCommentThread("guide", nil)
		_, err = c.AddComment(ctx, anon, notices, thread, "hello")
		assert.ErrorIs(t, err, ErrAuthRequired)

		err = c.DeleteComment(ctx, anon, notices, thread, 1)
		assert.ErrorIs(t, err, ErrAuthRequired)

		got := notices.Drain()
		require.Len(t, got, 4)
		for _, n := range got {
			assert.Equal(t, notify.LevelError, n.Level)
		}
	}

	assert.Zero(t, api.callCount())
}

func TestToggleFollow_AppliesCanonicalValue(t *testing.T) {
	canonical := false
	api := &fakeAPI{following: &canonical}
	c := NewController(api, nil)
	toggle := NewFollowToggle("u1", "alice", models.FollowState{Following: false})

	var provisional models.FollowState
	api.hook = func() { provisional = toggle.State() }

	res, err := c.ToggleFollow(context.Background(), creds, nil, toggle)
	require.NoError(t, err)
	assert.True(t, provisional.Following, "provisional flip expected during the request")
	assert.Equal(t, Committed, res.Outcome)
	assert.False(t, res.State.Following, "server value must win")
	assert.Equal(t, []string{"POST follow alice"}, api.calls)
}

func TestToggleFollow_FailureRestoresSnapshot(t *testing.T) {
	api := &fakeAPI{err: errors.New("network down")}
	c := NewController(api, nil)
	toggle := NewFollowToggle("u1", "alice", models.FollowState{Following: true})
	notices := notify.NewCollector()

	res, err := c.ToggleFollow(context.Background(), creds, notices, toggle)
	require.Error(t, err)
	assert.Equal(t, RolledBack, res.Outcome)
	assert.True(t, toggle.State().Following)
	assert.Equal(t, []string{"DELETE follow alice"}, api.calls)
	assert.Len(t, notices.Drain(), 1)
}

func TestToggleFavorite_StaleResponseIsDiscarded(t *testing.T) {
	api := &fakeAPI{}
	seq := NewMemorySequencer()
	c := NewController(api, seq)
	toggle := NewFavoriteToggle("u1", "guide", models.FavoriteState{Favorited: false, FavoritesCount: 5})

	// While the first request is in flight a second toggle is issued and
	// settles. The first response then arrives late and fails.
	first := true
	api.hook = func() {
		if !first {
			return
		}
		first = false
		api.mu.Lock()
		api.err = nil
		api.mu.Unlock()
		res, err := c.ToggleFavorite(context.Background(), creds, nil, toggle)
		require.NoError(t, err)
		require.Equal(t, Committed, res.Outcome)
		api.mu.Lock()
		api.err = errors.New("late failure")
		api.mu.Unlock()
	}

	res, err := c.ToggleFavorite(context.Background(), creds, nil, toggle)
	require.NoError(t, err)
	assert.Equal(t, Superseded, res.Outcome)
	assert.Equal(t, models.FavoriteState{Favorited: false, FavoritesCount: 5}, toggle.State(),
		"the late failure must not roll back the newer toggle")
}

func TestToggleFavorite_CancelledConsumerDoesNotMutate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &fakeAPI{err: errors.New("boom")}
	api.hook = cancel
	c := NewController(api, nil)
	toggle := NewFavoriteToggle("u1", "guide", models.FavoriteState{FavoritesCount: 1})
	notices := notify.NewCollector()

	res, err := c.ToggleFavorite(ctx, creds, notices, toggle)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Cancelled, res.Outcome)
	assert.Empty(t, notices.Drain(), "no notice once the consumer is gone")
}

func TestComments(t *testing.T) {
	api := &fakeAPI{}
	c := NewController(api, nil)
	thread := NewCommentThread("guide", []models.Comment{{ID: 100, Body: "first"}})
	ctx := context.Background()
	notices := notify.NewCollector()

	_, err := c.AddComment(ctx, creds, notices, thread, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, api.callCount())

	comment, err := c.AddComment(ctx, creds, notices, thread, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", comment.Body)
	assert.Len(t, thread.Comments(), 2)
	assert.Equal(t, "second", thread.Comments()[0].Body)

	require.NoError(t, c.DeleteComment(ctx, creds, notices, thread, 100))
	require.Len(t, thread.Comments(), 1)
	assert.Equal(t, comment.ID, thread.Comments()[0].ID)

	api.err = errors.New("500")
	_, err = c.AddComment(ctx, creds, notices, thread, "third")
	require.Error(t, err)
	assert.Len(t, thread.Comments(), 1, "failed post must not change the thread")
}
