// Package interaction applies favorite, follow and comment actions
// optimistically and reconciles them with the remote API.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"modportal/internal/models"
	"modportal/internal/notify"
	"modportal/internal/session"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrInvalidInput = errors.New("invalid input")
)

// Outcome describes how a toggle settled.
type Outcome string

const (
	Committed   Outcome = "committed"
	RolledBack  Outcome = "rolled_back"
	Superseded  Outcome = "superseded"
	AuthMissing Outcome = "auth_missing"
	Cancelled   Outcome = "cancelled"
)

// API is the slice of the remote client the controller drives.
type API interface {
	Favorite(ctx context.Context, token, slug string) error
	Unfavorite(ctx context.Context, token, slug string) error
	Follow(ctx context.Context, token, username string) (bool, error)
	Unfollow(ctx context.Context, token, username string) (bool, error)
	AddComment(ctx context.Context, token, slug, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, token, slug string, id int) error
}

// Recorder counts settled interactions.
type Recorder interface {
	ObserveInteraction(kind string, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveInteraction(string, string) {}

// Timeouts are the auto-dismiss durations of the notices each action emits.
type Timeouts struct {
	Favorite time.Duration
	Follow   time.Duration
	Comment  time.Duration
}

// Controller runs optimistic interactions. It is safe for concurrent use.
type Controller struct {
	api      API
	seq      Sequencer
	recorder Recorder
	timeouts Timeouts
	log      *zap.Logger
	now      func() time.Time
}

// Option customises a Controller.
type Option func(*Controller)

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithTimeouts sets notice timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(c *Controller) { c.timeouts = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController creates a controller over api using seq for request ordering.
func NewController(api API, seq Sequencer, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		seq:      seq,
		recorder: nopRecorder{},
		timeouts: Timeouts{Favorite: 3 * time.Second, Follow: 3 * time.Second, Comment: 5 * time.Second},
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.seq == nil {
		c.seq = NewMemorySequencer()
	}
	return c
}

// FavoriteToggle is the locally displayed favorite state of one article.
type FavoriteToggle struct {
	mu    sync.Mutex
	key   string
	slug  string
	state models.FavoriteState
}

// NewFavoriteToggle tracks the favorite state of slug as seen by scope
// (usually the viewer's identity).
func NewFavoriteToggle(scope, slug string, initial models.FavoriteState) *FavoriteToggle {
	return &FavoriteToggle{key: scope + ":favorite:" + slug, slug: slug, state: initial}
}

// State returns the currently displayed state.
func (f *FavoriteToggle) State() models.FavoriteState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// FollowToggle is the locally displayed follow state of one author.
type FollowToggle struct {
	mu       sync.Mutex
	key      string
	username string
	state    models.FollowState
}

// NewFollowToggle tracks the follow state of username as seen by scope.
func NewFollowToggle(scope, username string, initial models.FollowState) *FollowToggle {
	return &FollowToggle{key: scope + ":follow:" + username, username: username, state: initial}
}

// State returns the currently displayed state.
func (f *FollowToggle) State() models.FollowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// FavoriteResult is the settled state of a favorite toggle.
type FavoriteResult struct {
	State   models.FavoriteState `json:"state"`
	Outcome Outcome              `json:"outcome"`
}

// FollowResult is the settled state of a follow toggle.
type FollowResult struct {
	State   models.FollowState `json:"state"`
	Outcome Outcome            `json:"outcome"`
}

// ToggleFavorite flips the favorite flag and moves the counter by one before
// the server answers, then keeps the change on success or restores the exact
// pre-toggle snapshot on failure.
func (c *Controller) ToggleFavorite(ctx context.Context, creds session.Credentials, sink notify.Sink, f *FavoriteToggle) (FavoriteResult, error) {
	sink = orDiscard(sink)
	token, ok := session.Resolve(ctx, creds, c.now())
	if !ok {
		sink.Notify(notify.Error("You must be logged in to favorite articles.", c.timeouts.Favorite))
		c.recorder.ObserveInteraction("favorite", string(AuthMissing))
		return FavoriteResult{State: f.State(), Outcome: AuthMissing}, ErrAuthRequired
	}

	seq, err := c.seq.Next(ctx, f.key)
	if err != nil {
		sink.Notify(notify.Error("Failed to update favorite. Please try again.", c.timeouts.Favorite))
		return FavoriteResult{State: f.State(), Outcome: RolledBack}, fmt.Errorf("issue sequence: %w", err)
	}

	f.mu.Lock()
	snapshot := f.state
	f.state.Favorited = !snapshot.Favorited
	if f.state.Favorited {
		f.state.FavoritesCount++
	} else {
		f.state.FavoritesCount--
	}
	f.mu.Unlock()

	if snapshot.Favorited {
		err = c.api.Unfavorite(ctx, token, f.slug)
	} else {
		err = c.api.Favorite(ctx, token, f.slug)
	}

	if outcome, stop := c.gate(ctx, f.key, seq); stop {
		c.recorder.ObserveInteraction("favorite", string(outcome))
		return FavoriteResult{State: f.State(), Outcome: outcome}, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = snapshot
		sink.Notify(notify.Error("Failed to update favorite. Please try again.", c.timeouts.Favorite))
		c.recorder.ObserveInteraction("favorite", string(RolledBack))
		c.log.Warn("favorite toggle rolled back", zap.String("slug", f.slug), zap.Error(err))
		return FavoriteResult{State: f.state, Outcome: RolledBack}, err
	}

	c.recorder.ObserveInteraction("favorite", string(Committed))
	return FavoriteResult{State: f.state, Outcome: Committed}, nil
}

// ToggleFollow flips the follow flag provisionally; on success the server's
// canonical value replaces it, on failure the snapshot is restored.
func (c *Controller) ToggleFollow(ctx context.Context, creds session.Credentials, sink notify.Sink, f *FollowToggle) (FollowResult, error) {
	sink = orDiscard(sink)
	token, ok := session.Resolve(ctx, creds, c.now())
	if !ok {
		sink.Notify(notify.Error("You must be logged in to follow authors.", c.timeouts.Follow))
		c.recorder.ObserveInteraction("follow", string(AuthMissing))
		return FollowResult{State: f.State(), Outcome: AuthMissing}, ErrAuthRequired
	}

	seq, err := c.seq.Next(ctx, f.key)
	if err != nil {
		sink.Notify(notify.Error("Failed to update follow status. Please try again.", c.timeouts.Follow))
		return FollowResult{State: f.State(), Outcome: RolledBack}, fmt.Errorf("issue sequence: %w", err)
	}

	f.mu.Lock()
	snapshot := f.state
	f.state.Following = !snapshot.Following
	f.mu.Unlock()

	var following bool
	if snapshot.Following {
		following, err = c.api.Unfollow(ctx, token, f.username)
	} else {
		following, err = c.api.Follow(ctx, token, f.username)
	}

	if outcome, stop := c.gate(ctx, f.key, seq); stop {
		c.recorder.ObserveInteraction("follow", string(outcome))
		return FollowResult{State: f.State(), Outcome: outcome}, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = snapshot
		sink.Notify(notify.Error("Failed to update follow status. Please try again.", c.timeouts.Follow))
		c.recorder.ObserveInteraction("follow", string(RolledBack))
		c.log.Warn("follow toggle rolled back", zap.String("username", f.username), zap.Error(err))
		return FollowResult{State: f.state, Outcome: RolledBack}, err
	}

	f.state.Following = following
	c.recorder.ObserveInteraction("follow", string(Committed))
	return FollowResult{State: f.state, Outcome: Committed}, nil
}

// gate decides whether a response may still touch local state. It stops
// when the consumer's context is done or a newer request was issued for key.
func (c *Controller) gate(ctx context.Context, key string, seq uint64) (Outcome, bool) {
	if ctx.Err() != nil {
		return Cancelled, true
	}
	latest, err := c.seq.Latest(ctx, key)
	if err != nil {
		c.log.Warn("sequence lookup failed, applying response", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if latest != seq {
		return Superseded, true
	}
	return "", false
}

func orDiscard(sink notify.Sink) notify.Sink {
	if sink == nil {
		return notify.Discard
	}
	return sink
}
