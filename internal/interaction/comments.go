package interaction

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"modportal/internal/models"
	"modportal/internal/notify"
	"modportal/internal/session"
	"modportal/internal/validation"
)

// CommentThread is the locally displayed comment list of one article.
// Comments are not applied optimistically; the list changes only once the
// server confirmed the mutation.
type CommentThread struct {
	mu       sync.Mutex
	slug     string
	comments []models.Comment
}

// NewCommentThread tracks the comments of slug.
func NewCommentThread(slug string, initial []models.Comment) *CommentThread {
	return &CommentThread{slug: slug, comments: slices.Clone(initial)}
}

// Comments returns a copy of the displayed comments.
func (t *CommentThread) Comments() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.comments)
}

// AddComment posts body to the thread's article.
func (c *Controller) AddComment(ctx context.Context, creds session.Credentials, sink notify.Sink, t *CommentThread, body string) (*models.Comment, error) {
	sink = orDiscard(sink)
	token, ok := session.Resolve(ctx, creds, c.now())
	if !ok {
		sink.Notify(notify.Error("You must be logged in to comment.", c.timeouts.Comment))
		c.recorder.ObserveInteraction("comment", string(AuthMissing))
		return nil, ErrAuthRequired
	}
	if valid, msg := validation.ValidateCommentBody(body); !valid {
		sink.Notify(notify.Error(msg, c.timeouts.Comment))
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}

	comment, err := c.api.AddComment(ctx, token, t.slug, body)
	if ctx.Err() != nil {
		c.recorder.ObserveInteraction("comment", string(Cancelled))
		return nil, ctx.Err()
	}
	if err != nil {
		sink.Notify(notify.Error("Failed to post comment. Please try again.", c.timeouts.Comment))
		c.recorder.ObserveInteraction("comment", string(RolledBack))
		c.log.Warn("add comment failed", zap.String("slug", t.slug), zap.Error(err))
		return nil, err
	}

	t.mu.Lock()
	t.comments = append([]models.Comment{*comment}, t.comments...)
	t.mu.Unlock()

	sink.Notify(notify.Success("Comment posted.", c.timeouts.Comment))
	c.recorder.ObserveInteraction("comment", string(Committed))
	return comment, nil
}

// DeleteComment removes comment id from the thread's article.
func (c *Controller) DeleteComment(ctx context.Context, creds session.Credentials, sink notify.Sink, t *CommentThread, id int) error {
	sink = orDiscard(sink)
	token, ok := session.Resolve(ctx, creds, c.now())
	if !ok {
		sink.Notify(notify.Error("You must be logged in to delete comments.", c.timeouts.Comment))
		c.recorder.ObserveInteraction("comment_delete", string(AuthMissing))
		return ErrAuthRequired
	}

	err := c.api.DeleteComment(ctx, token, t.slug, id)
	if ctx.Err() != nil {
		c.recorder.ObserveInteraction("comment_delete", string(Cancelled))
		return ctx.Err()
	}
	if err != nil {
		sink.Notify(notify.Error("Failed to delete comment. Please try again.", c.timeouts.Comment))
		c.recorder.ObserveInteraction("comment_delete", string(RolledBack))
		return err
	}

	t.mu.Lock()
	t.comments = slices.DeleteFunc(t.comments, func(cm models.Comment) bool { return cm.ID == id })
	t.mu.Unlock()

	c.recorder.ObserveInteraction("comment_delete", string(Committed))
	return nil
}
