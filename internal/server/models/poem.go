// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

// Poem is a text written by an author. PublishedAt is set if and only if
// Status is published. Symbol is derived from the vote tally on read and is
// never persisted.
type Poem struct {
	ID          int64
	AuthorID    int64
	Title       string
	Content     string
	Mood        vocab.Mood
	Status      vocab.PoemStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
	Symbol      vocab.Symbol
}

func (p *Poem) IsPublished() bool {
	return p.Status == vocab.StatusPublished
}

// PoemChanges is the subset of editable poem fields supplied by an update.
// Nil fields are left untouched.
type PoemChanges struct {
	Title   *string
	Content *string
	Mood    *vocab.Mood
}

func (c PoemChanges) Empty() bool {
	return c.Title == nil && c.Content == nil && c.Mood == nil
}

// Apply copies the present fields onto p.
func (c PoemChanges) Apply(p *Poem) {
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Content != nil {
		p.Content = *c.Content
	}
	if c.Mood != nil {
		p.Mood = *c.Mood
	}
}

// Page bounds a listing. Ordering is owned by the repository.
type Page struct {
	Limit  int
	Offset int
}
