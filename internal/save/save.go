// Package save persists schedule items to a backing store one at a time.
package save

import (
	"context"
	"errors"
	"fmt"

	"github.com/javiermolinar/congrid/internal/schedule"
)

// ErrNoPersister is returned when a pipeline runs without a store.
var ErrNoPersister = errors.New("no persister configured")

// Persister writes one item assignment.
type Persister interface {
	SaveAssignment(ctx context.Context, a schedule.Assignment) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, a schedule.Assignment) error

// SaveAssignment implements Persister.
func (f PersisterFunc) SaveAssignment(ctx context.Context, a schedule.Assignment) error {
	return f(ctx, a)
}

// ItemError reports the item a save halted on.
type ItemError struct {
	Index  int
	ItemID int64
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("saving item %d (id %d): %v", e.Index, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Progress describes one completed item.
type Progress struct {
	Index  int
	ItemID int64
	Saved  int
	Total  int
}

// Pipeline walks the schedule's items in order and persists each one only
// after the previous one succeeded. A failure halts the pipeline at the failed
// item; running it again retries from there.
type Pipeline struct {
	schedule   *schedule.Schedule
	items      []*schedule.Item
	persister  Persister
	next       int
	lastErr    error
	onProgress func(Progress)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// OnProgress registers a callback invoked after each item is saved.
func OnProgress(fn func(Progress)) Option {
	return func(p *Pipeline) {
		p.onProgress = fn
	}
}

// New creates a pipeline over the schedule's current item order.
func New(s *schedule.Schedule, persister Persister, opts ...Option) *Pipeline {
	p := &Pipeline{
		schedule:  s,
		persister: persister,
	}
	if s != nil {
		p.items = append([]*schedule.Item(nil), s.Items...)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Total returns the number of items the pipeline saves.
func (p *Pipeline) Total() int {
	return len(p.items)
}

// Next returns the index of the next item to save.
func (p *Pipeline) Next() int {
	return p.next
}

// Done reports whether every item has been saved.
func (p *Pipeline) Done() bool {
	return p.next >= len(p.items)
}

// Err returns the error of the last failed step, or nil.
func (p *Pipeline) Err() error {
	return p.lastErr
}

// Step saves the next item. It advances only when the store accepted the
// item, and reports done once the last item is saved.
func (p *Pipeline) Step(ctx context.Context) (bool, error) {
	if p.Done() {
		return true, nil
	}
	if p.persister == nil {
		return false, ErrNoPersister
	}

	index := p.next
	it := p.items[index]
	if it == nil {
		p.advance(index, 0)
		return p.Done(), nil
	}

	if err := ctx.Err(); err != nil {
		return false, p.fail(index, it.ID, err)
	}
	if err := p.persister.SaveAssignment(ctx, p.schedule.Assignment(it)); err != nil {
		return false, p.fail(index, it.ID, err)
	}

	p.advance(index, it.ID)
	return p.Done(), nil
}

// Run steps until every item is saved or one fails.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		done, err := p.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Reset rewinds the pipeline to the first item.
func (p *Pipeline) Reset() {
	p.next = 0
	p.lastErr = nil
}

func (p *Pipeline) advance(index int, id int64) {
	p.next = index + 1
	p.lastErr = nil
	if p.onProgress != nil {
		p.onProgress(Progress{Index: index, ItemID: id, Saved: p.next, Total: len(p.items)})
	}
}

func (p *Pipeline) fail(index int, id int64, err error) error {
	p.lastErr = &ItemError{Index: index, ItemID: id, Err: err}
	return p.lastErr
}
