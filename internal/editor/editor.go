// Package editor keeps an edit table in step with the schedule it edits.
// Every selection updates the item's indices, recomputes its position and
// redraws the whole grid.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/javiermolinar/congrid/internal/render"
	"github.com/javiermolinar/congrid/internal/save"
	"github.com/javiermolinar/congrid/internal/schedule"
)

// Controller errors.
var (
	ErrUnsavedChanges = errors.New("there are unsaved changes")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrSaveInProgress = errors.New("save in progress")
	ErrInvalidIndex   = errors.New("invalid selector value")
)

const defaultMaxHistory = 50

// Renderer draws a schedule at a canvas width.
type Renderer interface {
	Render(width float64, s *schedule.Schedule) *render.Drawing
}

// Selector is one dropdown of a row.
type Selector struct {
	Dimension schedule.Dimension
	Options   []schedule.Option
	Selected  int
}

// Label returns the label of the selected option.
func (s Selector) Label() string {
	for _, opt := range s.Options {
		if opt.Index == s.Selected {
			return opt.Label
		}
	}
	return schedule.NotSelectedLabel
}

// Row is one line of the edit table, bound to its item by identity.
type Row struct {
	Item      *schedule.Item
	Selectors [3]Selector // schedule.Dimensions order
}

// Selector returns the row's selector for a dimension.
func (r Row) Selector(d schedule.Dimension) Selector {
	for _, s := range r.Selectors {
		if s.Dimension == d {
			return s
		}
	}
	return Selector{Dimension: d, Selected: schedule.Unset}
}

type change struct {
	item *schedule.Item
	dim  schedule.Dimension
	prev int
}

// Controller owns the edit session of one schedule.
type Controller struct {
	schedule *schedule.Schedule
	renderer Renderer
	width    float64

	rows    []Row
	drawing *render.Drawing

	dirty  bool
	saving bool

	history    []change
	maxHistory int
	truncated  bool
	// committed is set once a halted save wrote some items; the store then
	// differs from both the loaded and the edited schedule.
	committed bool

	onRedraw func(*render.Drawing)
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistoryLimit bounds the number of undoable selections.
func WithHistoryLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxHistory = n
		}
	}
}

// OnRedraw registers a callback invoked after every render.
func OnRedraw(fn func(*render.Drawing)) Option {
	return func(c *Controller) {
		c.onRedraw = fn
	}
}

// New builds the rows for every item and draws the schedule once.
func New(s *schedule.Schedule, r Renderer, width float64, opts ...Option) *Controller {
	if s == nil {
		s = &schedule.Schedule{}
	}
	c := &Controller{
		schedule:   s,
		renderer:   r,
		width:      width,
		maxHistory: defaultMaxHistory,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Rebuild()
	return c
}

// Schedule returns the schedule being edited.
func (c *Controller) Schedule() *schedule.Schedule {
	return c.schedule
}

// Rows returns the edit table rows in item order.
func (c *Controller) Rows() []Row {
	return c.rows
}

// Row returns the row of an item.
func (c *Controller) Row(itemID int64) (Row, bool) {
	for _, r := range c.rows {
		if r.Item.ID == itemID {
			return r, true
		}
	}
	return Row{}, false
}

// Drawing returns the latest render.
func (c *Controller) Drawing() *render.Drawing {
	return c.drawing
}

// Width returns the requested canvas width.
func (c *Controller) Width() float64 {
	return c.width
}

// Dirty reports whether there are unsaved selections.
func (c *Controller) Dirty() bool {
	return c.dirty
}

// Saving reports whether a save is running.
func (c *Controller) Saving() bool {
	return c.saving
}

// GuardLeave returns ErrUnsavedChanges while there are unsaved selections.
func (c *Controller) GuardLeave() error {
	if c.dirty {
		return ErrUnsavedChanges
	}
	return nil
}

// Select assigns an index to one dimension of an item, recomputes the item's
// start and width and redraws.
func (c *Controller) Select(it *schedule.Item, d schedule.Dimension, index int) error {
	if c.saving {
		return ErrSaveInProgress
	}
	if c.schedule.IndexOf(it) < 0 {
		return schedule.ErrItemNotFound
	}

	prev := it.Index(d)
	if err := c.schedule.Assign(it, d, index); err != nil {
		return err
	}
	if prev == index {
		return nil
	}

	c.pushHistory(change{item: it, dim: d, prev: prev})
	c.dirty = true
	c.syncRow(it)
	c.redraw()
	return nil
}

// SelectRaw is Select for a selector value as submitted by a form, e.g. "-1"
// or "3".
func (c *Controller) SelectRaw(itemID int64, dim, raw string) error {
	it, ok := c.schedule.ItemByID(itemID)
	if !ok {
		return fmt.Errorf("%w: %d", schedule.ErrItemNotFound, itemID)
	}
	d, err := schedule.ParseDimension(dim)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidIndex, raw)
	}
	return c.Select(it, d, index)
}

// Cycle moves a selector to the next (delta 1) or previous (delta -1) option,
// wrapping around through Not Selected.
func (c *Controller) Cycle(it *schedule.Item, d schedule.Dimension, delta int) error {
	if it == nil || c.schedule.IndexOf(it) < 0 {
		return schedule.ErrItemNotFound
	}
	n := c.schedule.Len(d) + 1
	if n <= 1 {
		return nil
	}
	// Option positions are index+1, with Not Selected at 0.
	pos := (it.Index(d) + 1 + delta) % n
	if pos < 0 {
		pos += n
	}
	return c.Select(it, d, pos-1)
}

// Undo reverts the most recent selection.
func (c *Controller) Undo() error {
	if c.saving {
		return ErrSaveInProgress
	}
	if len(c.history) == 0 {
		return ErrNothingToUndo
	}

	last := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	if err := c.schedule.Assign(last.item, last.dim, last.prev); err != nil {
		return err
	}
	if len(c.history) == 0 && !c.truncated && !c.committed {
		c.dirty = false
	}
	c.syncRow(last.item)
	c.redraw()
	return nil
}

// CanUndo reports whether there is a selection to undo.
func (c *Controller) CanUndo() bool {
	return len(c.history) > 0
}

// Rebuild rebinds the rows to the schedule's current item order and redraws.
func (c *Controller) Rebuild() {
	c.rows = make([]Row, 0, len(c.schedule.Items))
	for _, it := range c.schedule.Items {
		if it == nil {
			continue
		}
		c.rows = append(c.rows, c.buildRow(it))
	}
	c.redraw()
}

// Reorder sorts the items and rebuilds the rows.
func (c *Controller) Reorder(less func(a, b *schedule.Item) bool) {
	sort.SliceStable(c.schedule.Items, func(i, j int) bool {
		return less(c.schedule.Items[i], c.schedule.Items[j])
	})
	c.Rebuild()
}

// ByTime orders items by time block, then time slot, then title. Unscheduled
// items sort last.
func ByTime(a, b *schedule.Item) bool {
	if ka, kb := sortIndex(a.TimeBlockIndex), sortIndex(b.TimeBlockIndex); ka != kb {
		return ka < kb
	}
	if ka, kb := sortIndex(a.TimeSlotIndex), sortIndex(b.TimeSlotIndex); ka != kb {
		return ka < kb
	}
	return a.Title < b.Title
}

func sortIndex(i int) int {
	if i < 0 {
		return int(^uint(0) >> 1)
	}
	return i
}

// Resize redraws at a new canvas width.
func (c *Controller) Resize(width float64) {
	c.width = width
	c.redraw()
}

// BeginSave creates a pipeline over the current item order and blocks edits
// until EndSave.
func (c *Controller) BeginSave(p save.Persister, opts ...save.Option) (*save.Pipeline, error) {
	if c.saving {
		return nil, ErrSaveInProgress
	}
	c.saving = true
	return save.New(c.schedule, p, opts...), nil
}

// EndSave unblocks edits. The session becomes clean only when the pipeline
// saved every item. A pipeline that halted after writing some items keeps the
// session dirty until a later save completes, whatever is undone meanwhile.
func (c *Controller) EndSave(p *save.Pipeline) {
	c.saving = false
	if p == nil {
		return
	}
	switch {
	case p.Done():
		c.dirty = false
		c.history = nil
		c.truncated = false
		c.committed = false
	case p.Next() > 0:
		c.committed = true
	}
}

// Save persists every item in order and returns the first failure.
func (c *Controller) Save(ctx context.Context, p save.Persister, opts ...save.Option) error {
	pipeline, err := c.BeginSave(p, opts...)
	if err != nil {
		return err
	}
	err = pipeline.Run(ctx)
	c.EndSave(pipeline)
	return err
}

func (c *Controller) buildRow(it *schedule.Item) Row {
	var row Row
	row.Item = it
	for i, d := range schedule.Dimensions {
		row.Selectors[i] = Selector{
			Dimension: d,
			Options:   c.schedule.Options(d),
			Selected:  it.Index(d),
		}
	}
	return row
}

func (c *Controller) syncRow(it *schedule.Item) {
	for i := range c.rows {
		if c.rows[i].Item != it {
			continue
		}
		for j := range c.rows[i].Selectors {
			c.rows[i].Selectors[j].Selected = it.Index(c.rows[i].Selectors[j].Dimension)
		}
		return
	}
}

func (c *Controller) pushHistory(ch change) {
	if len(c.history) >= c.maxHistory {
		c.history = c.history[1:]
		c.truncated = true
	}
	c.history = append(c.history, ch)
}

func (c *Controller) redraw() {
	if c.renderer == nil {
		return
	}
	c.drawing = c.renderer.Render(c.width, c.schedule)
	if c.onRedraw != nil {
		c.onRedraw(c.drawing)
	}
}
