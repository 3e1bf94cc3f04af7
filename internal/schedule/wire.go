package schedule

import (
	"context"
	"fmt"
)

// Snapshot is the wire shape of a schedule as served by the get boundary.
type Snapshot struct {
	Locations []LocationRecord `json:"locations"`
	Blocks    []BlockRecord    `json:"blocks"`
	Slots     []SlotRecord     `json:"slots"`
	Games     []GameRecord     `json:"games"`
}

// LocationRecord is a location on the wire.
type LocationRecord struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// BlockRecord is a time block on the wire.
type BlockRecord struct {
	ID     int64   `json:"id"`
	Text   string  `json:"text"`
	Offset float64 `json:"offset"`
}

// SlotRecord is a time slot on the wire.
type SlotRecord struct {
	ID    int64   `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	Width float64 `json:"width"`
}

// GameRecord is a scheduled item on the wire. Location, TimeBlock and TimeSlot
// are indices into the snapshot's sequences, -1 when unset.
type GameRecord struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	GM              string  `json:"gm"`
	Location        int     `json:"location"`
	TimeBlock       int     `json:"time_block"`
	TimeSlot        int     `json:"time_slot"`
	PreferredTime   string  `json:"preferred_time,omitempty"`
	SpecialRequests string  `json:"special_requests,omitempty"`
	Start           float64 `json:"start"`
	Width           float64 `json:"width"`
}

// Assignment is the persist payload for one item. Optional references are
// omitted when unset so the backing store never receives a sentinel.
type Assignment struct {
	ID        int64  `json:"id"`
	Location  *int64 `json:"location,omitempty"`
	TimeBlock *int64 `json:"time_block,omitempty"`
	TimeSlot  *int64 `json:"time_slot,omitempty"`
}

// Repository is the backing store boundary: a snapshot getter and a per-item
// assignment writer.
type Repository interface {
	// LoadSnapshot fetches the current schedule.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)

	// SaveAssignment persists one item's location, time block and time slot.
	// Omitted references clear the stored value.
	SaveAssignment(ctx context.Context, a Assignment) error

	// Close releases any resources held by the repository.
	Close() error
}

// FromSnapshot builds a Schedule from its wire form. Item start and width are
// recomputed from the block and slot indices.
func FromSnapshot(snap *Snapshot) (*Schedule, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	s := &Schedule{
		Locations: make([]Location, len(snap.Locations)),
		Blocks:    make([]TimeBlock, len(snap.Blocks)),
		Slots:     make([]TimeSlot, len(snap.Slots)),
		Items:     make([]*Item, 0, len(snap.Games)),
	}
	for i, l := range snap.Locations {
		s.Locations[i] = Location{ID: l.ID, Label: l.Text}
	}
	for i, b := range snap.Blocks {
		s.Blocks[i] = TimeBlock{ID: b.ID, Text: b.Text, Offset: b.Offset}
	}
	for i, sl := range snap.Slots {
		if sl.Width < 0 {
			return nil, fmt.Errorf("%w: slot %d has negative width %v", ErrInvalidSlot, sl.ID, sl.Width)
		}
		s.Slots[i] = TimeSlot{ID: sl.ID, Text: sl.Text, Start: sl.Start, Width: sl.Width}
	}

	for _, g := range snap.Games {
		it := &Item{
			ID:              g.ID,
			Title:           g.Title,
			GM:              g.GM,
			PreferredTime:   g.PreferredTime,
			SpecialRequests: g.SpecialRequests,
			LocationIndex:   g.Location,
			TimeBlockIndex:  g.TimeBlock,
			TimeSlotIndex:   g.TimeSlot,
		}
		for _, d := range Dimensions {
			if err := s.checkIndex(d, it.Index(d)); err != nil {
				return nil, fmt.Errorf("game %d: %w", g.ID, err)
			}
		}
		s.Derive(it)
		s.Items = append(s.Items, it)
	}

	return s, nil
}

// Snapshot returns the wire form of the schedule.
func (s *Schedule) Snapshot() *Snapshot {
	snap := &Snapshot{
		Locations: make([]LocationRecord, len(s.Locations)),
		Blocks:    make([]BlockRecord, len(s.Blocks)),
		Slots:     make([]SlotRecord, len(s.Slots)),
		Games:     make([]GameRecord, len(s.Items)),
	}
	for i, l := range s.Locations {
		snap.Locations[i] = LocationRecord{ID: l.ID, Text: l.Label}
	}
	for i, b := range s.Blocks {
		snap.Blocks[i] = BlockRecord{ID: b.ID, Text: b.Text, Offset: b.Offset}
	}
	for i, sl := range s.Slots {
		snap.Slots[i] = SlotRecord{ID: sl.ID, Text: sl.Text, Start: sl.Start, Width: sl.Width}
	}
	for i, it := range s.Items {
		snap.Games[i] = GameRecord{
			ID:              it.ID,
			Title:           it.Title,
			GM:              it.GM,
			Location:        it.LocationIndex,
			TimeBlock:       it.TimeBlockIndex,
			TimeSlot:        it.TimeSlotIndex,
			PreferredTime:   it.PreferredTime,
			SpecialRequests: it.SpecialRequests,
			Start:           it.Start,
			Width:           it.Width,
		}
	}
	return snap
}

// Assignment translates an item's indices back to persistence IDs.
// Unset indices are left out of the payload.
func (s *Schedule) Assignment(it *Item) Assignment {
	a := Assignment{ID: it.ID}
	if i := it.LocationIndex; i >= 0 && i < len(s.Locations) {
		id := s.Locations[i].ID
		a.Location = &id
	}
	if i := it.TimeBlockIndex; i >= 0 && i < len(s.Blocks) {
		id := s.Blocks[i].ID
		a.TimeBlock = &id
	}
	if i := it.TimeSlotIndex; i >= 0 && i < len(s.Slots) {
		id := s.Slots[i].ID
		a.TimeSlot = &id
	}
	return a
}
