// Package layout computes the pixel geometry of the schedule grid.
package layout

import (
	"errors"
	"fmt"
)

// Config errors.
var (
	ErrInvalidRowHeight = errors.New("row height must be positive")
	ErrInvalidUnits     = errors.New("invalid time units")
	ErrInvalidOrigin    = errors.New("origin hour must be between 0 and 23")
)

// Config holds the layout constants of the grid. Distances are in pixels,
// units are hours along the time axis.
type Config struct {
	RowHeight    float64 // height of one location row
	TextOffset   float64 // left padding of location labels and item titles
	GridMargin   float64 // gap between the widest label and the grid
	RowBaseline  float64 // text baseline of row 0
	ItemBaseline float64 // distance from a row baseline up to its item top
	ItemInset    float64 // RowHeight minus item height
	GridTop      float64 // y of the grid's top edge
	HeaderHeight float64 // canvas height with zero rows

	Units      int // hour units spanning the available width
	GridUnits  int // hour units actually drawn
	BlockUnits int // hours between bold grid lines
	OriginHour int // clock hour at time-axis 0

	DayHeaderY    float64
	DayBandHeight float64
	DayBandTop    float64
	HourHeaderY   float64
	LabelBarTop   float64

	// Days are the names shown in the day header, one per 24 hours starting
	// with the day containing the origin.
	Days []string

	// MinWidth is the floor applied to the requested canvas width.
	MinWidth float64
}

// DefaultConfig returns the standard layout: a weekend grid starting Friday 18:00.
func DefaultConfig() Config {
	return Config{
		RowHeight:     30,
		TextOffset:    4,
		GridMargin:    10,
		RowBaseline:   61,
		ItemBaseline:  19,
		ItemInset:     3,
		GridTop:       40,
		HeaderHeight:  41,
		Units:         48,
		GridUnits:     46,
		BlockUnits:    4,
		OriginHour:    18,
		DayHeaderY:    15,
		DayBandHeight: 20,
		DayBandTop:    10,
		HourHeaderY:   35,
		LabelBarTop:   11,
		Days:          []string{"Friday", "Saturday", "Sunday"},
		MinWidth:      500,
	}
}

// Validate checks that the configuration produces a usable grid.
func (c Config) Validate() error {
	if c.RowHeight <= 0 {
		return ErrInvalidRowHeight
	}
	if c.Units <= 0 || c.GridUnits <= 0 || c.BlockUnits <= 0 {
		return fmt.Errorf("%w: units=%d grid_units=%d block_units=%d",
			ErrInvalidUnits, c.Units, c.GridUnits, c.BlockUnits)
	}
	if c.GridUnits > c.Units {
		return fmt.Errorf("%w: grid_units %d exceeds units %d", ErrInvalidUnits, c.GridUnits, c.Units)
	}
	if c.OriginHour < 0 || c.OriginHour > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidOrigin, c.OriginHour)
	}
	return nil
}

// RowY returns the text baseline of a location row.
func (c Config) RowY(row int) float64 {
	return c.RowBaseline + c.RowHeight*float64(row)
}

// ItemHeight returns the height of an item block.
func (c Config) ItemHeight() float64 {
	return max(0, c.RowHeight-c.ItemInset)
}

// ClampWidth applies the minimum canvas width.
func (c Config) ClampWidth(width float64) float64 {
	if !finite(width) || width < c.MinWidth {
		return c.MinWidth
	}
	return width
}
