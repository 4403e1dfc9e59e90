package locations

import (
	"fmt"
	"strconv"
	"strings"

	"partshub/internal/core/apperror"
	"partshub/internal/core/id"
)

// LayoutType selects how many ranges combine into names.
type LayoutType string

const (
	LayoutSingle LayoutType = "single"
	LayoutRow    LayoutType = "row"
	LayoutGrid   LayoutType = "grid"
	LayoutGrid3D LayoutType = "grid_3d"
)

// RangeCount returns how many ranges the layout type takes, or -1 if unknown.
func (t LayoutType) RangeCount() int {
	switch t {
	case LayoutSingle:
		return 0
	case LayoutRow:
		return 1
	case LayoutGrid:
		return 2
	case LayoutGrid3D:
		return 3
	}
	return -1
}

// RangeKind is the alphabet of one axis.
type RangeKind string

const (
	RangeLetters RangeKind = "letters"
	RangeNumbers RangeKind = "numbers"
)

// DefaultSeparator joins values of grid and grid_3d layouts.
const DefaultSeparator = "-"

// RangeSpec is one axis as submitted by a client.
type RangeSpec struct {
	Kind  RangeKind `json:"type"`
	Start string    `json:"start"`
	End   string    `json:"end"`

	// ZeroPad pads numbers to the width of End (numbers only).
	ZeroPad bool `json:"zero_pad,omitempty"`

	// Capitalize emits upper-case letters (letters only).
	Capitalize bool `json:"capitalize,omitempty"`
}

// LayoutConfig is the unvalidated layout request. It is also what gets
// stored in the layout_config column of each generated row.
type LayoutConfig struct {
	LayoutType     LayoutType   `json:"layout_type"`
	Prefix         string       `json:"prefix"`
	Ranges         []RangeSpec  `json:"ranges"`
	Separator      string       `json:"separator"`
	ParentID       *id.ID       `json:"parent_id,omitempty"`
	LocationType   LocationType `json:"location_type"`
	SinglePartOnly bool         `json:"single_part_only"`
}

// Range is one validated axis of a layout.
type Range interface {
	Kind() RangeKind
	// Len is the number of values in the range.
	Len() int
	// Values returns the formatted values in ascending order.
	Values() []string
}

type letterRange struct {
	start, end byte
	upper      bool
}

func (r letterRange) Kind() RangeKind { return RangeLetters }

func (r letterRange) Len() int { return int(r.end-r.start) + 1 }

func (r letterRange) Values() []string {
	out := make([]string, 0, r.Len())
	for c := r.start; ; c++ {
		v := string(rune(c))
		if r.upper {
			v = strings.ToUpper(v)
		}
		out = append(out, v)
		if c == r.end {
			break
		}
	}
	return out
}

type numberRange struct {
	start, end int64
	width      int
}

func (r numberRange) Kind() RangeKind { return RangeNumbers }

func (r numberRange) Len() int { return int(r.end-r.start) + 1 }

func (r numberRange) Values() []string {
	out := make([]string, 0, r.Len())
	for n := r.start; n <= r.end; n++ {
		if r.width > 0 {
			out = append(out, fmt.Sprintf("%0*d", r.width, n))
		} else {
			out = append(out, strconv.FormatInt(n, 10))
		}
	}
	return out
}

// NewRange validates spec and builds the axis it describes.
func NewRange(spec RangeSpec) (Range, error) {
	switch spec.Kind {
	case RangeLetters:
		return newLetterRange(spec)
	case RangeNumbers:
		return newNumberRange(spec)
	}
	return nil, apperror.NewRange("unknown range type").
		WithDetail("type", string(spec.Kind))
}

func newLetterRange(spec RangeSpec) (Range, error) {
	start, okStart := parseLetter(spec.Start)
	end, okEnd := parseLetter(spec.End)
	if !okStart || !okEnd {
		return nil, rangeErr(spec, "letter range bounds must be single letters a-z")
	}
	if start > end {
		return nil, rangeErr(spec, "range start must not be after end")
	}
	return letterRange{start: start, end: end, upper: spec.Capitalize}, nil
}

func parseLetter(s string) (byte, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 1 || s[0] < 'a' || s[0] > 'z' {
		return 0, false
	}
	return s[0], true
}

func newNumberRange(spec RangeSpec) (Range, error) {
	start, errStart := strconv.ParseInt(strings.TrimSpace(spec.Start), 10, 32)
	end, errEnd := strconv.ParseInt(strings.TrimSpace(spec.End), 10, 32)
	if errStart != nil || errEnd != nil {
		return nil, rangeErr(spec, "number range bounds must be integers")
	}
	if start > end {
		return nil, rangeErr(spec, "range start must not be after end")
	}
	r := numberRange{start: start, end: end}
	if spec.ZeroPad {
		r.width = len(strconv.FormatInt(end, 10))
	}
	return r, nil
}

func rangeErr(spec RangeSpec, msg string) error {
	return apperror.NewRange(msg).
		WithDetail("type", string(spec.Kind)).
		WithDetail("start", spec.Start).
		WithDetail("end", spec.End)
}

// Layout is a validated layout configuration. The concrete types are
// Single, Row, Grid and Grid3D; each holds exactly the ranges it needs.
type Layout interface {
	Type() LayoutType
	// Axes returns the ranges, outermost (slowest varying) first.
	Axes() []Range
	// Compose builds a name from one value per axis.
	Compose(values []string) string
}

// Single produces exactly one location named by the prefix.
type Single struct {
	Prefix string
}

func (Single) Type() LayoutType { return LayoutSingle }

func (Single) Axes() []Range { return nil }

func (l Single) Compose([]string) string { return l.Prefix }

// Row appends each value of one range directly to the prefix.
type Row struct {
	Prefix string
	Axis   Range
}

func (Row) Type() LayoutType { return LayoutRow }

func (l Row) Axes() []Range { return []Range{l.Axis} }

func (l Row) Compose(values []string) string { return l.Prefix + values[0] }

// Grid combines two ranges; Inner varies fastest.
type Grid struct {
	Prefix    string
	Separator string
	Outer     Range
	Inner     Range
}

func (Grid) Type() LayoutType { return LayoutGrid }

func (l Grid) Axes() []Range { return []Range{l.Outer, l.Inner} }

func (l Grid) Compose(values []string) string {
	return l.Prefix + strings.Join(values, l.Separator)
}

// Grid3D combines three ranges; Outer varies slowest and Inner fastest.
type Grid3D struct {
	Prefix    string
	Separator string
	Outer     Range
	Middle    Range
	Inner     Range
}

func (Grid3D) Type() LayoutType { return LayoutGrid3D }

func (l Grid3D) Axes() []Range { return []Range{l.Outer, l.Middle, l.Inner} }

func (l Grid3D) Compose(values []string) string {
	return l.Prefix + strings.Join(values, l.Separator)
}

// NewLayout validates cfg and returns the matching Layout variant.
// Range count, range bounds and the single-layout prefix are all checked here.
func NewLayout(cfg LayoutConfig) (Layout, error) {
	want := cfg.LayoutType.RangeCount()
	if want < 0 {
		return nil, apperror.NewRange("unknown layout type").
			WithDetail("layout_type", string(cfg.LayoutType))
	}
	if len(cfg.Ranges) != want {
		return nil, apperror.NewRange(fmt.Sprintf("%s layout requires %d range(s)", cfg.LayoutType, want)).
			WithDetail("layout_type", string(cfg.LayoutType)).
			WithDetail("ranges", len(cfg.Ranges))
	}

	axes := make([]Range, len(cfg.Ranges))
	for i, spec := range cfg.Ranges {
		r, err := NewRange(spec)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				appErr.WithDetail("index", i)
			}
			return nil, err
		}
		axes[i] = r
	}

	switch cfg.LayoutType {
	case LayoutSingle:
		if strings.TrimSpace(cfg.Prefix) == "" {
			return nil, apperror.NewValidation("prefix is required for single layout").
				WithDetail("field", "prefix")
		}
		return Single{Prefix: cfg.Prefix}, nil
	case LayoutRow:
		return Row{Prefix: cfg.Prefix, Axis: axes[0]}, nil
	case LayoutGrid:
		return Grid{Prefix: cfg.Prefix, Separator: cfg.Separator, Outer: axes[0], Inner: axes[1]}, nil
	default:
		return Grid3D{Prefix: cfg.Prefix, Separator: cfg.Separator, Outer: axes[0], Middle: axes[1], Inner: axes[2]}, nil
	}
}
