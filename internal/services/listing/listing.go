package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

type Column string

const (
	ColumnName        Column = "name"
	ColumnSize        Column = "size"
	ColumnContentType Column = "contentType"
	ColumnCreatedAt   Column = "createdAt"
	ColumnUpdatedAt   Column = "updatedAt"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// View derives a filtered, ordered sequence over a fetched file set. It
// holds nothing beyond the sort column, the direction and the search
// term; every Apply produces a fresh slice.
type View struct {
	collator  *collate.Collator
	column    Column
	direction Direction
	term      string
}

func NewView() *View {
	return &View{
		collator:  collate.New(language.English, collate.Loose),
		column:    ColumnName,
		direction: Asc,
	}
}

// Toggle flips the direction on the active column and resets to
// ascending when a new column is selected.
func (v *View) Toggle(column Column) {
	if column == v.column {
		if v.direction == Asc {
			v.direction = Desc
		} else {
			v.direction = Asc
		}
		return
	}
	v.column = column
	v.direction = Asc
}

// Sort selects the column and direction directly, bypassing the
// toggle cycle.
func (v *View) Sort(column Column, direction Direction) {
	v.column = column
	v.direction = direction
}

func (v *View) SetTerm(term string) {
	v.term = term
}

func ParseColumn(raw string) (Column, bool) {
	switch Column(raw) {
	case ColumnName, ColumnSize, ColumnContentType, ColumnCreatedAt, ColumnUpdatedAt:
		return Column(raw), true
	}
	return "", false
}

func ParseDirection(raw string) (Direction, bool) {
	switch Direction(raw) {
	case Asc, Desc:
		return Direction(raw), true
	}
	return "", false
}

func (v *View) Column() Column {
	return v.column
}

func (v *View) Direction() Direction {
	return v.direction
}

func (v *View) Apply(files []repository.FileRecord) []repository.FileRecord {
	result := make([]repository.FileRecord, 0, len(files))

	term := strings.ToLower(v.term)
	for _, f := range files {
		if term == "" || strings.Contains(strings.ToLower(f.Name), term) {
			result = append(result, f)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		cmp := v.compare(&result[i], &result[j])
		if v.direction == Desc {
			cmp = -cmp
		}
		return cmp < 0
	})

	return result
}

// compare orders ascending; records missing a value for the active
// column sort after everything, which the direction flip turns into
// first under descending.
func (v *View) compare(a, b *repository.FileRecord) int {
	aAbsent, bAbsent := absent(a, v.column), absent(b, v.column)
	switch {
	case aAbsent && bAbsent:
		return 0
	case aAbsent:
		return 1
	case bAbsent:
		return -1
	}

	switch v.column {
	case ColumnName:
		return v.collator.CompareString(a.Name, b.Name)
	case ColumnContentType:
		return v.collator.CompareString(a.ContentType, b.ContentType)
	case ColumnSize:
		switch {
		case a.Size < b.Size:
			return -1
		case a.Size > b.Size:
			return 1
		}
		return 0
	case ColumnCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case ColumnUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}

func absent(f *repository.FileRecord, column Column) bool {
	switch column {
	case ColumnName:
		return f.Name == ""
	case ColumnContentType:
		return f.ContentType == ""
	case ColumnCreatedAt:
		return f.CreatedAt.IsZero()
	case ColumnUpdatedAt:
		return f.UpdatedAt.IsZero()
	}
	return false
}
