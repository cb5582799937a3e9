package invoices

import (
	"math/rand"
	"sort"

	"github.com/salepoint/salepoint-backend/pkg/db/models"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
)

// SortField names a frame attribute frames can be ordered by.
type SortField string

const (
	SortFieldID    SortField = "id"
	SortFieldDate  SortField = "date"
	SortFieldValue SortField = "value"
)

// Direction is the per-key sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortKey is one (field, direction) pair of a composite order.
type SortKey struct {
	Field     SortField
	Direction Direction
}

// SortSpec is an ordered list of keys. The first key is primary; later keys
// break ties left to right.
type SortSpec []SortKey

// Named sort modes offered to callers. IDs are never recycled, so the ID
// order doubles as insertion order.
var (
	SortDefault       = SortSpec{{SortFieldID, Ascending}}
	SortDateDesc      = SortSpec{{SortFieldDate, Descending}}
	SortValueDesc     = SortSpec{{SortFieldValue, Descending}}
	SortDateThenValue = SortSpec{{SortFieldDate, Descending}, {SortFieldValue, Descending}}
	SortValueThenDate = SortSpec{{SortFieldValue, Descending}, {SortFieldDate, Descending}}
)

// SortSpecFor resolves a mode name from the query surface.
func SortSpecFor(mode string) (SortSpec, error) {
	switch mode {
	case "", "id":
		return SortDefault, nil
	case "date":
		return SortDateDesc, nil
	case "value":
		return SortValueDesc, nil
	case "date_value":
		return SortDateThenValue, nil
	case "value_date":
		return SortValueThenDate, nil
	case "shuffle":
		return nil, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort mode").
			WithDetails(map[string]any{"mode": mode})
	}
}

func (k SortKey) compare(a, b models.InvoiceFrame) int {
	var c int
	switch k.Field {
	case SortFieldDate:
		switch {
		case a.Date < b.Date:
			c = -1
		case a.Date > b.Date:
			c = 1
		}
	case SortFieldValue:
		c = a.TotalValue.Cmp(b.TotalValue)
	default:
		switch {
		case a.ID < b.ID:
			c = -1
		case a.ID > b.ID:
			c = 1
		}
	}
	if k.Direction == Descending {
		c = -c
	}
	return c
}

// SortFrames orders frames in place by the composite spec. A nil spec means
// "no active sort" and yields a shuffled, deliberately unstable order.
func SortFrames(frames []models.InvoiceFrame, spec SortSpec) {
	if spec == nil {
		rand.Shuffle(len(frames), func(i, j int) {
			frames[i], frames[j] = frames[j], frames[i]
		})
		return
	}

	sort.SliceStable(frames, func(i, j int) bool {
		for _, key := range spec {
			if c := key.compare(frames[i], frames[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}
