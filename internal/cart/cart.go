package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/salepoint/salepoint-backend/pkg/db/models"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
)

// Row is one consolidated line: a single item at a quantity, with the line
// total carried alongside so the cart total stays a sum of line totals.
type Row struct {
	ItemID    int64
	Name      string
	UnitValue decimal.Decimal
	Quantity  int
	Total     decimal.Decimal
}

// RowFromItem builds a line for qty units of the catalog item.
func RowFromItem(item models.Item, qty int) Row {
	return Row{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitValue: item.Value,
		Quantity:  qty,
		Total:     item.Value.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// Cart consolidates invoice lines before they hit the ledger. Each item
// appears on at most one row, rows keep their first-seen order, and the
// running total is updated on every mutation.
type Cart struct {
	invoiceID int64
	rows      []Row
	index     map[int64]int
	total     decimal.Decimal
}

// New builds a cart, optionally seeded with existing lines. Seed lines that
// share an item are merged the same way live additions are. An invoiceID of
// zero means the cart backs a not-yet-committed invoice.
func New(invoiceID int64, seed []Row) *Cart {
	c := &Cart{
		invoiceID: invoiceID,
		index:     make(map[int64]int),
		total:     decimal.Zero,
	}
	for _, row := range seed {
		_ = c.Add(row)
	}
	return c
}

// InvoiceID returns the ledger ID this cart edits, zero for a new invoice.
func (c *Cart) InvoiceID() int64 { return c.invoiceID }

// Len returns the number of consolidated rows.
func (c *Cart) Len() int { return len(c.rows) }

// Total returns the running cart total.
func (c *Cart) Total() decimal.Decimal { return c.total }

// Rows returns a copy of the consolidated lines in insertion order.
func (c *Cart) Rows() []Row {
	out := make([]Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Row returns the line at the given position.
func (c *Cart) Row(pos int) (Row, error) {
	if pos < 0 || pos >= len(c.rows) {
		return Row{}, pkgerrors.New(pkgerrors.CodeValidation, "row position out of range")
	}
	return c.rows[pos], nil
}

// Add merges the line into the cart. A row for the same item absorbs the
// quantity in place, keeping its original position; otherwise the line is
// appended at the end.
func (c *Cart) Add(row Row) error {
	if row.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "row quantity must be positive")
	}

	if pos, ok := c.index[row.ItemID]; ok {
		existing := &c.rows[pos]
		existing.Quantity += row.Quantity
		existing.Total = existing.Total.Add(row.Total)
		c.total = c.total.Add(row.Total)
		return nil
	}

	c.index[row.ItemID] = len(c.rows)
	c.rows = append(c.rows, row)
	c.total = c.total.Add(row.Total)
	return nil
}

// AddQuantity bumps each selected row by one unit.
func (c *Cart) AddQuantity(positions []int) error {
	if err := c.checkPositions(positions); err != nil {
		return err
	}
	for _, pos := range positions {
		row := &c.rows[pos]
		row.Quantity++
		row.Total = row.Total.Add(row.UnitValue)
		c.total = c.total.Add(row.UnitValue)
	}
	return nil
}

// ReduceQuantity drops each selected row by one unit. Rows reaching zero
// quantity are evicted; evicted reports whether any row was. A bad position
// leaves the cart untouched.
func (c *Cart) ReduceQuantity(positions []int) (evicted bool, err error) {
	if err := c.checkPositions(positions); err != nil {
		return false, err
	}

	// Descending order so evictions do not shift the pending positions.
	sorted := make([]int, 0, len(positions))
	sorted = append(sorted, positions...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	for _, pos := range sorted {
		row := &c.rows[pos]
		row.Quantity--
		row.Total = row.Total.Sub(row.UnitValue)
		c.total = c.total.Sub(row.UnitValue)
		if row.Quantity == 0 {
			c.removeAt(pos)
			evicted = true
		}
	}
	return evicted, nil
}

func (c *Cart) checkPositions(positions []int) error {
	seen := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(c.rows) {
			return pkgerrors.New(pkgerrors.CodeValidation, "row position out of range")
		}
		if seen[pos] {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate row position")
		}
		seen[pos] = true
	}
	return nil
}

// RemoveRows drops the rows at the given positions in one batch. Positions
// are validated up front so a bad index leaves the cart untouched.
func (c *Cart) RemoveRows(positions []int) error {
	if len(positions) == 0 {
		return nil
	}

	if err := c.checkPositions(positions); err != nil {
		return err
	}

	// Remove back to front so earlier positions stay valid.
	sorted := make([]int, 0, len(positions))
	sorted = append(sorted, positions...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, pos := range sorted {
		c.total = c.total.Sub(c.rows[pos].Total)
		c.removeAt(pos)
	}
	return nil
}

func (c *Cart) removeAt(pos int) {
	delete(c.index, c.rows[pos].ItemID)
	c.rows = append(c.rows[:pos], c.rows[pos+1:]...)
	for i := pos; i < len(c.rows); i++ {
		c.index[c.rows[i].ItemID] = i
	}
}
