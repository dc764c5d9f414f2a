package domain

import (
	"errors"
	"maps"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLineNotFound    = errors.New("line not found")
)

type CartLine struct {
	ProductID string            `json:"product_id"`
	Quantity  int64             `json:"quantity"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// Cart holds at most one line per product. It belongs to a single session and
// is not safe for concurrent use.
type Cart struct {
	lines map[string]*CartLine
	order []string
}

func NewCart() *Cart {
	return &Cart{lines: make(map[string]*CartLine)}
}

// Add creates the line for productID or increases its quantity. Attributes are
// merged; later values win.
func (c *Cart) Add(productID string, qty int64, attrs map[string]string) (CartLine, error) {
	if qty <= 0 {
		return CartLine{}, ErrInvalidQuantity
	}

	line, ok := c.lines[productID]
	if !ok {
		line = &CartLine{ProductID: productID}
		c.lines[productID] = line
		c.order = append(c.order, productID)
	}
	line.Quantity += qty
	if len(attrs) > 0 {
		if line.Attrs == nil {
			line.Attrs = make(map[string]string, len(attrs))
		}
		maps.Copy(line.Attrs, attrs)
	}
	return copyLine(line), nil
}

// SetQuantity sets the quantity of an existing line. qty <= 0 removes it.
func (c *Cart) SetQuantity(productID string, qty int64) (CartLine, error) {
	line, ok := c.lines[productID]
	if !ok {
		return CartLine{}, ErrLineNotFound
	}
	if qty <= 0 {
		c.delete(productID)
		return CartLine{ProductID: productID}, nil
	}
	line.Quantity = qty
	return copyLine(line), nil
}

func (c *Cart) Remove(productID string) error {
	if _, ok := c.lines[productID]; !ok {
		return ErrLineNotFound
	}
	c.delete(productID)
	return nil
}

func (c *Cart) Line(productID string) (CartLine, bool) {
	line, ok := c.lines[productID]
	if !ok {
		return CartLine{}, false
	}
	return copyLine(line), true
}

// Lines returns a snapshot in the order products were first added.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, copyLine(c.lines[id]))
	}
	return out
}

func (c *Cart) Len() int { return len(c.order) }

func (c *Cart) Clear() {
	c.lines = make(map[string]*CartLine)
	c.order = nil
}

// Replace swaps the contents for lines, e.g. when restoring a snapshot.
// Invalid lines are skipped and duplicates are merged.
func (c *Cart) Replace(lines []CartLine) {
	c.Clear()
	for _, l := range lines {
		_, _ = c.Add(l.ProductID, l.Quantity, l.Attrs)
	}
}

func (c *Cart) delete(productID string) {
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func copyLine(l *CartLine) CartLine {
	out := CartLine{ProductID: l.ProductID, Quantity: l.Quantity}
	if l.Attrs != nil {
		out.Attrs = maps.Clone(l.Attrs)
	}
	return out
}
