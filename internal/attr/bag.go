package attr

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Bag is an ordered set of named attributes.
type Bag struct {
	names []string
	attrs map[string]Attribute
}

// NewBag creates an empty bag.
func NewBag() *Bag {
	return &Bag{attrs: make(map[string]Attribute)}
}

// Add appends an attribute and returns the bag for chaining. It panics on a
// duplicate name.
func (b *Bag) Add(name string, a Attribute) *Bag {
	if _, exists := b.attrs[name]; exists {
		panic(fmt.Sprintf("attr: duplicate attribute %q", name))
	}
	b.names = append(b.names, name)
	b.attrs[name] = a
	return b
}

// Keys returns the attribute names in insertion order.
func (b *Bag) Keys() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.names...)
}

// Len returns the number of attributes.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.names)
}

// Get returns the named attribute.
func (b *Bag) Get(name string) (Attribute, bool) {
	if b == nil {
		return nil, false
	}
	a, ok := b.attrs[name]
	return a, ok
}

// Set assigns v to the named attribute and reports whether it changed.
func (b *Bag) Set(name string, v any) (bool, error) {
	a, ok := b.Get(name)
	if !ok {
		return false, fmt.Errorf("unknown attribute %q", name)
	}
	changed, err := a.Set(v)
	if err != nil {
		return false, fmt.Errorf("attribute %q: %w", name, err)
	}
	return changed, nil
}

func mustGet[T Attribute](b *Bag, name string) T {
	a, ok := b.Get(name)
	if !ok {
		panic(fmt.Sprintf("attr: unknown attribute %q", name))
	}
	t, ok := a.(T)
	if !ok {
		panic(fmt.Sprintf("attr: attribute %q is %s, not %T", name, a.Kind(), t))
	}
	return t
}

// Bool returns the value of a Bool attribute. It panics when the name is
// unknown or of another kind; node implementations own their attribute
// layout.
func (b *Bag) Bool(name string) bool { return mustGet[*Bool](b, name).Get() }

// Float returns the value of a Float attribute.
func (b *Bag) Float(name string) float64 { return mustGet[*Float](b, name).Get() }

// Int returns the value of an Int attribute.
func (b *Bag) Int(name string) int { return mustGet[*Int](b, name).Get() }

// Range returns the value of a Range attribute.
func (b *Bag) Range(name string) RangeValue { return mustGet[*Range](b, name).Get() }

// Enum returns the integer of a MapEnum attribute.
func (b *Bag) Enum(name string) int { return mustGet[*MapEnum](b, name).Get() }

// Choice returns the selected key of a MapEnum attribute.
func (b *Bag) Choice(name string) string { return mustGet[*MapEnum](b, name).Choice() }

// VecFloat returns the values of a VecFloat attribute.
func (b *Bag) VecFloat(name string) []float64 { return mustGet[*VecFloat](b, name).Get() }

// VecInt returns the values of a VecInt attribute.
func (b *Bag) VecInt(name string) []int { return mustGet[*VecInt](b, name).Get() }

// Filename returns the value of a Filename attribute.
func (b *Bag) Filename(name string) string { return mustGet[*Filename](b, name).Get() }

// Color returns the value of a Color attribute.
func (b *Bag) Color(name string) RGB { return mustGet[*Color](b, name).Get() }

// Serialize writes every attribute into a new document.
func (b *Bag) Serialize() (Document, error) {
	doc := Document{}
	for _, name := range b.Keys() {
		if err := b.attrs[name].Serialize(name, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Deserialize reads the bag's attributes from doc. Attributes absent from
// doc keep their value, and fields of doc unknown to the bag are ignored. A
// field that fails leaves its attribute unchanged; the remaining fields are
// still read and all failures are returned together.
func (b *Bag) Deserialize(doc Document) error {
	var result *multierror.Error
	for _, name := range b.Keys() {
		if _, ok := doc[name]; !ok {
			continue
		}
		if err := b.attrs[name].Deserialize(name, doc); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Clone returns a deep copy.
func (b *Bag) Clone() *Bag {
	c := NewBag()
	for _, name := range b.Keys() {
		c.Add(name, b.attrs[name].Clone())
	}
	return c
}

// Controls returns the settings controls in attribute order, labelled by
// attribute name.
func (b *Bag) Controls() []Control {
	out := make([]Control, 0, b.Len())
	for _, name := range b.Keys() {
		out = append(out, b.attrs[name].Control(name))
	}
	return out
}
