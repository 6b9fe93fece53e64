package attr

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// NewSeed creates an Int attribute holding a noise seed.
func NewSeed(v uint32) *Int {
	return NewInt(int(v), 0, math.MaxUint32)
}

// Range is a [X, Y] interval that can be switched off.
type Range struct {
	x, y     float64
	active   bool
	min, max float64
}

// RangeValue is the native value of a Range attribute.
type RangeValue struct {
	X, Y   float64
	Active bool
}

// NewRange creates a Range attribute with bounds [lo, hi].
func NewRange(x, y float64, active bool, lo, hi float64) *Range {
	a := &Range{min: lo, max: hi}
	a.assign(RangeValue{X: x, Y: y, Active: active})
	return a
}

func (a *Range) assign(v RangeValue) {
	a.x = min(max(v.X, a.min), a.max)
	a.y = min(max(v.Y, a.min), a.max)
	a.active = v.Active
}

func (a *Range) Kind() Kind { return KindRange }
func (a *Range) Value() any { return a.Get() }

// Get returns the current interval.
func (a *Range) Get() RangeValue {
	return RangeValue{X: a.x, Y: a.y, Active: a.active}
}

func (a *Range) Set(v any) (bool, error) {
	rv, ok := v.(RangeValue)
	if !ok {
		return false, errSetType(KindRange, v)
	}
	before := a.Get()
	a.assign(rv)
	return before != a.Get(), nil
}

func (a *Range) Control(label string) Control {
	return Control{Label: label, Widget: WidgetRange, Min: a.min, Max: a.max, Value: a.Get()}
}

func (a *Range) Serialize(name string, doc Document) error {
	if err := serializeTarget(doc); err != nil {
		return err
	}
	doc[name] = map[string]any{"x": a.x, "y": a.y, "active": a.active}
	return nil
}

func (a *Range) Deserialize(name string, doc Document) error {
	raw, err := lookup(doc, name)
	if err != nil {
		return err
	}
	o, ok := object(raw)
	if !ok {
		return fieldErr(name, "expected object, got %s", kindOf(raw))
	}
	x, okX := number(o["x"])
	y, okY := number(o["y"])
	if !okX || !okY {
		return fieldErr(name, "expected numeric \"x\" and \"y\"")
	}
	active, ok := o["active"].(bool)
	if !ok {
		return fieldErr(name, "expected boolean \"active\"")
	}
	a.assign(RangeValue{X: x, Y: y, Active: active})
	return nil
}

func (a *Range) Clone() Attribute { c := *a; return &c }

// MapEnum selects one named entry of a fixed string to int mapping.
type MapEnum struct {
	choices map[string]int
	choice  string
}

// NewMapEnum creates a MapEnum. It panics when choice is not a key of
// choices.
func NewMapEnum(choices map[string]int, choice string) *MapEnum {
	if _, ok := choices[choice]; !ok {
		panic(fmt.Sprintf("attr: choice %q is not one of %v", choice, keys(choices)))
	}
	return &MapEnum{choices: cloneChoices(choices), choice: choice}
}

func cloneChoices(m map[string]int) map[string]int {
	c := make(map[string]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func keys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (a *MapEnum) Kind() Kind { return KindMapEnum }

// Value returns the integer mapped to the current choice.
func (a *MapEnum) Value() any { return a.choices[a.choice] }

// Get returns the integer mapped to the current choice.
func (a *MapEnum) Get() int { return a.choices[a.choice] }

// Choice returns the selected key.
func (a *MapEnum) Choice() string { return a.choice }

// Set accepts the name of a choice.
func (a *MapEnum) Set(v any) (bool, error) {
	s, ok := v.(string)
	if !ok {
		return false, errSetType(KindMapEnum, v)
	}
	if _, ok := a.choices[s]; !ok {
		return false, fmt.Errorf("unknown choice %q, expected one of %v", s, keys(a.choices))
	}
	changed := s != a.choice
	a.choice = s
	return changed, nil
}

func (a *MapEnum) Control(label string) Control {
	return Control{Label: label, Widget: WidgetListbox, Choices: keys(a.choices), Value: a.choice}
}

func (a *MapEnum) Serialize(name string, doc Document) error {
	if err := serializeTarget(doc); err != nil {
		return err
	}
	value := make(map[string]any, len(a.choices))
	for k, v := range a.choices {
		value[k] = float64(v)
	}
	doc[name] = map[string]any{"value": value, "choice": a.choice}
	return nil
}

// Deserialize restores the selected choice. The stored mapping replaces the
// current one only when it contains the choice.
func (a *MapEnum) Deserialize(name string, doc Document) error {
	raw, err := lookup(doc, name)
	if err != nil {
		return err
	}
	o, ok := object(raw)
	if !ok {
		return fieldErr(name, "expected object, got %s", kindOf(raw))
	}
	choice, ok := o["choice"].(string)
	if !ok {
		return fieldErr(name, "expected string \"choice\"")
	}

	choices := a.choices
	if rv, present := o["value"]; present {
		vm, ok := object(rv)
		if !ok {
			return fieldErr(name, "expected object \"value\", got %s", kindOf(rv))
		}
		choices = make(map[string]int, len(vm))
		for k, v := range vm {
			n, ok := integer(v)
			if !ok {
				return fieldErr(name, "choice %q maps to non-integer %v", k, v)
			}
			choices[k] = n
		}
	}
	if _, ok := choices[choice]; !ok {
		return fieldErr(name, "unknown choice %q", choice)
	}
	a.choices = choices
	a.choice = choice
	return nil
}

func (a *MapEnum) Clone() Attribute {
	return &MapEnum{choices: cloneChoices(a.choices), choice: a.choice}
}

// VecFloat is a variable-length list of reals.
type VecFloat struct {
	value []float64
}

// NewVecFloat creates a VecFloat attribute.
func NewVecFloat(v ...float64) *VecFloat {
	return &VecFloat{value: slices.Clone(v)}
}

func (a *VecFloat) Kind() Kind { return KindVecFloat }
func (a *VecFloat) Value() any { return a.Get() }

// Get returns a copy of the values.
func (a *VecFloat) Get() []float64 { return slices.Clone(a.value) }

func (a *VecFloat) Set(v any) (bool, error) {
	f, ok := v.([]float64)
	if !ok {
		return false, errSetType(KindVecFloat, v)
	}
	changed := !slices.Equal(f, a.value)
	a.value = slices.Clone(f)
	return changed, nil
}

func (a *VecFloat) Control(label string) Control {
	return Control{Label: label, Widget: WidgetVector, Value: a.Get()}
}

func (a *VecFloat) Serialize(name string, doc Document) error {
	if err := serializeTarget(doc); err != nil {
		return err
	}
	items := make([]any, len(a.value))
	for k, v := range a.value {
		items[k] = v
	}
	doc[name] = items
	return nil
}

func (a *VecFloat) Deserialize(name string, doc Document) error {
	raw, err := lookup(doc, name)
	if err != nil {
		return err
	}
	f, ok := numbers(raw)
	if !ok {
		return fieldErr(name, "expected array of numbers, got %s", kindOf(raw))
	}
	a.value = f
	return nil
}

func (a *VecFloat) Clone() Attribute { return NewVecFloat(a.value...) }

// VecInt is a variable-length list of integers.
type VecInt struct {
	value []int
}

// NewVecInt creates a VecInt attribute.
func NewVecInt(v ...int) *VecInt {
	return &VecInt{value: slices.Clone(v)}
}

func (a *VecInt) Kind() Kind { return KindVecInt }
func (a *VecInt) Value() any { return a.Get() }

// Get returns a copy of the values.
func (a *VecInt) Get() []int { return slices.Clone(a.value) }

func (a *VecInt) Set(v any) (bool, error) {
	n, ok := v.([]int)
	if !ok {
		return false, errSetType(KindVecInt, v)
	}
	changed := !slices.Equal(n, a.value)
	a.value = slices.Clone(n)
	return changed, nil
}

func (a *VecInt) Control(label string) Control {
	return Control{Label: label, Widget: WidgetVector, Value: a.Get()}
}

func (a *VecInt) Serialize(name string, doc Document) error {
	if err := serializeTarget(doc); err != nil {
		return err
	}
	items := make([]any, len(a.value))
	for k, v := range a.value {
		items[k] = float64(v)
	}
	doc[name] = items
	return nil
}

func (a *VecInt) Deserialize(name string, doc Document) error {
	raw, err := lookup(doc, name)
	if err != nil {
		return err
	}
	f, ok := numbers(raw)
	if !ok {
		return fieldErr(name, "expected array of integers, got %s", kindOf(raw))
	}
	out := make([]int, len(f))
	for k, v := range f {
		n, ok := integer(v)
		if !ok {
			return fieldErr(name, "element %d is not an integer", k)
		}
		out[k] = n
	}
	a.value = out
	return nil
}

func (a *VecInt) Clone() Attribute { return NewVecInt(a.value...) }

// RGB is a colour with components in [0, 1].
type RGB struct {
	R, G, B float64
}

func (c RGB) clamp() RGB {
	f := func(v float64) float64 { return min(max(v, 0), 1) }
	return RGB{R: f(c.R), G: f(c.G), B: f(c.B)}
}

// Color is an RGB colour attribute.
type Color struct {
	value RGB
}

// NewColor creates a Color attribute.
func NewColor(r, g, b float64) *Color {
	return &Color{value: RGB{R: r, G: g, B: b}.clamp()}
}

func (a *Color) Kind() Kind { return KindColor }
func (a *Color) Value() any { return a.value }

// Get returns the current colour.
func (a *Color) Get() RGB { return a.value }

func (a *Color) Set(v any) (bool, error) {
	c, ok := v.(RGB)
	if !ok {
		return false, errSetType(KindColor, v)
	}
	c = c.clamp()
	changed := c != a.value
	a.value = c
	return changed, nil
}

func (a *Color) Control(label string) Control {
	return Control{Label: label, Widget: WidgetColor, Min: 0, Max: 1, Value: a.value}
}

func (a *Color) Serialize(name string, doc Document) error {
	if err := serializeTarget(doc); err != nil {
		return err
	}
	doc[name] = []any{a.value.R, a.value.G, a.value.B}
	return nil
}

func (a *Color) Deserialize(name string, doc Document) error {
	raw, err := lookup(doc, name)
	if err != nil {
		return err
	}
	f, ok := numbers(raw)
	if !ok || len(f) != 3 {
		return fieldErr(name, "expected array of 3 numbers, got %s", kindOf(raw))
	}
	a.value = RGB{R: f[0], G: f[1], B: f[2]}.clamp()
	return nil
}

func (a *Color) Clone() Attribute { c := *a; return &c }
