package attr

// Bool is an on/off attribute.
type Bool struct {
	value bool
}

// NewBool creates a Bool attribute.
func NewBool(v bool) *Bool {
	return &Bool{value: v}
}

func (a *Bool) Kind() Kind { return KindBool }
func (a *Bool) Value() any { return a.value }

// Get returns the current value.
func (a *Bool) Get() bool { return a.value }

func (a *Bool) Set(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errSetType(KindBool, v)
	}
	changed := b != a.value
	a.value = b
	return changed, nil
}

func (a *Bool) Control(label string) Control {
	return Control{Label: label, Widget: WidgetCheckbox, Value: a.value}
}

func (a *Bool) Serialize(name string, doc Document) error {
	if err := serializeTarget(doc); err != nil {
		return err
	}
	doc[name] = a.value
	return nil
}

func (a *Bool) Deserialize(name string, doc Document) error {
	raw, err := lookup(doc, name)
	if err != nil {
		return err
	}
	b, ok := raw.(bool)
	if !ok {
		return fieldErr(name, "expected boolean, got %s", kindOf(raw))
	}
	a.value = b
	return nil
}

func (a *Bool) Clone() Attribute { c := *a; return &c }

// Float is a bounded real-valued attribute.
type Float struct {
	value    float64
	min, max float64
}

// NewFloat creates a Float attribute clamped to [lo, hi].
func NewFloat(v, lo, hi float64) *Float {
	a := &Float{min: lo, max: hi}
	a.value = a.clamp(v)
	return a
}

func (a *Float) clamp(v float64) float64 {
	return min(max(v, a.min), a.max)
}

func (a *Float) Kind() Kind { return KindFloat }
func (a *Float) Value() any { return a.value }

// Get returns the current value.
func (a *Float) Get() float64 { return a.value }

// Bounds returns the accepted interval.
func (a *Float) Bounds() (float64, float64) { return a.min, a.max }

func (a *Float) Set(v any) (bool, error) {
	f, ok := number(v)
	if !ok {
		return false, errSetType(KindFloat, v)
	}
	f = a.clamp(f)
	changed := f != a.value
	a.value = f
	return changed, nil
}

func (a *Float) Control(label string) Control {
	return Control{Label: label, Widget: WidgetSlider, Min: a.min, Max: a.max, Value: a.value}
}

func (a *Float) Serialize(name string, doc Document) error {
	if err := serializeTarget(doc); err != nil {
		return err
	}
	doc[name] = a.value
	return nil
}

func (a *Float) Deserialize(name string, doc Document) error {
	raw, err := lookup(doc, name)
	if err != nil {
		return err
	}
	f, ok := number(raw)
	if !ok {
		return fieldErr(name, "expected number, got %s", kindOf(raw))
	}
	a.value = a.clamp(f)
	return nil
}

func (a *Float) Clone() Attribute { c := *a; return &c }

// Int is a bounded integer attribute.
type Int struct {
	value    int
	min, max int
}

// NewInt creates an Int attribute clamped to [lo, hi].
func NewInt(v, lo, hi int) *Int {
	a := &Int{min: lo, max: hi}
	a.value = a.clamp(v)
	return a
}

func (a *Int) clamp(v int) int {
	return min(max(v, a.min), a.max)
}

func (a *Int) Kind() Kind { return KindInt }
func (a *Int) Value() any { return a.value }

// Get returns the current value.
func (a *Int) Get() int { return a.value }

func (a *Int) Set(v any) (bool, error) {
	n, ok := integer(v)
	if !ok {
		return false, errSetType(KindInt, v)
	}
	n = a.clamp(n)
	changed := n != a.value
	a.value = n
	return changed, nil
}

func (a *Int) Control(label string) Control {
	return Control{Label: label, Widget: WidgetIntSlider, Min: float64(a.min), Max: float64(a.max), Value: a.value}
}

func (a *Int) Serialize(name string, doc Document) error {
	if err := serializeTarget(doc); err != nil {
		return err
	}
	doc[name] = float64(a.value)
	return nil
}

func (a *Int) Deserialize(name string, doc Document) error {
	raw, err := lookup(doc, name)
	if err != nil {
		return err
	}
	n, ok := integer(raw)
	if !ok {
		return fieldErr(name, "expected integer, got %s", kindOf(raw))
	}
	a.value = a.clamp(n)
	return nil
}

func (a *Int) Clone() Attribute { c := *a; return &c }

// Filename is a path attribute.
type Filename struct {
	value string
}

// NewFilename creates a Filename attribute.
func NewFilename(v string) *Filename {
	return &Filename{value: v}
}

func (a *Filename) Kind() Kind { return KindFilename }
func (a *Filename) Value() any { return a.value }

// Get returns the current path.
func (a *Filename) Get() string { return a.value }

func (a *Filename) Set(v any) (bool, error) {
	s, ok := v.(string)
	if !ok {
		return false, errSetType(KindFilename, v)
	}
	changed := s != a.value
	a.value = s
	return changed, nil
}

func (a *Filename) Control(label string) Control {
	return Control{Label: label, Widget: WidgetFileDialog, Value: a.value}
}

func (a *Filename) Serialize(name string, doc Document) error {
	if err := serializeTarget(doc); err != nil {
		return err
	}
	doc[name] = a.value
	return nil
}

func (a *Filename) Deserialize(name string, doc Document) error {
	raw, err := lookup(doc, name)
	if err != nil {
		return err
	}
	s, ok := raw.(string)
	if !ok {
		return fieldErr(name, "expected string, got %s", kindOf(raw))
	}
	a.value = s
	return nil
}

func (a *Filename) Clone() Attribute { c := *a; return &c }
