package attr

import "fmt"

// Kind tags an attribute type.
type Kind string

const (
	KindBool     Kind = "bool"
	KindFloat    Kind = "float"
	KindInt      Kind = "int"
	KindRange    Kind = "range"
	KindMapEnum  Kind = "map_enum"
	KindVecFloat Kind = "vec_float"
	KindVecInt   Kind = "vec_int"
	KindFilename Kind = "filename"
	KindColor    Kind = "color"
)

// Widget names the settings control a presentation layer should draw.
type Widget string

const (
	WidgetCheckbox   Widget = "checkbox"
	WidgetSlider     Widget = "slider"
	WidgetIntSlider  Widget = "int_slider"
	WidgetRange      Widget = "range"
	WidgetListbox    Widget = "listbox"
	WidgetVector     Widget = "vector"
	WidgetFileDialog Widget = "file_dialog"
	WidgetColor      Widget = "color_edit"
)

// Control describes how to render an attribute's settings.
type Control struct {
	Label   string
	Widget  Widget
	Min     float64
	Max     float64
	Choices []string
	Value   any
}

// Attribute is a named node parameter.
type Attribute interface {
	Kind() Kind
	// Value returns the current value in its native Go type.
	Value() any
	// Set stores v and reports whether the stored value changed.
	Set(v any) (bool, error)
	Control(label string) Control
	Serialize(name string, doc Document) error
	// Deserialize reads the field name from doc. On failure the attribute
	// is unchanged and the error is a *FieldError.
	Deserialize(name string, doc Document) error
	Clone() Attribute
}

func errSetType(k Kind, v any) error {
	return fmt.Errorf("cannot assign %T to %s attribute", v, k)
}

func serializeTarget(doc Document) error {
	if doc == nil {
		return fmt.Errorf("serialize into nil document")
	}
	return nil
}
