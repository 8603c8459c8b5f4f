package widget

// TextField is a Field backed by a string, for callers without an input widget.
type TextField struct {
	value string
}

// NewTextField returns a TextField holding value.
func NewTextField(value string) *TextField {
	return &TextField{value: value}
}

func (f *TextField) Value() string {
	return f.value
}

func (f *TextField) SetValue(s string) {
	f.value = s
}
