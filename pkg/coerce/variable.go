package coerce

// Variable is a named scalar build variable with a typed default. Every
// mutation goes through To against the default.
type Variable struct {
	name  string
	def   interface{}
	value interface{}
}

// NewVariable creates a variable holding its default
func NewVariable(name string, def interface{}) *Variable {
	return &Variable{name: name, def: def, value: clone(def)}
}

// Name returns the variable name
func (v *Variable) Name() string { return v.name }

// Default returns the typed default
func (v *Variable) Default() interface{} { return clone(v.def) }

// Kind returns the kind of the typed default
func (v *Variable) Kind() Kind { return KindOf(v.def) }

// Value returns the current value
func (v *Variable) Value() interface{} { return clone(v.value) }

// Set coerces raw against the default and stores it
func (v *Variable) Set(raw interface{}) {
	v.value = To(v.def, raw)
}

// Reset restores the default
func (v *Variable) Reset() {
	v.value = clone(v.def)
}

func (v *Variable) String() string    { return String(v.value) }
func (v *Variable) Strings() []string { return Strings(v.value) }
func (v *Variable) Int() int          { return Int(v.value) }
func (v *Variable) Bool() bool        { return Bool(v.value) }
