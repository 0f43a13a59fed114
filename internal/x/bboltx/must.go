package bboltx

// failure is the panic value used by Must().
type failure struct {
	cause error
}

// Must panics if err is non-nil. The panic is converted back into an error by
// Recover().
func Must(err error) {
	if err != nil {
		panic(failure{err})
	}
}

// Recover assigns the cause of a panic raised by Must() to *err.
//
// It must be called directly by a deferred statement. Panics that were not
// raised by Must() are propagated.
func Recover(err *error) {
	if err == nil {
		panic("bboltx: err must be a non-nil pointer")
	}

	r := recover()
	if r == nil {
		return
	}

	if f, ok := r.(failure); ok {
		*err = f.cause
		return
	}

	panic(r)
}
