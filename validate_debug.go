//go:build debug_seltab

package seltab

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_seltab build tag is present
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}

// DebugCheckSelector will verify that the provided selector is not the null selector and panics
// if it is. This method no-ops unless the debug_seltab build tag is present.
func DebugCheckSelector(sel Selector, name string) {
	err := CheckSelector(sel, name)
	if err != nil {
		panic(err)
	}
}
