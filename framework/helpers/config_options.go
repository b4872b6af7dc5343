package helpers

// ConfigOption changes one setting of a *T. Locator actions and expectations take these as
// trailing variadic arguments.
type ConfigOption[T any] interface {
	Configure(*T) error
}

// ConfigOptionFunc lets a closure act as a ConfigOption.
type ConfigOptionFunc[T any] func(*T) error

func (f ConfigOptionFunc[T]) Configure(target *T) error { return f(target) }

// ApplyOptions runs options against target in order, stopping at the first error.
func ApplyOptions[T any, U ConfigOption[T]](target *T, options ...U) error {
	for _, o := range options {
		if err := o.Configure(target); err != nil {
			return err
		}
	}
	return nil
}
