package plugin

// Registry is a concurrency-safe lookup of named, pluggable values such as
// heuristic and cost function factories. Domains publish their catalogue
// through it so suites can refer to functions by name.
type Registry[T any] interface {
	// Get returns the value registered under name, or a
	// gxserrors.NotFoundError naming the registry's kind.
	Get(name string) (T, error)

	// Register associates name with value. It returns an error if the name
	// is empty or already registered.
	Register(name string, value T) error

	// List returns the registered names in sorted order.
	List() []string

	// Kind is the noun used in errors, e.g. "heuristic".
	Kind() string
}
