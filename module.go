package blok

// Module is what a provider of bloks hands to a loader: a descriptor and a
// registration entry point. A loader calls Register once, and must call
// Reset before the module's code goes away.
type Module struct {
	Name string

	// Describe returns a human readable description of the module.
	Describe func() string

	// Register performs the module's registrations and reports whether all
	// of them succeeded.
	Register func() bool
}
