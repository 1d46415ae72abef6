package syncutils

// Validatable is implemented by the command pool and the fence tracker, which can check their own
// invariants. See DebugValidate.
type Validatable interface {
	Validate() error
}
