//go:build !debug_sync_utils

package syncutils

// DebugValidate checks validatable after a mutation and panics on the first broken invariant. It
// no-ops unless the debug_sync_utils build tag is present.
func DebugValidate(validatable Validatable) {
}
