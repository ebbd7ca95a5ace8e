package cerr

// FromPanic converts a recovered panic value into an *Error carrying the
// internal-error code. The boundary layer calls this from its recover
// guards so that an internal fault surfaces as a numeric code instead of
// unwinding past the boundary.
func FromPanic(v any) *Error {
	if err, ok := v.(error); ok {
		return Wrap(ErrLibInternalError, "internal fault", err)
	}
	return Newf(ErrLibInternalError, "internal fault: %v", v)
}
