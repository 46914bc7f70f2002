package recordc

// UnknownPolicy controls how unknown keys are handled when validating a
// record.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
	UnknownPassthrough                      // Preserve unknown keys in the output.
)

// Config is the per-record configuration bag.
type Config struct {
	Unknown UnknownPolicy
	// PopulateByAlias allows an aliased field to also be populated by its
	// declared name, not only by the wire alias.
	PopulateByAlias bool
}

// Warning is a non-fatal finding recorded during a compilation session, such
// as a duplicate discriminator tag or a duplicate hook name.
type Warning struct {
	Code    string
	Record  string
	Message string
}

// Warning codes.
const (
	WarnDuplicateTag      = "duplicate_tag"
	WarnDuplicateHookName = "duplicate_hook_name"
)
