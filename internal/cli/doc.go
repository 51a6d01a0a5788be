// Package cli defines the payjoin-cli command tree and the sparse flag
// structure consumed by the config resolver.
//
// Flag fields are pointers: nil means the flag was not supplied on the
// command line, which the resolver treats as "do not override lower
// layers". The subcommand set is a closed enumeration derived from the
// same command definitions cobra registers, so the two never drift apart.
package cli
