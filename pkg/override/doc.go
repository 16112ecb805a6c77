// Package override picks and activates a branch-specific override file.
//
// Candidates are searched most specific first inside the configurations
// directory:
//
//	r<release>-<branch>-override.conf
//	<branch>-override.conf
//	override.conf
//
// The first one that exists is offered to the user and, once confirmed,
// symlinked to the generic override path in the builder directory. A
// regular file already sitting at that path is the user's own override and
// is never replaced.
package override
