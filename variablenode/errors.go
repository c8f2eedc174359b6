// SPDX-License-Identifier: MIT
//
// errors.go — sentinel errors for the variablenode package.
//
// Error policy: only sentinel variables are exposed; callers branch with
// errors.Is. Call sites attach context via fmt.Errorf's %w.

package variablenode

import "errors"

// ErrEmptyInbox indicates NodeFunction was invoked with an empty inbox and
// no prior set — there is nothing to combine or broadcast.
var ErrEmptyInbox = errors.New("variablenode: empty inbox and no prior")

// ErrPriorAlreadySet indicates SetPrior was called more than once on the
// same VariableNode.
var ErrPriorAlreadySet = errors.New("variablenode: prior already set")

// ErrNotInitialized indicates NodeFunction or IsReady was invoked before
// Initialize recorded the node's neighbor list.
var ErrNotInitialized = errors.New("variablenode: not initialized")

// ErrLogSpaceUnsupported indicates SetIsLog(true) was requested. Log-space
// arithmetic is declared in the spec but never wired through in the
// original source; this implementation rejects it at Initialize time
// rather than silently running in linear space.
var ErrLogSpaceUnsupported = errors.New("variablenode: log-space messages are not implemented")
