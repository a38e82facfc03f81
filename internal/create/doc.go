// Package create implements the interactive issue creation started from chat.
//
// A user submits a title and a body, then picks an issue type. Flow holds the
// submission while the type selection is pending and gives up after a timeout.
// Creator files the issue, opens its thread and records the mapping, holding the
// repository lock so the reconcile loop never mirrors the same issue twice.
package create
