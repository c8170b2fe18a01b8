// Package client drives a booking form from Go: it holds the draft, the
// per-field errors, the open/closed flag of the booking dialog and the
// submission status, and posts finished drafts to the booking API.
//
// Submission status is a finite state machine:
//
//	idle ──submit──▶ loading ──succeed──▶ success
//	  ▲                 │
//	  │                 └────fail────▶ error ──submit──▶ loading
//	  └──────reset─────── (success | error)
//
// A submit is only accepted while the dialog is open, and the dialog cannot
// be closed while a submit is in flight, so "loading while closed" never
// occurs. The network call runs outside the machine's lock.
package client
