// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips unsafe markup from user-supplied text before
// it is stored. Reminder titles and descriptions pass through here.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize removes scripts, event handlers, and javascript: URLs while
// keeping basic formatting markup.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
