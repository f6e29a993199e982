// Package middleware holds the HTTP middleware wrapped around each module.
package middleware

import "net/http"

// Func wraps a handler with extra behavior.
type Func func(http.Handler) http.Handler

// Chain is an ordered middleware stack. The first entry is outermost.
type Chain []Func

// Use appends mw to the end of the chain.
func (c *Chain) Use(mw Func) {
	*c = append(*c, mw)
}

// Then wraps h so that requests pass through the chain in order.
func (c Chain) Then(h http.Handler) http.Handler {
	for i := len(c) - 1; i >= 0; i-- {
		h = c[i](h)
	}
	return h
}
