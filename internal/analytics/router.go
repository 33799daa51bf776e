// internal/analytics/router.go
package analytics

import "strings"

// Handler is one guarded analytic routine. Triggered sees the lower-cased
// query. Handle may decline with ok=false, in which case routing continues
// with the next handler.
type Handler interface {
	Branch() Branch
	Triggered(query string) bool
	Handle(ds *Dataset) (answer string, ok bool)
}

// Router evaluates handlers in order; the first one that is triggered and
// does not decline wins.
type Router struct {
	handlers []Handler
}

func NewRouter(handlers ...Handler) *Router {
	return &Router{handlers: handlers}
}

// DefaultRouter returns the fixed priority chain: conversion, win rate,
// data quality, revenue.
func DefaultRouter() *Router {
	return NewRouter(
		ConversionHandler{},
		WinRateHandler{},
		DataQualityHandler{},
		RevenueHandler{},
	)
}

// Route returns ok=false when no handler produced an answer; the caller is
// expected to fall back to the language model.
func (r *Router) Route(query string, ds *Dataset) (Branch, string, bool) {
	q := strings.ToLower(query)
	for _, h := range r.handlers {
		if !h.Triggered(q) {
			continue
		}
		if answer, ok := h.Handle(ds); ok {
			return h.Branch(), answer, true
		}
	}
	return BranchLLMFallback, "", false
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
