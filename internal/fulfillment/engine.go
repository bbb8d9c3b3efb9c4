// Package fulfillment drives orders through their life cycle and issues
// the documents that hang off them: invoices and credit notes.
package fulfillment

import (
	"fmt"

	"distribution-backend/internal/notify"
	"distribution-backend/internal/pricing"
	"distribution-backend/internal/store"

	"go.uber.org/zap"
)

// Engine methods expect the caller to hold the store lock. Each method
// saves the store once when it succeeds.
type Engine struct {
	store   *store.Store
	pricing *pricing.Resolver
	sink    notify.Sink
	log     *zap.Logger
}

func NewEngine(s *store.Store, resolver *pricing.Resolver, sink notify.Sink, log *zap.Logger) *Engine {
	return &Engine{
		store:   s,
		pricing: resolver,
		sink:    notify.OrNop(sink),
		log:     log.Named("fulfillment"),
	}
}

// documentNumber formats sequential document numbers such as INV-2025-004.
func documentNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, seq)
}
