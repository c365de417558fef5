// Package events provides the notification publisher the pipeline emits
// onboarding and observation events through.
//
// Publishing is fire-and-forget from the pipeline's perspective: the storage
// write is the source of truth and a failed publish is logged, never rolled
// back and never retried by this core.
package events

import "context"

// Topics the pipeline publishes to.
const (
	TopicFarmOnboarded  = "agrotrace.farm.onboarded"
	TopicOracleObserved = "agrotrace.oracle.observed"
)

//go:generate mockgen -destination=mocks/publisher_mock.go -package=mocks agrotrace/internal/events Publisher

// Publisher emits one notification. Implementations must attach the
// correlation identifier unchanged so downstream consumers can join the
// event to the request that produced it.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any, correlationID string) error
}
