package enums

// OutboxEventType enumerates the domain events emitted through the outbox.
type OutboxEventType string

const (
	OutboxEventCartCreated OutboxEventType = "cart.created"
	OutboxEventCartUpdated OutboxEventType = "cart.updated"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateCart OutboxAggregateType = "cart"
)
