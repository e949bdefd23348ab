package events

// Topic constants for domain events emitted by the terminal.
const (
	TopicTransactionCompleted = "transaction.completed"
	TopicProductCreated       = "product.created"
	TopicProductUpdated       = "product.updated"
	TopicProductDeleted       = "product.deleted"
	TopicLowStock             = "inventory.low_stock"
)
