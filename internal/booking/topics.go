package booking

const (
	TopicOrderPlaced        = "booking.order.placed"
	TopicOrderStatusChanged = "booking.order.status"
)

// Partition key = order_id so all events of one order stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
