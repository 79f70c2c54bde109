package tickprice

// OrderID identifies an order. Zero is reserved as invalid.
type OrderID uint64

// InvalidOrderID is the reserved sentinel for "no order".
const InvalidOrderID OrderID = 0
