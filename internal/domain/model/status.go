package model

// OrderStatus is a registry entry describing an order processing state.
type OrderStatus struct {
	ID   int64
	Name string
}

// Seeded registry identifiers.
const (
	StatusNew        int64 = 1
	StatusProcessing int64 = 2
	StatusShipped    int64 = 3
	StatusDelivered  int64 = 4
	StatusCancelled  int64 = 5
)

// DefaultStatuses lists registry rows created with the schema.
func DefaultStatuses() []OrderStatus {
	return []OrderStatus{
		{ID: StatusNew, Name: "New"},
		{ID: StatusProcessing, Name: "Processing"},
		{ID: StatusShipped, Name: "Shipped"},
		{ID: StatusDelivered, Name: "Delivered"},
		{ID: StatusCancelled, Name: "Cancelled"},
	}
}

// Transitions restricts which status may follow another. An empty table allows every move.
type Transitions map[int64][]int64

// Allows reports whether an order may move from one status to another.
func (t Transitions) Allows(from, to int64) bool {
	if len(t) == 0 || from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}
