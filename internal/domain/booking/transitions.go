package booking

// Actor is the part a user plays in a booking
type Actor string

const (
	ActorNone         Actor = ""
	ActorClient       Actor = "client"
	ActorPhotographer Actor = "photographer"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusDeclined, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusPending},
	StatusCompleted: {}, // Final state
	StatusDeclined:  {}, // Final state
	StatusCancelled: {}, // Final state
}

// CanTransition reports whether from -> to is an edge of the lifecycle
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanActorSet reports whether actor may request status. Cancelling is open
// to both participants; everything else belongs to the photographer.
func CanActorSet(actor Actor, status Status) bool {
	switch actor {
	case ActorPhotographer:
		return true
	case ActorClient:
		return status == StatusCancelled
	}
	return false
}
