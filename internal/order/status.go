package order

import "fmt"

type Status string

const (
	StatusReceived  Status = "received"
	StatusPreparing Status = "preparing"
	StatusOnTheWay  Status = "on_the_way"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// transitions lists every legal edge. Cancellation is not possible once the
// order has left the restaurant.
var transitions = map[Status][]Status{
	StatusReceived:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusOnTheWay, StatusCancelled},
	StatusOnTheWay:  {StatusDelivered},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

var AllStatuses = []Status{StatusReceived, StatusPreparing, StatusOnTheWay, StatusDelivered, StatusCancelled}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsPending reports whether the order is still being worked on.
func (s Status) IsPending() bool {
	return s == StatusReceived || s == StatusPreparing || s == StatusOnTheWay
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from s.
func (s Status) Next() []Status {
	return append([]Status(nil), transitions[s]...)
}

func (s Status) String() string {
	return string(s)
}
