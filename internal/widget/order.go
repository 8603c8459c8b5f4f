package widget

import (
	"fmt"
	"strings"
)

// Order decides how replies to overlapping requests reach the view.
type Order string

const (
	// OrderArrival applies replies as they settle.
	OrderArrival Order = "arrival"
	// OrderSubmission applies replies in the order their queries were sent.
	OrderSubmission Order = "submission"
	// OrderLatest discards replies older than the newest one applied.
	OrderLatest Order = "latest"
)

// Orders lists every policy, default first.
func Orders() []Order {
	return []Order{OrderArrival, OrderSubmission, OrderLatest}
}

// Valid reports whether o is a known policy.
func (o Order) Valid() bool {
	switch o {
	case OrderArrival, OrderSubmission, OrderLatest:
		return true
	}
	return false
}

func (o Order) String() string {
	return string(o)
}

// ParseOrder parses a policy name. The empty string means arrival.
func ParseOrder(s string) (Order, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return OrderArrival, nil
	}
	o := Order(s)
	if !o.Valid() {
		return "", fmt.Errorf("unknown order %q (want arrival, submission or latest)", s)
	}
	return o, nil
}
