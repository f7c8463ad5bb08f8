package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestKind tags a request as buy-in or cash-out. The two are structurally
// identical; only the kind and the resolution path differ.
type RequestKind string

const (
	RequestBuyInKind   RequestKind = "buy_in"
	RequestCashOutKind RequestKind = "cash_out"
)

// RequestStatus tracks a request through its single terminal transition.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestProcessed RequestStatus = "processed"
	RequestDeclined  RequestStatus = "declined"
)

// Request is a participant's pending buy-in or cash-out awaiting host action.
type Request struct {
	ID          uuid.UUID     `json:"id"`
	Kind        RequestKind   `json:"kind"`
	UserID      uuid.UUID     `json:"user_id"`
	DisplayName string        `json:"display_name"`
	Amount      int64         `json:"amount"`
	Status      RequestStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
}

// Resolved reports whether the request has left Pending.
func (r *Request) Resolved() bool {
	return r.Status != RequestPending
}

// NewRequest creates a Pending request.
func NewRequest(kind RequestKind, userID uuid.UUID, displayName string, amount int64) Request {
	return Request{
		ID:          uuid.New(),
		Kind:        kind,
		UserID:      userID,
		DisplayName: displayName,
		Amount:      amount,
		Status:      RequestPending,
		RequestedAt: time.Now(),
	}
}

func cloneRequests(reqs []Request) []Request {
	out := make([]Request, len(reqs))
	copy(out, reqs)
	for i := range out {
		if t := out[i].ResolvedAt; t != nil {
			c := *t
			out[i].ResolvedAt = &c
		}
	}
	return out
}
