package firefly

import (
	"encoding/json"
	"time"
)

// Page mirrors the paged list envelope returned when a request carries the
// count parameter.
type Page[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
	Total int `json:"total"`
}

// TransactionRef links a record to the transaction that produced it.
type TransactionRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// TokenApproval mirrors /tokens/approvals entries.
type TokenApproval struct {
	LocalID         string          `json:"localId"`
	Pool            string          `json:"pool"`
	Connector       string          `json:"connector"`
	Key             string          `json:"key"`
	Operator        string          `json:"operator"`
	Approved        bool            `json:"approved"`
	Info            json.RawMessage `json:"info,omitempty"`
	Namespace       string          `json:"namespace"`
	ProtocolID      string          `json:"protocolId"`
	Subject         string          `json:"subject"`
	Active          bool            `json:"active"`
	Message         string          `json:"message,omitempty"`
	MessageHash     string          `json:"messageHash,omitempty"`
	Created         string          `json:"created"`
	TX              TransactionRef  `json:"tx"`
	BlockchainEvent string          `json:"blockchainEvent,omitempty"`
}

// ParsedCreated returns the creation timestamp.
func (a TokenApproval) ParsedCreated() time.Time {
	return ParseTime(a.Created)
}

// TokenPool mirrors /tokens/pools entries.
type TokenPool struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Namespace   string          `json:"namespace"`
	Name        string          `json:"name"`
	NetworkName string          `json:"networkName,omitempty"`
	Standard    string          `json:"standard"`
	Locator     string          `json:"locator"`
	Decimals    int             `json:"decimals"`
	Connector   string          `json:"connector"`
	Message     string          `json:"message,omitempty"`
	Symbol      string          `json:"symbol,omitempty"`
	State       string          `json:"state,omitempty"`
	Active      bool            `json:"active"`
	Published   bool            `json:"published"`
	Created     string          `json:"created"`
	TX          TransactionRef  `json:"tx"`
	Info        json.RawMessage `json:"info,omitempty"`
}

// ParsedCreated returns the creation timestamp.
func (p TokenPool) ParsedCreated() time.Time {
	return ParseTime(p.Created)
}

// StateLabel returns a display state. Older nodes report state, newer ones
// only an active flag.
func (p TokenPool) StateLabel() string {
	if p.State != "" {
		return p.State
	}
	if p.Active {
		return "active"
	}
	return "pending"
}

// Event mirrors /events entries.
type Event struct {
	ID         string         `json:"id"`
	Sequence   int64          `json:"sequence"`
	Type       string         `json:"type"`
	Namespace  string         `json:"namespace"`
	Reference  string         `json:"reference"`
	Correlator string         `json:"correlator,omitempty"`
	TX         TransactionRef `json:"tx"`
	Topic      string         `json:"topic,omitempty"`
	Created    string         `json:"created"`
}

// ParsedCreated returns the creation timestamp.
func (e Event) ParsedCreated() time.Time {
	return ParseTime(e.Created)
}

// Event types that signal token approval or pool changes.
const (
	EventApprovalConfirmed = "token_approval_confirmed"
	EventApprovalOpFailed  = "token_approval_op_failed"
	EventPoolConfirmed     = "token_pool_confirmed"
	EventPoolOpFailed      = "token_pool_op_failed"
)

// HasApprovalEvent reports whether any event changes token approvals.
func HasApprovalEvent(events []Event) bool {
	return hasEventType(events, EventApprovalConfirmed, EventApprovalOpFailed)
}

// HasPoolEvent reports whether any event changes token pools.
func HasPoolEvent(events []Event) bool {
	return hasEventType(events, EventPoolConfirmed, EventPoolOpFailed)
}

func hasEventType(events []Event, types ...string) bool {
	for _, ev := range events {
		for _, t := range types {
			if ev.Type == t {
				return true
			}
		}
	}
	return false
}

// Namespace mirrors the /namespaces listing.
type Namespace struct {
	Name        string `json:"name"`
	NetworkName string `json:"networkName,omitempty"`
	Description string `json:"description"`
	Created     string `json:"created"`
}

// Status mirrors /namespaces/{ns}/status.
type Status struct {
	Namespace  Namespace        `json:"namespace"`
	Node       NodeStatus       `json:"node"`
	Org        OrgStatus        `json:"org"`
	Multiparty MultipartyStatus `json:"multiparty"`
}

// NodeStatus describes the local node.
type NodeStatus struct {
	Name       string `json:"name"`
	Registered bool   `json:"registered"`
	ID         string `json:"id,omitempty"`
}

// OrgStatus describes the local org.
type OrgStatus struct {
	Name       string `json:"name"`
	Registered bool   `json:"registered"`
	DID        string `json:"did,omitempty"`
	ID         string `json:"id,omitempty"`
}

// MultipartyStatus reports whether multiparty mode is on.
type MultipartyStatus struct {
	Enabled bool `json:"enabled"`
}

// Identity returns the DID the node acts as, falling back to the org name.
func (s Status) Identity() string {
	if s.Org.DID != "" {
		return s.Org.DID
	}
	return s.Org.Name
}

// ParseTime reads FireFly timestamps. Invalid or empty values yield the zero time.
func ParseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
