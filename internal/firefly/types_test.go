package firefly

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTokenApprovalDecodesFireFlyShape(t *testing.T) {
	raw := `{
		"localId": "1f0e2b9c-6d2f-4c51-9a53-3a1f7e6c9b10",
		"pool": "pool-1",
		"connector": "erc20_erc721",
		"key": "0xabc",
		"operator": "0xdef",
		"approved": true,
		"namespace": "default",
		"protocolId": "000000000010/000000/000000",
		"subject": "0xabc:0xdef",
		"active": true,
		"created": "2023-05-01T10:11:12.123456Z",
		"tx": {"type": "token_approval", "id": "tx-1"}
	}`
	var a TokenApproval
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if a.LocalID == "" || !a.Approved || a.ProtocolID != "000000000010/000000/000000" || a.TX.ID != "tx-1" {
		t.Fatalf("decoded approval = %#v", a)
	}
	created := a.ParsedCreated()
	if created.Year() != 2023 || created.Month() != time.May || created.Nanosecond() == 0 {
		t.Fatalf("ParsedCreated = %v, want 2023-05-01 with nanos", created)
	}
}

func TestTokenPoolStateLabel(t *testing.T) {
	cases := []struct {
		pool TokenPool
		want string
	}{
		{TokenPool{State: "confirmed"}, "confirmed"},
		{TokenPool{Active: true}, "active"},
		{TokenPool{}, "pending"},
	}
	for _, tc := range cases {
		if got := tc.pool.StateLabel(); got != tc.want {
			t.Fatalf("StateLabel(%#v) = %q, want %q", tc.pool, got, tc.want)
		}
	}
}

func TestEventTypeHelpers(t *testing.T) {
	events := []Event{{Type: "message_confirmed"}, {Type: EventPoolOpFailed}}
	if HasApprovalEvent(events) {
		t.Fatalf("HasApprovalEvent = true, want false")
	}
	if !HasPoolEvent(events) {
		t.Fatalf("HasPoolEvent = false, want true")
	}
	if HasPoolEvent(nil) {
		t.Fatalf("HasPoolEvent(nil) = true")
	}
}

func TestStatusIdentityFallsBackToOrgName(t *testing.T) {
	s := Status{Org: OrgStatus{Name: "org_0"}}
	if s.Identity() != "org_0" {
		t.Fatalf("Identity = %q, want org_0", s.Identity())
	}
}

func TestParseTimeInvalid(t *testing.T) {
	if !ParseTime("").IsZero() || !ParseTime("yesterday").IsZero() {
		t.Fatalf("parseTime should return zero for empty or invalid input")
	}
}
