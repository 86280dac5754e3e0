package pay

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func confirmRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/api/v1/pay/confirm", strings.NewReader(body))
}

func TestRequestHashStableForReplays(t *testing.T) {
	body := []byte(`{"orderId":"ORD-1","paymentRef":"pay_abc","method":"card"}`)

	h1 := computeRequestHash(confirmRequest(string(body)), body, "u1")
	h2 := computeRequestHash(confirmRequest(string(body)), body, "u1")
	if h1 != h2 {
		t.Errorf("identical replays hash differently: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}

func TestRequestHashDetectsConflicts(t *testing.T) {
	base := []byte(`{"orderId":"ORD-1","paymentRef":"pay_abc","method":"card"}`)
	baseHash := computeRequestHash(confirmRequest(string(base)), base, "u1")

	// a reused key with any of these changed must not look like a replay
	otherBody := []byte(`{"orderId":"ORD-2","paymentRef":"pay_abc","method":"card"}`)
	if h := computeRequestHash(confirmRequest(string(otherBody)), otherBody, "u1"); h == baseHash {
		t.Error("different payload produced the same hash")
	}
	if h := computeRequestHash(confirmRequest(string(base)), base, "u2"); h == baseHash {
		t.Error("different user produced the same hash")
	}
	other := httptest.NewRequest(http.MethodPost, "/api/v1/pay/other", strings.NewReader(string(base)))
	if h := computeRequestHash(other, base, "u1"); h == baseHash {
		t.Error("different path produced the same hash")
	}
}
