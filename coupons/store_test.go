package coupons

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// The usage guard must only match while usage remains: unlimited coupons
// (usageLimit <= 0) always match, limited ones only while usedCount is
// strictly below the limit. The comparison has to happen server-side so
// concurrent checkouts cannot both slip past a stale read.
func TestUsageGuardFilterShape(t *testing.T) {
	filter := usageGuardFilter("SAVE10")

	if filter["code"] != "SAVE10" {
		t.Errorf("code = %v, want SAVE10", filter["code"])
	}

	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %#v, want two branches", filter["$or"])
	}

	unlimited, ok := or[0]["usageLimit"].(bson.M)
	if !ok || unlimited["$lte"] != 0 {
		t.Errorf("unlimited branch = %#v, want usageLimit $lte 0", or[0])
	}

	expr, ok := or[1]["$expr"].(bson.M)
	if !ok {
		t.Fatalf("limited branch = %#v, want an $expr comparison", or[1])
	}
	lt, ok := expr["$lt"].([]string)
	if !ok || len(lt) != 2 || lt[0] != "$usedCount" || lt[1] != "$usageLimit" {
		t.Errorf("$lt = %#v, want [$usedCount $usageLimit]", expr["$lt"])
	}
}
