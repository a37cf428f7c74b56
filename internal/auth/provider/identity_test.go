package provider

import (
	"errors"
	"testing"
)

func TestNormalizeIdentity_FlatShape(t *testing.T) {
	raw := []byte(`{"sub":"u1","email":"a@b.com","name":"Ada","grade":"Plus","subscription_active":true}`)
	id, err := NormalizeIdentity(raw)
	if err != nil {
		t.Fatalf("NormalizeIdentity err: %v", err)
	}
	if id.ExternalID != "u1" || id.Email != "a@b.com" || id.DisplayName != "Ada" {
		t.Fatalf("identity mismatch: %+v", id)
	}
	if id.Grade != "plus" {
		t.Fatalf("grade not case-folded: %q", id.Grade)
	}
}

func TestNormalizeIdentity_NestedShape(t *testing.T) {
	raw := []byte(`{
		"user": {"uuid": "u2", "email": "c@d.com", "display_name": "Grace"},
		"subscription": {"plan": "PRO", "status": "active"}
	}`)
	id, err := NormalizeIdentity(raw)
	if err != nil {
		t.Fatalf("NormalizeIdentity err: %v", err)
	}
	if id.ExternalID != "u2" || id.Email != "c@d.com" || id.DisplayName != "Grace" {
		t.Fatalf("identity mismatch: %+v", id)
	}
	if id.Grade != "pro" || !id.Active {
		t.Fatalf("grade/active mismatch: %+v", id)
	}
}

func TestNormalizeIdentity_InactiveSubscriptionIsFree(t *testing.T) {
	cases := map[string][]byte{
		"flat inactive": []byte(`{"sub":"u1","email":"a@b.com","grade":"plus","subscription_active":false}`),
		"nested lapsed": []byte(`{"user":{"uuid":"u2","email":"c@d.com"},"subscription":{"plan":"plus","status":"declined"}}`),
		"nested empty":  []byte(`{"user":{"uuid":"u3","email":"e@f.com"}}`),
	}
	for name, raw := range cases {
		id, err := NormalizeIdentity(raw)
		if err != nil {
			t.Fatalf("%s: err %v", name, err)
		}
		// Stale plan fields never leak through an inactive subscription.
		if id.Grade != GradeFree {
			t.Fatalf("%s: grade = %q, want %q", name, id.Grade, GradeFree)
		}
	}
}

func TestNormalizeIdentity_IncompleteOrUnknown(t *testing.T) {
	cases := map[string][]byte{
		"unknown shape": []byte(`{"profile":{"id":"x"}}`),
		"missing email": []byte(`{"sub":"u1","grade":"plus"}`),
		"empty object":  []byte(`{}`),
		"nested no email": []byte(`{
			"user":{"uuid":"u9"},"subscription":{"plan":"plus","status":"active"}}`),
	}
	for name, raw := range cases {
		_, err := NormalizeIdentity(raw)
		if !errors.Is(err, ErrIdentityIncomplete) {
			t.Fatalf("%s: err = %v, want ErrIdentityIncomplete", name, err)
		}
	}
}
