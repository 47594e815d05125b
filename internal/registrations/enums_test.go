package registrations

import "testing"

func TestStatusIsValid(t *testing.T) {
	valid := []Status{StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusWaitlist}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	for _, s := range []Status{"", "pending", "DONE"} {
		if s.IsValid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestPaymentStatusIsValid(t *testing.T) {
	valid := []PaymentStatus{PaymentNone, PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}
	for _, p := range valid {
		if !p.IsValid() {
			t.Errorf("expected %s to be valid", p)
		}
	}
	for _, p := range []PaymentStatus{"", "paid", "SETTLED"} {
		if p.IsValid() {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestRegisterRequestIdentity(t *testing.T) {
	req := RegisterRequest{
		IdentityKey: "tg:42",
		Username:    "someone",
		FullName:    "Some One",
		Phone:       "+998900000000",
		PromoCode:   "EARLY",
	}

	identity := req.Identity()
	if identity.IdentityKey != "tg:42" || identity.FullName != "Some One" {
		t.Fatalf("identity fields not carried over: %+v", identity)
	}
	if identity.Username != "someone" || identity.Phone != "+998900000000" {
		t.Fatalf("optional identity fields not carried over: %+v", identity)
	}
}
