package search

import (
	"errors"
	"testing"
)

func TestValidate_Accepts(t *testing.T) {
	cases := []Query{
		{Text: "jane.doe@example.com", Type: TypeEmail},
		{Text: "jane+tag@sub.example.co.uk", Type: TypeEmail},
		{Text: "+1 555-123-4567", Type: TypePhone},
		{Text: "5551234567", Type: TypePhone},
		{Text: "octocat", Type: TypeUsername},
		{Text: "abc", Type: TypeUsername},
		{Text: "Jo", Type: TypeName},
		{Text: "Jane Doe", Type: TypeName},
		{Text: "  octocat  ", Type: TypeUsername}, // trimmed before checks
	}

	for _, q := range cases {
		if err := Validate(q); err != nil {
			t.Errorf("Validate(%q, %s): unexpected error %v", q.Text, q.Type, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		q      Query
		reason Reason
	}{
		{Query{Text: "", Type: TypeEmail}, ReasonEmpty},
		{Query{Text: "   ", Type: TypeUsername}, ReasonEmpty},
		{Query{Text: "\t\n", Type: TypeName}, ReasonEmpty},
		{Query{Text: "not-an-email", Type: TypeEmail}, ReasonInvalidFormat},
		{Query{Text: "a@b", Type: TypeEmail}, ReasonInvalidFormat},
		{Query{Text: "123", Type: TypePhone}, ReasonInvalidFormat},
		{Query{Text: "phone-ish", Type: TypePhone}, ReasonInvalidFormat},
		{Query{Text: "ab", Type: TypeUsername}, ReasonTooShort},
		{Query{Text: "a", Type: TypeName}, ReasonTooShort},
		{Query{Text: "anything", Type: QueryType("ip")}, ReasonInvalidFormat},
	}

	for _, tc := range cases {
		err := Validate(tc.q)
		if err == nil {
			t.Errorf("Validate(%q, %s): expected error", tc.q.Text, tc.q.Type)
			continue
		}

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Validate(%q, %s): expected *ValidationError, got %T", tc.q.Text, tc.q.Type, err)
			continue
		}
		if verr.Reason != tc.reason {
			t.Errorf("Validate(%q, %s): expected reason %s, got %s", tc.q.Text, tc.q.Type, tc.reason, verr.Reason)
		}
	}
}

func TestValidate_EmptyWinsOverTypeChecks(t *testing.T) {
	// Whitespace-only text must fail with Empty for every type, even those
	// with their own format rules.
	for _, qt := range Types() {
		err := Validate(Query{Text: "  ", Type: qt})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Reason != ReasonEmpty {
			t.Errorf("type %s: expected Empty rejection, got %v", qt, err)
		}
	}
}
