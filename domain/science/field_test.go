package science

import "testing"

func TestFieldCodes(t *testing.T) {
	seen := make(map[string]Field)
	for _, f := range AllFields() {
		code := f.Code()
		if len(code) != 3 {
			t.Errorf("Expected 3-letter code for %s, got %q", f, code)
		}
		if prev, dup := seen[code]; dup {
			t.Errorf("Code %q shared by %s and %s", code, prev, f)
		}
		seen[code] = f
		if !f.IsValid() {
			t.Errorf("Expected %s to be valid", f)
		}
	}
	if Field("alchemy").IsValid() {
		t.Error("Expected unknown field to be invalid")
	}
	if got := Field("alchemy").Code(); got != "UNK" {
		t.Errorf("Expected UNK code for unknown field, got %q", got)
	}
}

func TestCanCollaborate(t *testing.T) {
	cases := []struct {
		primary, other Field
		want           bool
	}{
		{Biology, Biology, true},
		{Biology, Botany, true},
		{Botany, Biology, true},
		{Chemistry, Biology, true},
		// The table is directional.
		{Biology, Areology, false},
		{Areology, Biology, true},
		{Engineering, Biology, false},
	}
	for _, c := range cases {
		if got := CanCollaborate(c.primary, c.other); got != c.want {
			t.Errorf("CanCollaborate(%s, %s) = %v, want %v", c.primary, c.other, got, c.want)
		}
	}
}

func TestCollaborativeFieldsIsACopy(t *testing.T) {
	fields := CollaborativeFields(Biology)
	if len(fields) == 0 {
		t.Fatal("Expected biology to declare collaborative fields")
	}
	fields[0] = "alchemy"
	if !CanCollaborate(Biology, CollaborativeFields(Biology)[0]) {
		t.Error("Expected mutation of the returned slice to leave the table intact")
	}
}
