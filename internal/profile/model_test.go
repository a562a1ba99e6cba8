package profile

import (
	"testing"
)

func TestUpdateFields_Name(t *testing.T) {
	tests := []struct {
		name     string
		fields   UpdateFields
		current  string
		want     string
		supplied bool
	}{
		{"full name wins", UpdateFields{FullName: "  Ada Lovelace ", FirstName: "X", LastName: "Y"}, "Old", "Ada Lovelace", true},
		{"first and last", UpdateFields{FirstName: " Ada ", LastName: " Lovelace"}, "Old", "Ada Lovelace", true},
		{"first only", UpdateFields{FirstName: "Ada"}, "Old", "Ada", true},
		{"last only", UpdateFields{LastName: "Lovelace"}, "Old", "Lovelace", true},
		{"blank parts keep current", UpdateFields{FirstName: "  ", LastName: " "}, "Old", "Old", true},
		{"blank full name ignored", UpdateFields{FullName: "   "}, "Old", "", false},
		{"nothing supplied", UpdateFields{AvatarURL: "https://a.png"}, "Old", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, supplied := tt.fields.name(tt.current)
			if got != tt.want || supplied != tt.supplied {
				t.Errorf("name() = (%q, %v), want (%q, %v)", got, supplied, tt.want, tt.supplied)
			}
		})
	}
}

func TestUpdateFields_IsEmpty(t *testing.T) {
	if !(UpdateFields{}).IsEmpty() {
		t.Error("zero value should be empty")
	}
	if !(UpdateFields{FullName: "  "}).IsEmpty() {
		t.Error("whitespace-only fields should be empty")
	}
	if (UpdateFields{AvatarURL: "https://a.png"}).IsEmpty() {
		t.Error("avatar should count as a change")
	}
}

func TestDiff_NeverBlanks(t *testing.T) {
	existing := &Profile{ClerkID: "user_1", Email: "a@b.c", FullName: "Jane Doe", AvatarURL: "https://a.png"}
	identity := Identity{ClerkID: "user_1"}

	c := diff(existing, identity, UpdateFields{FullName: " ", FirstName: "", AvatarURL: "  "})
	if !c.IsEmpty() {
		t.Errorf("expected no changes, got %v", c.Fields())
	}
}

func TestDiff_IdentityFillsBlanksOnly(t *testing.T) {
	existing := &Profile{ClerkID: "user_1", Email: "", FullName: "Kept Name", AvatarURL: ""}
	identity := Identity{ClerkID: "user_1", Email: "new@b.c", FullName: "Other Name", ImageURL: "https://img.png"}

	c := diff(existing, identity, UpdateFields{})
	if c.Email == nil || *c.Email != "new@b.c" {
		t.Errorf("expected email backfilled, got %v", c.Email)
	}
	if c.FullName != nil {
		t.Errorf("expected stored name kept, got %q", *c.FullName)
	}
	if c.AvatarURL == nil || *c.AvatarURL != "https://img.png" {
		t.Errorf("expected avatar backfilled, got %v", c.AvatarURL)
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Admin "); !ok || r != RoleAdmin {
		t.Errorf("expected admin, got %q, %v", r, ok)
	}
	if _, ok := ParseRole("owner"); ok {
		t.Error("expected unknown role to be rejected")
	}
}

func TestDeriveID_Stable(t *testing.T) {
	if DeriveID("user_1") != DeriveID("user_1") {
		t.Error("expected derived id to be deterministic")
	}
	if DeriveID("user_1") == DeriveID("user_2") {
		t.Error("expected distinct identities to derive distinct ids")
	}
}

func TestIdentity_Name(t *testing.T) {
	if got := (Identity{FirstName: "Ada", LastName: "Lovelace"}).Name(); got != "Ada Lovelace" {
		t.Errorf("unexpected name %q", got)
	}
	if got := (Identity{FullName: " Countess ", FirstName: "Ada"}).Name(); got != "Countess" {
		t.Errorf("unexpected name %q", got)
	}
}
