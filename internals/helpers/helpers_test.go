package helper

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestGenerateSlug(t *testing.T) {
	tests := map[string]string{
		"  Siti Aminah ":    "siti-aminah",
		"José  Ñúñez":       "jose-nunez",
		"admin_01!!":        "admin-01",
		"---":               "",
		"Kelas 7A / Fisika": "kelas-7a-fisika",
	}
	for in, want := range tests {
		if got := GenerateSlug(in); got != want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{errors.New("UNIQUE constraint failed: students.student_owner_id, students.student_roll_number"), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "uq_students_owner_roll"`), true},
		{gorm.ErrRecordNotFound, false},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := IsUniqueViolation(tt.err); got != tt.want {
			t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestAppErrorKinds(t *testing.T) {
	nf := NotFound("student not found")
	if !errors.Is(nf, ErrNotFound) || errors.Is(nf, ErrConflict) {
		t.Fatalf("NotFound kind mismatch: %v", nf)
	}
	if nf.Error() != "student not found" {
		t.Fatalf("message = %q", nf.Error())
	}
	if !errors.Is(fmt.Errorf("wrap: %w", Conflict("dup")), ErrConflict) {
		t.Fatal("wrapped conflict should still match ErrConflict")
	}
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		UserName string `json:"user_name" validate:"required,min=3"`
		Email    string `json:"email" validate:"omitempty,email"`
	}
	err := ValidateStruct(req{UserName: "ab", Email: "nope"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Fields["user_name"]) != 1 || len(ve.Fields["email"]) != 1 {
		t.Fatalf("unexpected fields %v", ve.Fields)
	}
	if err := ValidateStruct(req{UserName: "budi"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestParamsWindow(t *testing.T) {
	p := Params{Page: 2, PerPage: 10}
	if s, e := p.Window(25); s != 10 || e != 20 {
		t.Fatalf("window = %d,%d", s, e)
	}
	if s, e := p.Window(15); s != 10 || e != 15 {
		t.Fatalf("window = %d,%d", s, e)
	}
	if s, e := p.Window(5); s != 5 || e != 5 {
		t.Fatalf("window = %d,%d", s, e)
	}
	meta := BuildMeta(25, p)
	if meta.TotalPages != 3 || !meta.HasNext || !meta.HasPrev {
		t.Fatalf("meta = %+v", meta)
	}
}
