package inputval

import (
	"testing"
)

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		// Valid ObjectIDs (24 hex characters)
		{"507f1f77bcf86cd799439011", true},
		{"000000000000000000000000", true},
		{"ffffffffffffffffffffffff", true},

		// Invalid ObjectIDs
		{"", false},
		{"   ", false},
		{"507f1f77bcf86cd79943901", false},  // Too short (23 chars)
		{"507f1f77bcf86cd7994390111", false}, // Too long (25 chars)
		{"507f1f77bcf86cd79943901g", false},  // Invalid hex char
		{"not-an-object-id", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := IsValidObjectID(tt.id)
			if got != tt.want {
				t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

type contentInput struct {
	Heading     string `json:"heading" validate:"required,max=200,sluggable" label:"Heading"`
	Description string `json:"description" validate:"required,richtext" label:"Description"`
	Status      string `json:"status" validate:"contentstatus" label:"Status"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     contentInput
		wantField string
	}{
		{
			name:  "valid input",
			input: contentInput{Heading: "Paid Ads", Description: "<p>x</p>"},
		},
		{
			name:  "valid with status",
			input: contentInput{Heading: "Paid Ads", Description: "<p>x</p>", Status: "published"},
		},
		{
			name:      "missing heading",
			input:     contentInput{Description: "<p>x</p>"},
			wantField: "heading",
		},
		{
			name:      "heading without letters or digits",
			input:     contentInput{Heading: "!!!", Description: "<p>x</p>"},
			wantField: "heading",
		},
		{
			name:      "missing description",
			input:     contentInput{Heading: "Paid Ads"},
			wantField: "description",
		},
		{
			name:      "empty editor markup",
			input:     contentInput{Heading: "Paid Ads", Description: "<p><br></p>"},
			wantField: "description",
		},
		{
			name:      "unknown status",
			input:     contentInput{Heading: "Paid Ads", Description: "<p>x</p>", Status: "deleted"},
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if tt.wantField == "" {
				if result.HasErrors() {
					t.Errorf("Validate() expected no errors, got: %s", result.First())
				}
				return
			}
			if !result.HasErrors() {
				t.Fatalf("Validate() expected errors, got none")
			}
			if _, ok := result.Map()[tt.wantField]; !ok {
				t.Errorf("Validate() errors = %v, want field %q", result.Map(), tt.wantField)
			}
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	result := Validate(contentInput{Heading: "Paid Ads", Description: "<p>x</p>", Status: "deleted"})
	want := "Status must be one of: draft, published, archived."
	if result.First() != want {
		t.Errorf("First() = %q, want %q", result.First(), want)
	}

	result = Validate(contentInput{Heading: "???", Description: "<p>x</p>"})
	want = "Heading must contain at least one letter or digit."
	if result.First() != want {
		t.Errorf("First() = %q, want %q", result.First(), want)
	}
}

func TestIsValidContentStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"", true},
		{"draft", true},
		{"published", true},
		{"archived", true},
		{" Published ", true},
		{"deleted", false},
		{"live", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := IsValidContentStatus(tt.status); got != tt.want {
				t.Errorf("IsValidContentStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestResult_Map(t *testing.T) {
	r := &Result{
		Errors: []FieldError{
			{Field: "heading", Label: "Heading", Message: "Heading is required."},
			{Field: "heading", Label: "Heading", Message: "Heading must be at most 200 characters."},
			{Field: "description", Label: "Description", Message: "Description is required."},
		},
	}
	m := r.Map()
	if len(m) != 2 {
		t.Fatalf("Map() len = %d, want 2", len(m))
	}
	if m["heading"] != "Heading is required." {
		t.Errorf("Map()[heading] = %q, want first message", m["heading"])
	}
}

func TestResult_First(t *testing.T) {
	// Empty result
	r := &Result{}
	if got := r.First(); got != "" {
		t.Errorf("First() on empty result = %q, want empty string", got)
	}

	// Result with errors
	r = &Result{
		Errors: []FieldError{
			{Field: "name", Label: "Name", Message: "Name is required."},
			{Field: "email", Label: "Email", Message: "Email is required."},
		},
	}
	if got := r.First(); got != "Name is required." {
		t.Errorf("First() = %q, want %q", got, "Name is required.")
	}
}

func TestResult_All(t *testing.T) {
	// Empty result
	r := &Result{}
	if got := r.All(); got != "" {
		t.Errorf("All() on empty result = %q, want empty string", got)
	}

	// Result with errors
	r = &Result{
		Errors: []FieldError{
			{Field: "name", Label: "Name", Message: "Name is required."},
			{Field: "email", Label: "Email", Message: "Email is required."},
		},
	}
	want := "Name is required.; Email is required."
	if got := r.All(); got != want {
		t.Errorf("All() = %q, want %q", got, want)
	}
}

func TestResult_HasErrors(t *testing.T) {
	// Empty result
	r := &Result{}
	if r.HasErrors() {
		t.Error("HasErrors() on empty result should return false")
	}

	// Result with errors
	r = &Result{
		Errors: []FieldError{
			{Field: "name", Label: "Name", Message: "Name is required."},
		},
	}
	if !r.HasErrors() {
		t.Error("HasErrors() with errors should return true")
	}
}

func TestValidate_MinMaxRules(t *testing.T) {
	type LengthInput struct {
		Short string `validate:"min=3" label:"Short field"`
		Long  string `validate:"max=5" label:"Long field"`
	}

	// Valid lengths
	result := Validate(LengthInput{Short: "abc", Long: "12345"})
	if result.HasErrors() {
		t.Errorf("Validate() valid lengths should pass, got: %s", result.First())
	}

	// Too short
	result = Validate(LengthInput{Short: "ab", Long: "123"})
	if !result.HasErrors() {
		t.Error("Validate() short=ab should fail min=3")
	}

	// Too long
	result = Validate(LengthInput{Short: "abcd", Long: "123456"})
	if !result.HasErrors() {
		t.Error("Validate() long=123456 should fail max=5")
	}
}

func TestValidate_OneOfRule(t *testing.T) {
	type EnumInput struct {
		Status string `validate:"oneof=active inactive" label:"Status"`
	}

	result := Validate(EnumInput{Status: "active"})
	if result.HasErrors() {
		t.Errorf("Validate() oneof=active should be valid, got: %s", result.First())
	}

	result = Validate(EnumInput{Status: "deleted"})
	if !result.HasErrors() {
		t.Error("Validate() oneof=deleted should fail")
	}
}

func TestValidate_PointerStruct(t *testing.T) {
	type Input struct {
		Name string `validate:"required" label:"Name"`
	}

	input := &Input{Name: "test"}
	result := Validate(input)
	if result.HasErrors() {
		t.Errorf("Validate() pointer struct should work, got: %s", result.First())
	}
}

func TestValidate_NonStruct(t *testing.T) {
	// Validate with non-struct should not panic
	result := Validate("not a struct")
	// Should return empty result (no fields to validate)
	if result == nil {
		t.Error("Validate() non-struct should return non-nil result")
	}
}

func TestValidate_JSONTags(t *testing.T) {
	type Input struct {
		FullName string `json:"full_name" validate:"required" label:"Full name"`
	}

	result := Validate(Input{FullName: ""})
	if !result.HasErrors() {
		t.Error("Validate() empty FullName should fail")
	}
	// The label should be used in the message
	if result.First() != "Full name is required." {
		t.Errorf("Validate() error message = %q, want label-based message", result.First())
	}
}

func TestValidate_NoLabel(t *testing.T) {
	type Input struct {
		Name string `validate:"required"` // No label tag
	}

	result := Validate(Input{Name: ""})
	if !result.HasErrors() {
		t.Error("Validate() empty Name should fail")
	}
	// Should use field name when no label
	if result.First() != "Name is required." {
		t.Errorf("Validate() error message = %q, want field name message", result.First())
	}
}
