package model

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestSignUpRequest_Validation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		req     SignUpRequest
		wantErr bool
	}{
		{"valid", SignUpRequest{Email: "a@example.com", Password: "password1", Name: "Ann"}, false},
		{"bad email", SignUpRequest{Email: "not-an-email", Password: "password1", Name: "Ann"}, true},
		{"short password", SignUpRequest{Email: "a@example.com", Password: "short", Name: "Ann"}, true},
		{"missing name", SignUpRequest{Email: "a@example.com", Password: "password1"}, true},
		{"password over bcrypt limit", SignUpRequest{Email: "a@example.com", Password: strings.Repeat("p", 73), Name: "Ann"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateProfileRequest_Validation(t *testing.T) {
	validate := validator.New()

	valid := UpdateProfileRequest{
		Name:      "Ann",
		Year:      2,
		Skills:    []string{"go"},
		GitHubURL: "https://github.com/ann",
	}
	assert.NoError(t, validate.Struct(valid))

	tests := []struct {
		name   string
		mutate func(r *UpdateProfileRequest)
	}{
		{"year above range", func(r *UpdateProfileRequest) { r.Year = 9 }},
		{"negative year", func(r *UpdateProfileRequest) { r.Year = -1 }},
		{"empty skill", func(r *UpdateProfileRequest) { r.Skills = []string{""} }},
		{"bad github url", func(r *UpdateProfileRequest) { r.GitHubURL = "github" }},
		{"empty name", func(r *UpdateProfileRequest) { r.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.Error(t, validate.Struct(req))
		})
	}
}
