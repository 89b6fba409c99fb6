package domain

import "strings"

// Contact form field bounds, in characters.
const (
	MaxContactNameLength    = 100
	MaxContactEmailLength   = 254
	MaxContactMessageLength = 2000
)

// ContactMessage is a message submitted through the storefront contact form.
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,basic_email"`
	Message string `json:"message" validate:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (m *ContactMessage) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
}

// Truncate bounds every field to its maximum length. It is a size guard, not
// sanitization.
func (m *ContactMessage) Truncate() {
	m.Name = truncate(m.Name, MaxContactNameLength)
	m.Email = truncate(m.Email, MaxContactEmailLength)
	m.Message = truncate(m.Message, MaxContactMessageLength)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
