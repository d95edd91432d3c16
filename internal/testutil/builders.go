package testutil

import "github.com/brightside-platform/alert-service/internal/domain/model"

// SubjectBuilder provides a fluent interface for building Subject objects for testing.
type SubjectBuilder struct {
	subject *model.Subject
}

// NewSubject creates a new SubjectBuilder with sensible defaults.
func NewSubject() *SubjectBuilder {
	return &SubjectBuilder{
		subject: &model.Subject{
			ID:   "subject-1",
			Name: "Alex Doe",
		},
	}
}

// WithID sets the subject identifier.
func (b *SubjectBuilder) WithID(id string) *SubjectBuilder {
	b.subject.ID = id
	return b
}

// WithName sets the subject display name.
func (b *SubjectBuilder) WithName(name string) *SubjectBuilder {
	b.subject.Name = name
	return b
}

// WithContact appends a contact.
func (b *SubjectBuilder) WithContact(c model.Contact) *SubjectBuilder {
	b.subject.Contacts = append(b.subject.Contacts, c)
	return b
}

// WithContacts replaces the contact list.
func (b *SubjectBuilder) WithContacts(contacts ...model.Contact) *SubjectBuilder {
	b.subject.Contacts = contacts
	return b
}

// Build returns the constructed subject.
func (b *SubjectBuilder) Build() *model.Subject {
	return b.subject
}

// Contact builds a contact in one line for table-driven tests.
func Contact(name, email, relationship string) model.Contact {
	return model.Contact{
		Name:         name,
		Email:        email,
		Relationship: relationship,
	}
}
