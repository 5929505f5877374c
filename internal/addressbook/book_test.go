package addressbook

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/addressbook/internal/types"
)

func contact(first, last, city, state, zip string) types.Contact {
	return types.Contact{
		FirstName: first,
		LastName:  last,
		Address:   "Chitlapakkam",
		City:      city,
		State:     state,
		Zip:       zip,
		Phone:     "7200920651",
		Email:     first + "@example.com",
	}
}

func names(b *Book) []string {
	var out []string
	for _, c := range b.Contacts() {
		out = append(out, c.FullName())
	}
	return out
}

func TestBook_AddContactReturnsStoredRecord(t *testing.T) {
	b := NewBook("Friends")
	stored := b.AddContact(contact("Kandlagunta", "Subramanyam", "Chennai", "TamilNadu", "600064"))

	require.Equal(t, 1, b.Len())
	assert.Same(t, stored, b.Contacts()[0])
	assert.NotZero(t, stored.ID)
}

func TestBook_ShowContacts(t *testing.T) {
	b := NewBook("Friends")

	empty := slices.Collect(b.ShowContacts())
	assert.Equal(t, []string{EmptyBookMessage}, empty)

	b.AddContact(contact("Kandlagunta", "Subramanyam", "Chennai", "TamilNadu", "600064"))
	b.AddContact(contact("Ravi", "Kumar", "Hyderabad", "Telangana", "500001"))

	views := slices.Collect(b.ShowContacts())
	require.Len(t, views, 2)
	assert.Contains(t, views[0], "First Name: Kandlagunta")
	assert.Contains(t, views[1], "First Name: Ravi")
}

func TestBook_ShowContactsStopsEarly(t *testing.T) {
	b := NewBook("Friends")
	b.AddContact(contact("A", "One", "X", "Y", "1"))
	b.AddContact(contact("B", "Two", "X", "Y", "2"))

	seen := 0
	for range b.ShowContacts() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestBook_EditContact(t *testing.T) {
	b := NewBook("Friends")
	b.AddContact(contact("Kandlagunta", "Subramanyam", "Chennai", "TamilNadu", "600064"))

	ok, err := b.EditContact("Kandlagunta Subramanyam", "state", "Andhra")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Andhra", b.Contacts()[0].State)

	views := slices.Collect(b.ShowContacts())
	assert.Contains(t, views[0], "State: Andhra")
}

func TestBook_EditContactNoMatchIsNoop(t *testing.T) {
	b := NewBook("Friends")
	b.AddContact(contact("Kandlagunta", "Subramanyam", "Chennai", "TamilNadu", "600064"))

	ok, err := b.EditContact("Nobody Here", "state", "Andhra")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "TamilNadu", b.Contacts()[0].State)
}

func TestBook_EditContactErrors(t *testing.T) {
	b := NewBook("Friends")
	b.AddContact(contact("Kandlagunta", "Subramanyam", "Chennai", "TamilNadu", "600064"))

	_, err := b.EditContact("Kandlagunta Subramanyam", "nickname", "x")
	assert.ErrorIs(t, err, types.ErrUnknownField)

	_, err = b.EditContact("Kandlagunta", "state", "x")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestBook_EditContactFirstMatchOnly(t *testing.T) {
	b := NewBook("Friends")
	first := b.AddContact(contact("Ravi", "Kumar", "Chennai", "TamilNadu", "1"))
	second := b.AddContact(contact("Ravi", "Kumar", "Madurai", "TamilNadu", "2"))

	_, err := b.EditContact("Ravi Kumar", "city", "Vellore")
	require.NoError(t, err)
	assert.Equal(t, "Vellore", first.City)
	assert.Equal(t, "Madurai", second.City)
}

func TestBook_DeleteContactFirstNameOnly(t *testing.T) {
	b := NewBook("Friends")
	b.AddContact(contact("Ravi", "Kumar", "Chennai", "TamilNadu", "1"))
	b.AddContact(contact("Ravi", "Teja", "Hyderabad", "Telangana", "2"))
	b.AddContact(contact("Anu", "Rao", "Pune", "Maharashtra", "3"))

	require.NoError(t, b.DeleteContact("Ravi"))
	assert.Equal(t, []string{"Ravi Teja", "Anu Rao"}, names(b))
}

func TestBook_DeleteContactFullName(t *testing.T) {
	b := NewBook("Friends")
	b.AddContact(contact("Ravi", "Kumar", "Chennai", "TamilNadu", "1"))
	b.AddContact(contact("Ravi", "Teja", "Hyderabad", "Telangana", "2"))

	require.NoError(t, b.DeleteContact("Ravi Teja"))
	assert.Equal(t, []string{"Ravi Kumar"}, names(b))
}

func TestBook_DeleteContactNotFound(t *testing.T) {
	b := NewBook("Friends")
	b.AddContact(contact("Ravi", "Kumar", "Chennai", "TamilNadu", "1"))

	assert.ErrorIs(t, b.DeleteContact("Ravi Teja"), ErrContactNotFound)
	assert.ErrorIs(t, b.DeleteContact("Anu"), ErrContactNotFound)
	assert.ErrorIs(t, b.DeleteContact(""), ErrContactNotFound)
	assert.ErrorIs(t, b.DeleteContact("a b c"), ErrContactNotFound)
	assert.Equal(t, 1, b.Len())
}

func TestBook_Contains(t *testing.T) {
	b := NewBook("Friends")
	b.AddContact(contact("Ravi", "Kumar", "Chennai", "TamilNadu", "1"))

	assert.True(t, b.Contains("Ravi", "Kumar"))
	assert.True(t, b.Contains("Ravi", ""))
	assert.False(t, b.Contains("Ravi", "Teja"))
	assert.False(t, b.Contains("Kumar", ""))
}

func TestBook_SortBy(t *testing.T) {
	newBook := func() *Book {
		b := NewBook("Friends")
		b.AddContact(contact("Ravi", "Teja", "Hyderabad", "Telangana", "500001"))
		b.AddContact(contact("Anu", "Rao", "Pune", "Maharashtra", "411001"))
		b.AddContact(contact("Ravi", "Kumar", "Chennai", "TamilNadu", "600064"))
		return b
	}

	tests := []struct {
		field string
		want  []string
	}{
		{"name", []string{"Anu Rao", "Ravi Kumar", "Ravi Teja"}},
		{"city", []string{"Ravi Kumar", "Ravi Teja", "Anu Rao"}},
		{"state", []string{"Anu Rao", "Ravi Kumar", "Ravi Teja"}},
		{"zip", []string{"Anu Rao", "Ravi Teja", "Ravi Kumar"}},
		{"phone", []string{"Ravi Teja", "Anu Rao", "Ravi Kumar"}},
		{"", []string{"Ravi Teja", "Anu Rao", "Ravi Kumar"}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			b := newBook()
			b.SortBy(tt.field)
			assert.Equal(t, tt.want, names(b))
		})
	}
}

func TestBook_SortByIsStable(t *testing.T) {
	b := NewBook("Friends")
	b.AddContact(contact("Ravi", "Teja", "Chennai", "TamilNadu", "1"))
	b.AddContact(contact("Anu", "Rao", "Chennai", "TamilNadu", "2"))
	b.AddContact(contact("Bala", "Murali", "Adyar", "TamilNadu", "3"))

	b.SortBy("city")
	assert.Equal(t, []string{"Bala Murali", "Ravi Teja", "Anu Rao"}, names(b))
}
