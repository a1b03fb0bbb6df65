package pharmacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apotekanet/crm-api/internal/gateway"
)

func TestFromRecordEnforcesRequiredFields(t *testing.T) {
	_, err := FromRecord(gateway.Record{"id": "p1", "name": "Apoteka Sunce", "city": "Sarajevo"})
	assert.Error(t, err, "address missing")

	_, err = FromRecord(gateway.Record{"name": "Apoteka Sunce", "address": "Ulica 1", "city": "Sarajevo"})
	assert.Error(t, err, "id missing")
}

func TestFromRecordCoercesOptionalsToNil(t *testing.T) {
	p, err := FromRecord(gateway.Record{
		"id": "p1", "name": "Apoteka Sunce", "address": "Ulica 1", "city": "Sarajevo",
		"phone": nil, "email": "", "contact_person": "Amir H.",
	})
	require.NoError(t, err)

	assert.Nil(t, p.Phone)
	assert.Nil(t, p.Email, "empty string becomes null")
	require.NotNil(t, p.ContactPerson)
	assert.Equal(t, "Amir H.", *p.ContactPerson)
}

func TestToRecordRoundTrip(t *testing.T) {
	phone := "033 123 456"
	p := Pharmacy{ID: "p1", Name: "Apoteka Sunce", Address: "Ulica 1", City: "Sarajevo", Phone: &phone}

	back, err := FromRecord(p.ToRecord())
	require.NoError(t, err)

	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, p.Name, back.Name)
	require.NotNil(t, back.Phone)
	assert.Equal(t, phone, *back.Phone)
	assert.Nil(t, back.Email)
}
