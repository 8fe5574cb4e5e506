package envelope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewAuthAccountMintsValidUUID(t *testing.T) {
	method := AuthMethod{Name: "password", Fields: []Field{
		{Name: "username", FieldType: FieldString, Required: true},
	}}

	account := NewAuthAccount(method)

	_, err := uuid.Parse(account.AccountID)
	assert.NoError(t, err)
	assert.Equal(t, method, account.UsedAuthMethod)
}

func TestNewAuthAccountMintsDistinctIDsPerCall(t *testing.T) {
	method := AuthMethod{Name: "password"}

	first := NewAuthAccount(method)
	second := NewAuthAccount(method)

	assert.NotEqual(t, first.AccountID, second.AccountID)
}
