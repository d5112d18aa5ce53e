package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "demo account password", password: "password"},
		{name: "password with special chars", password: "p@ssw0rd!#%"},
		{name: "long password", password: "a-password-considerably-longer-than-the-demo-one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			assert.NoError(t, CompareHash(hash, tt.password))
			assert.Error(t, CompareHash(hash, tt.password+"x"))
		})
	}
}

func TestCompareHash_RejectsWrongHash(t *testing.T) {
	hash, err := GetHash("password")
	require.NoError(t, err)

	otherHash, err := GetHash("another-password")
	require.NoError(t, err)

	assert.Error(t, CompareHash(otherHash, "password"))
	assert.Error(t, CompareHash(hash, ""))
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "password"))
}

func TestGetHash_SaltedHashesDiffer(t *testing.T) {
	first, err := GetHash("password")
	require.NoError(t, err)

	second, err := GetHash("password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
