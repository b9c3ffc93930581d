package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("+911234567890"))
	assert.True(t, IsValidPhone("9123456789"))
	assert.False(t, IsValidPhone(""))
	assert.False(t, IsValidPhone("12345"))
	assert.False(t, IsValidPhone("+91 1234 567890"))
	assert.False(t, IsValidPhone("phone-number"))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Ramesh Patil"))
	assert.True(t, IsValidName("O'Brien-Deshmukh"))
	assert.False(t, IsValidName(""))
	assert.False(t, IsValidName("rm -rf /"))
}

func TestIsValidLatLng(t *testing.T) {
	assert.True(t, IsValidLatLng(19.99, 73.78))
	assert.True(t, IsValidLatLng(-90, 180))
	assert.False(t, IsValidLatLng(90.1, 0))
	assert.False(t, IsValidLatLng(0, -180.5))
}