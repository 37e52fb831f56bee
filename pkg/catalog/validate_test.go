package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/partsdesk/partsdesk/pkg/catalog"
)

func TestValidPartNumber(t *testing.T) {
	valid := []string{
		"PS11752778",
		"W10190965",
		"ps429725",
		"WPW10321304",
		"DA29-00020B",
	}
	for _, pn := range valid {
		assert.True(t, catalog.ValidPartNumber(pn), "expected %q to be valid", pn)
	}

	invalid := []string{
		"",
		"   ",
		"AB1",
		"PS123456789012345678",
		"PS-MAGIC-9000",
		"UNICORN-42",
		"QUANTUM-FILTER",
		"PS 11752778",
		"PS#11752778",
		"----",
	}
	for _, pn := range invalid {
		assert.False(t, catalog.ValidPartNumber(pn), "expected %q to be invalid", pn)
	}
}

func TestValidPrice(t *testing.T) {
	assert.True(t, catalog.ValidPrice(1.0))
	assert.True(t, catalog.ValidPrice(45.99))
	assert.True(t, catalog.ValidPrice(2000.0))

	assert.False(t, catalog.ValidPrice(0.99))
	assert.False(t, catalog.ValidPrice(0))
	assert.False(t, catalog.ValidPrice(-10))
	assert.False(t, catalog.ValidPrice(2000.01))
}
