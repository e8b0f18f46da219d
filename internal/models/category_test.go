package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		parsed, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestParseCategoryUnknown(t *testing.T) {
	for _, input := range []string{"groceries", "FOOD", "", "misc"} {
		_, err := ParseCategory(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, IsValidationError(err))
	}
}

func TestCategoriesIsClosedSet(t *testing.T) {
	assert.Len(t, Categories(), 9)
	assert.False(t, Category("education").Valid())
}
