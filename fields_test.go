package fieldclip_test

import (
	"strings"
	"testing"

	"github.com/mergefield/fieldclip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldList(t *testing.T) {
	in := "FirstName\r\nLastName\n\n  Email  \nFirstName\n\t\n"
	names, err := fieldclip.ParseFieldList(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"FirstName", "LastName", "Email"}, names)
}

func TestParseFieldList_Empty(t *testing.T) {
	names, err := fieldclip.ParseFieldList(strings.NewReader("\n \n"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
