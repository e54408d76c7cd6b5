package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bergambar/internal/domain"
)

func TestCommissionInput(t *testing.T) {
	in := domain.CommissionInput{Title: "  Logo ", Description: " Vector logo ", TotalPrice: 120, PublicStatus: "pending"}
	require.NoError(t, Struct(&in))
	assert.Equal(t, "Logo", in.Title)
	assert.Equal(t, "Vector logo", in.Description)

	in.Image = "/static/placeholder.svg?height=300&width=400"
	assert.NoError(t, Struct(&in))
	in.Image = "https://cdn.example.com/a.png"
	assert.NoError(t, Struct(&in))

	bad := domain.CommissionInput{Description: "   ", TotalPrice: -1, PublicStatus: "shipped", Image: "javascript:alert(1)"}
	msgs := Messages(Struct(&bad))
	assert.Contains(t, msgs, "Description")
	assert.Contains(t, msgs, "TotalPrice")
	assert.Contains(t, msgs, "PublicStatus")
	assert.Contains(t, msgs, "Image")
	assert.NotContains(t, msgs, "Title")
}

func TestRegisterUsername(t *testing.T) {
	ok := domain.RegisterInput{Name: "Dana", Username: "dana_draws", Email: "dana@example.com", Password: "x"}
	assert.NoError(t, Struct(&ok))

	ok.Username = ""
	assert.NoError(t, Struct(&ok), "username is optional")

	ok.Username = "da na"
	assert.Equal(t, "3-30 letters, digits or underscores.", Messages(Struct(&ok))["Username"])
}

func TestMessagesNonValidationError(t *testing.T) {
	assert.Empty(t, Messages(nil))
	assert.Contains(t, Messages(assert.AnError), "_")
}

func TestID(t *testing.T) {
	id, ok := ID("42")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	for _, s := range []string{"", "0", "-3", "abc", "1e3", "9999999999999999999999"} {
		_, ok := ID(s)
		assert.False(t, ok, "input %q", s)
	}
}

func TestPassword(t *testing.T) {
	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))
	assert.False(t, Password("Sh0rt!"))
}

func TestEmail(t *testing.T) {
	_, ok := Email(" alice@example.com ")
	assert.True(t, ok)
	_, ok = Email("alice@")
	assert.False(t, ok)
}
