package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	Name        string  `validate:"required,max=100"`
	Description string  `validate:"required,max=500"`
	Price       float64 `validate:"gte=0"`
	Category    string  `validate:"required"`
	Stock       int     `validate:"gte=0"`
}

func validPayload() productPayload {
	return productPayload{
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, hot-swappable switches",
		Price:       89.99,
		Category:    "Peripherals",
		Stock:       12,
	}
}

func TestCheck_ValidPayloadPasses(t *testing.T) {
	p := validPayload()
	assert.Nil(t, Check(p))
}

func TestCheck_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*productPayload)
		wantKey string
	}{
		{"empty name", func(p *productPayload) { p.Name = "" }, "Name"},
		{"name over 100 chars", func(p *productPayload) { p.Name = strings.Repeat("a", 101) }, "Name"},
		{"empty description", func(p *productPayload) { p.Description = "" }, "Description"},
		{"description over 500 chars", func(p *productPayload) { p.Description = strings.Repeat("d", 501) }, "Description"},
		{"negative price", func(p *productPayload) { p.Price = -1 }, "Price"},
		{"negative stock", func(p *productPayload) { p.Stock = -5 }, "Stock"},
		{"empty category", func(p *productPayload) { p.Category = "" }, "Category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)

			fieldErrs := Check(p)
			require.NotNil(t, fieldErrs)
			assert.Contains(t, fieldErrs.Fields, tt.wantKey)
			for _, msgs := range fieldErrs.Fields {
				assert.NotEmpty(t, msgs)
			}
		})
	}
}

func TestCheck_CollectsEveryViolation(t *testing.T) {
	p := productPayload{
		Name:        "",
		Description: "",
		Price:       -1,
		Category:    "",
		Stock:       -5,
	}

	fieldErrs := Check(p)
	require.NotNil(t, fieldErrs)

	for _, field := range []string{"Name", "Description", "Price", "Category", "Stock"} {
		assert.Contains(t, fieldErrs.Fields, field, "expected a %s entry", field)
	}
}

func TestCheck_BoundaryLengthsPass(t *testing.T) {
	p := validPayload()
	p.Name = strings.Repeat("n", 100)
	p.Description = strings.Repeat("d", 500)
	p.Price = 0
	p.Stock = 0

	assert.Nil(t, Check(p))
}

func TestFieldErrors_ErrorMentionsEachField(t *testing.T) {
	fieldErrs := Check(productPayload{Price: -1, Stock: -1, Name: "x", Description: "y", Category: "z"})
	require.NotNil(t, fieldErrs)

	msg := fieldErrs.Error()
	assert.Contains(t, msg, "Price")
	assert.Contains(t, msg, "Stock")
}
