package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kesavaawalakbari/konek/internal/i18n"
)

func TestLocalizer_T(t *testing.T) {
	b, err := i18n.New("id")
	require.NoError(t, err)

	tests := []struct {
		name   string
		accept string
		id     string
		data   map[string]any
		want   string
	}{
		{name: "DefaultIndonesian", accept: "", id: "ProductCreated", want: "Produk berhasil ditambahkan"},
		{name: "English", accept: "en-US,en;q=0.9", id: "ProductCreated", want: "Product created"},
		{name: "UnknownLanguageFallsBack", accept: "fr", id: "StoreDeleted", want: "Toko berhasil dihapus"},
		{name: "Template", accept: "en", id: "ProductsImported", data: map[string]any{"Count": 3}, want: "3 products imported"},
		{name: "MissingID", accept: "en", id: "NoSuchMessage", want: "NoSuchMessage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := b.Localizer(tt.accept)

			if tt.data != nil {
				assert.Equal(t, tt.want, l.T(tt.id, tt.data))
				return
			}

			assert.Equal(t, tt.want, l.T(tt.id))
		})
	}
}

func TestFromContext(t *testing.T) {
	assert.Nil(t, i18n.FromContext(context.Background()))
	assert.Equal(t, "OK", i18n.FromContext(context.Background()).T("OK"))

	b, err := i18n.New("en")
	require.NoError(t, err)

	ctx := i18n.WithLocalizer(context.Background(), b.Localizer(""))
	assert.Equal(t, "Success", i18n.FromContext(ctx).T("OK"))
}

func TestNew_BadLanguage(t *testing.T) {
	_, err := i18n.New("!!")
	assert.Error(t, err)
}
