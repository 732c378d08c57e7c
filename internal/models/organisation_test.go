package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddress_FullAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		addr Address
		want string
	}{
		{
			name: "all_parts",
			addr: Address{Street: "Ilica 1", PostalCode: "10000", City: "Zagreb", Country: "HR"},
			want: "Ilica 1, 10000, Zagreb, HR",
		},
		{
			name: "skips_empty_parts",
			addr: Address{Street: "Ilica 1", City: "Zagreb"},
			want: "Ilica 1, Zagreb",
		},
		{
			name: "empty",
			addr: Address{},
			want: "",
		},
		{
			name: "fixed_order",
			addr: Address{Country: "HR", Street: "Ilica 1"},
			want: "Ilica 1, HR",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, tc.addr.FullAddress())
		})
	}
}

func TestOrganisation_MarshalJSON_DerivesFullAddress(t *testing.T) {
	t.Parallel()

	org := Organisation{
		ID:        "42",
		Name:      "Tvrtka d.o.o.",
		TaxNumber: "12345678901",
		Address:   Address{Street: "Ilica 1", PostalCode: "10000", City: "Zagreb", Country: "HR"},
	}

	raw, err := json.Marshal(org)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// fullAddress всегда пересчитывается из полей адреса при сериализации.
	require.Equal(t, "Ilica 1, 10000, Zagreb, HR", decoded["fullAddress"])
	require.Equal(t, "42", decoded["id"])
	require.Equal(t, "Tvrtka d.o.o.", decoded["name"])
	require.Equal(t, "12345678901", decoded["taxNumber"])
	require.Equal(t, "Ilica 1", decoded["street"])
}

func TestOrganisation_HasData(t *testing.T) {
	t.Parallel()

	require.False(t, Organisation{ID: "1"}.HasData())
	require.False(t, Organisation{ID: "1", Name: UnknownOrganisationName}.HasData())
	require.True(t, Organisation{Name: "Tvrtka"}.HasData())
	require.True(t, Organisation{TaxNumber: "123"}.HasData())
	require.True(t, Organisation{Address: Address{City: "Zagreb"}}.HasData())
}
