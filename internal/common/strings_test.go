package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportedName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"title", "Title"},
		{"shipping_carrier", "ShippingCarrier"},
		{"definition_id", "DefinitionID"},
		{"unitPrice", "UnitPrice"},
		{"api-url", "APIURL"},
		{"Carrier", "Carrier"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportedName(tt.in))
		})
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Title", "title"},
		{"ShippingCarrier", "shipping_carrier"},
		{"DefinitionID", "definition_id"},
		{"XMLParser", "xml_parser"},
		{"Price2Cents", "price2_cents"},
		{"sku", "sku"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SnakeCase(tt.in))
		})
	}
}

func TestJoinLeafName(t *testing.T) {
	assert.Equal(t, "shipping_carrier", JoinLeafName("shipping", "carrier"))
}

func TestLowerCamel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Title", "title"},
		{"SKU", "sku"},
		{"URLPath", "urlPath"},
		{"ShippingCarrier", "shippingCarrier"},
		{"ID", "id"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LowerCamel(tt.in))
		})
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Product", "Products"},
		{"Address", "Addresses"},
		{"Box", "Boxes"},
		{"Batch", "Batches"},
		{"Category", "Categories"},
		{"Day", "Days"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Plural(tt.in))
		})
	}
}
