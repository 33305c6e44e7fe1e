package apicontract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/perfume-inventory/api-contract"
)

func TestLoadSpec(t *testing.T) {
	doc, err := apicontract.LoadSpec(context.Background())
	require.NoError(t, err)

	assert.Nil(t, doc.Servers)
	assert.NotNil(t, doc.Paths.Find("/api/v1/inventory/submissions"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/products/{product_id}/stores/{store_id}/inventory"))
}
