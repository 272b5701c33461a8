package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractGenericDollarPrice_MedianTrimming(t *testing.T) {
	body := `<html><body>$5.00 $199.99 $205.00 $210.00 $220.00</body></html>`
	price, ok := extractGenericDollarPrice(body)
	require.True(t, ok)
	assert.InDelta(t, 199.99, price, 0.001)
}

func TestExtractGenericDollarPrice_MonthlyFilterDiscardsFinancingOffer(t *testing.T) {
	body := `<body>$45 /mo financing available. List price $899.00 today.</body>`
	price, ok := extractGenericDollarPrice(body)
	require.True(t, ok)
	assert.InDelta(t, 899.00, price, 0.001)
}

func TestExtractJSONLDPrice_WinsOverGenericNoise(t *testing.T) {
	body := `{"name":"Widget","offers":{"price":"129.95"}} some unrelated text $5 noise`
	result := extractFromBody("generic", body)
	require.NotNil(t, result.Price)
	assert.InDelta(t, 129.95, *result.Price, 0.001)
}

func TestExtractAmazonDOMPrice_PairsWholeAndFraction(t *testing.T) {
	body := `<span class="a-price-whole">129</span><span class="a-price-fraction">99</span>`
	price, ok := extractAmazonDOMPrice("amazon", body)
	require.True(t, ok)
	assert.Equal(t, 129.99, price)
}

func TestExtractAmazonDOMPrice_IgnoredForNonAmazonSites(t *testing.T) {
	body := `<span class="a-price-whole">129</span><span class="a-price-fraction">99</span>`
	_, ok := extractAmazonDOMPrice("bestbuy", body)
	assert.False(t, ok)
}

func TestExtractGenericDollarPrice_BoundaryPricesAcceptedAndRejected(t *testing.T) {
	body := `$3.00 $50,000.00`
	price, ok := extractGenericDollarPrice(body)
	require.True(t, ok)
	assert.Equal(t, 50000.00, price)

	_, ok = extractGenericDollarPrice(`$2.99`)
	assert.False(t, ok)

	_, ok = extractGenericDollarPrice(`$50,000.01`)
	assert.False(t, ok)
}

func TestExtractGenericDollarPrice_ShippingFilterSuppressesLowShippingCost(t *testing.T) {
	body := `Free shipping included. Item price $150.00. Shipping cost $8.00 if expedited.`
	price, ok := extractGenericDollarPrice(body)
	require.True(t, ok)
	assert.InDelta(t, 150.00, price, 0.001)
}

func TestExtractTitle_CollapsesWhitespace(t *testing.T) {
	body := "<html><head><title>  Office   Chair\n  - Model X  </title></head></html>"
	title, ok := extractTitle(body)
	require.True(t, ok)
	assert.Equal(t, "Office Chair - Model X", title)
}

func TestExtractTitle_AbsentWhenEmpty(t *testing.T) {
	_, ok := extractTitle("<title>   </title>")
	assert.False(t, ok)
}

func TestExtractResultURL_AmazonRootsRelativePath(t *testing.T) {
	body := `<a href="/dp/B0ABCDEFG?ref=sr_1_1\u0026qid=123">Buy now</a>`
	url, ok := extractResultURL("amazon", body)
	require.True(t, ok)
	assert.Equal(t, "https://www.amazon.com/dp/B0ABCDEFG?ref=sr_1_1&qid=123", url)
}

func TestExtractResultURL_UnknownSiteReturnsFalse(t *testing.T) {
	_, ok := extractResultURL("walmart", "<html>no pattern here</html>")
	assert.False(t, ok)
}
