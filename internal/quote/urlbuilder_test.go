package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSiteURL_BuiltInTable(t *testing.T) {
	url := buildSiteURL("amazon", "office chair", nil)
	assert.Equal(t, "https://www.amazon.com/s?k=office%20chair", url)
}

func TestBuildSiteURL_UnknownSiteFallsBackToSearch(t *testing.T) {
	url := buildSiteURL("not_a_real_site", "widget", nil)
	assert.Equal(t, "https://www.google.com/search?q=widget+buy", url)
}

func TestBuildSiteURL_OverrideTemplateSubstitutesSpaceAsPercent20(t *testing.T) {
	overrides := SiteOverrides{"custom": "https://x/?q={q}"}
	url := buildSiteURL("custom", "a b", overrides)
	assert.Equal(t, "https://x/?q=a%20b", url)
}

func TestBuildSiteURL_OverrideWinsOverBuiltInTable(t *testing.T) {
	overrides := SiteOverrides{"amazon": "https://override.example/?query={q}"}
	url := buildSiteURL("amazon", "test", overrides)
	assert.Equal(t, "https://override.example/?query=test", url)
}

func TestBuildSiteURL_IsPure(t *testing.T) {
	a := buildSiteURL("bestbuy", "gpu", nil)
	b := buildSiteURL("bestbuy", "gpu", nil)
	assert.Equal(t, a, b)
}
