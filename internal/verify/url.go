package verify

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/williampepple1/year-checker/internal/config"
)

// BuildURL returns the filtered list URL that shows only identifier.
// It is the equivalent of typing the ID into the admin filter and pressing Find.
func BuildURL(admin *config.AdminConfig, identifier string) string {
	q := url.Values{}
	q.Set("PAGEN_1", "1")
	q.Set("SIZEN_1", strconv.Itoa(admin.PageSize))
	q.Set("ENTITY_ID", admin.EntityID)
	q.Set("lang", admin.Lang)
	q.Set("set_filter", "Y")
	q.Set("adm_filter_applied", "0")
	q.Set("find_id", identifier)

	return strings.TrimRight(admin.BaseURL, "/") + admin.ListPath + "?" + q.Encode()
}
