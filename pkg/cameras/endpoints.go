package cameras

import "strings"

const (
	// BaseURL is the base URL of the CIC Tenerife camera portal
	BaseURL = "https://cic.tenerife.es/web3"

	// MosaicURL is the page listing the per-camera iframes
	MosaicURL = BaseURL + "/mosaico_cctv/mosaico.html"
)

// ResolveSource turns a relative iframe source into an absolute URL by
// replacing every literal ".." with the portal base path. This is the
// site-specific repair the mosaic page needs, not general URL resolution.
func ResolveSource(src, baseURL string) string {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return strings.ReplaceAll(src, "..", baseURL)
}

// FileNameFromURL derives a local file name from an image URL: whatever
// follows the final slash, unchanged.
func FileNameFromURL(imageURL string) string {
	idx := strings.LastIndex(imageURL, "/")
	if idx < 0 {
		return imageURL
	}
	return imageURL[idx+1:]
}
