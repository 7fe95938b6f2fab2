package scraper

// CameraClient is the HTTP collaborator the pipeline consumes: a text
// fetch for pages and a binary fetch for snapshots.
type CameraClient interface {
	FetchPage(url string) (string, error)
	DownloadImage(url string) ([]byte, error)
}
