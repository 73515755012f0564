package figshare

import "strings"

// Article is a summary record from the article listing endpoint.
type Article struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	DOI           string `json:"doi"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
}

// ArticleDetail is the full article record, including files.
type ArticleDetail struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	DOI   string `json:"doi"`
	Files []File `json:"files"`
}

// File is one attachment of an article.
type File struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mime_type"`
	DownloadURL string `json:"download_url"`
	Size        int64  `json:"size"`
}

// PDFURLs returns the download URLs of the article's PDF files,
// identified by extension or MIME type.
func (d *ArticleDetail) PDFURLs() []string {
	var urls []string

	for _, f := range d.Files {
		if f.DownloadURL == "" {
			continue
		}

		name := strings.ToLower(f.Name)
		mime := strings.ToLower(f.MimeType)

		if strings.HasSuffix(name, ".pdf") || mime == "application/pdf" {
			urls = append(urls, f.DownloadURL)
		}
	}

	return urls
}
